package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"invoice-backend/internal/auth"
	"invoice-backend/internal/config"
)

// ErrInvalidCredentials is returned for any failed login, without saying which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRequest is the body of POST /auth/login. Code is required when TOTP is configured.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService checks the single admin account configured under admin.*.
type AuthService struct {
	cfg *config.Config
	jwt *auth.JWTManager
}

func NewAuthService(cfg *config.Config, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{cfg: cfg, jwt: jwtManager}
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	admin := s.cfg.Admin

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passOK := auth.VerifyPassword(admin.PasswordHash, req.Password)
	if !userOK || !passOK {
		slog.Warn("Failed login", "username", req.Username)
		return nil, ErrInvalidCredentials
	}
	if admin.TOTPSecret != "" && !auth.ValidateTOTP(admin.TOTPSecret, req.Code) {
		slog.Warn("Failed TOTP check", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.jwt.GenerateToken(admin.Username)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, ExpiresAt: expires}, nil
}
