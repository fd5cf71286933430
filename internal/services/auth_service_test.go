package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"invoice-backend/internal/auth"
	"invoice-backend/internal/config"
)

func authConfig(t *testing.T, totpSecret string) *config.Config {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.Admin.Username = "admin"
	cfg.Admin.PasswordHash = hash
	cfg.Admin.TOTPSecret = totpSecret
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "invoice-backend"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	cfg := authConfig(t, "")
	jwtManager := auth.NewJWTManager(cfg)
	svc := NewAuthService(cfg, jwtManager)

	resp, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := jwtManager.ValidateToken(resp.Token); err != nil {
		t.Errorf("issued token does not validate: %v", err)
	}

	for _, req := range []LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "s3cret"},
		{},
	} {
		if _, err := svc.Login(ctx, &req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for %+v, got %v", req, err)
		}
	}
}

func TestLoginWithTOTP(t *testing.T) {
	ctx := context.Background()
	key, err := auth.GenerateTOTP("admin")
	if err != nil {
		t.Fatalf("GenerateTOTP failed: %v", err)
	}
	cfg := authConfig(t, key.Secret())
	svc := NewAuthService(cfg, auth.NewJWTManager(cfg))

	if _, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "s3cret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected missing code to fail, got %v", err)
	}

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: "s3cret", Code: code}); err != nil {
		t.Errorf("expected login with valid code, got %v", err)
	}
}
