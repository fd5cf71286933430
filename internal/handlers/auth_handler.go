package handlers

import (
	"context"
	"net/http"

	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

type Authenticator interface {
	Login(ctx context.Context, req *services.LoginRequest) (*services.LoginResponse, error)
}

type AuthHandler struct {
	Service Authenticator
}

func NewAuthHandler(s Authenticator) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login exchanges the admin credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
