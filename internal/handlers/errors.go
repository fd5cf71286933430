package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"invoice-backend/internal/mailer"
	"invoice-backend/internal/middleware"
	"invoice-backend/internal/payments"
	"invoice-backend/internal/plot"
	"invoice-backend/internal/repositories"
	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

// statusFor maps service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, plot.ErrInsufficientData):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate), errors.Is(err, repositories.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, payments.ErrDisabled), errors.Is(err, mailer.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.Error(w, status, "internal server error")
		return
	}
	utils.Error(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func invoiceNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || n <= 0 {
		utils.Error(w, http.StatusBadRequest, "invalid invoice number")
		return 0, false
	}
	return n, true
}

// actor names the authenticated user behind r, or "anonymous" when auth is off.
func actor(r *http.Request) string {
	if username, ok := middleware.GetUsernameFromContext(r.Context()); ok {
		return username
	}
	return "anonymous"
}
