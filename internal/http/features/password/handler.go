// Package password implements the reset and change-password endpoints.
package password

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/launchpool/launchpool-api/internal/http/middleware"
	"github.com/launchpool/launchpool-api/internal/httputil"
	"github.com/launchpool/launchpool-api/pkg/auth"
	"github.com/launchpool/launchpool-api/pkg/domain"
)

// Handler handles password reset and change.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates a password handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// ForgotPasswordRequest carries the account email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest proves the current password before replacing it.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPassword issues a reset token. The response is the same whether or
// not the address exists, so account existence does not leak.
// POST /forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		h.logger.Error("failed to create reset token", "error", err)
	}
	httputil.Message(w, http.StatusOK, "If a user with that email exists, a password reset email has been sent.")
}

// ResetPassword consumes a reset token and sets the new password.
// POST /reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "token and newPassword are required")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Password has been reset successfully.")
}

// ChangePassword replaces the authenticated user's password.
// POST /change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "currentPassword and newPassword are required")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Password changed successfully")
}
