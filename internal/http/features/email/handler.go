// Package email implements the verification endpoints.
package email

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/launchpool/launchpool-api/internal/http/features/common"
	"github.com/launchpool/launchpool-api/internal/httputil"
	"github.com/launchpool/launchpool-api/pkg/auth"
)

// Handler handles email verification.
type Handler struct {
	logger   *slog.Logger
	accounts *auth.AccountService
}

// NewHandler creates an email handler.
func NewHandler(logger *slog.Logger, accounts *auth.AccountService) *Handler {
	return &Handler{logger: logger, accounts: accounts}
}

// VerifyEmailRequest submits the code mailed at registration.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResendRequest asks for a fresh verification code.
type ResendRequest struct {
	Email string `json:"email"`
}

// VerifyEmail consumes a verification code.
// POST /verify-email
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "email and code are required")
		return
	}

	user, err := h.accounts.ConfirmEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{
		"message": "Email verified successfully",
		"user":    common.NewUserResponse(user),
	})
}

// Resend issues a fresh verification code for an unverified address.
// POST /resend-verification
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	var req ResendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		httputil.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.accounts.ResendVerification(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Verification email resent successfully")
}
