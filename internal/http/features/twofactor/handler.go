// Package twofactor implements the TOTP setup and teardown endpoints.
// All routes require a bearer access token.
package twofactor

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

// Handler handles two-factor lifecycle endpoints.
type Handler struct {
	logger    *slog.Logger
	twoFactor *auth.TwoFactorManager
}

// NewHandler creates a two-factor handler.
func NewHandler(logger *slog.Logger, twoFactor *auth.TwoFactorManager) *Handler {
	return &Handler{logger: logger, twoFactor: twoFactor}
}

// VerifyRequest submits the code proving possession of the secret.
type VerifyRequest struct {
	Token string `json:"token"`
}

// Generate issues a fresh shared secret with its provisioning URI and QR
// payload. Re-issuing overwrites any previous secret.
// POST /generate-2fa
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	setup, err := h.twoFactor.GenerateSecret(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, setup)
}

// Verify checks a submitted code and enables two-factor on success.
// POST /verify-2fa
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		httputil.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.twoFactor.VerifyAndEnable(r.Context(), userID, req.Token); err != nil {
		// During setup a wrong code is a bad request, not a failed
		// authentication.
		if errors.Is(err, domain.ErrInvalidTwoFactorCode) {
			httputil.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Two-factor authentication enabled successfully")
}

// Disable clears the secret and the enabled flag.
// POST /disable-2fa
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.twoFactor.Disable(r.Context(), userID); err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.Message(w, http.StatusOK, "Two-factor authentication disabled successfully")
}
