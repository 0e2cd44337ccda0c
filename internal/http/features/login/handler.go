// Package login implements the credential and refresh endpoints.
package login

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/launchpool/launchpool-api/internal/http/features/common"
	"github.com/launchpool/launchpool-api/internal/httputil"
	"github.com/launchpool/launchpool-api/pkg/auth"
)

// Handler handles login and token refresh.
type Handler struct {
	logger *slog.Logger
	logins *auth.LoginService
}

// NewHandler creates a login handler.
func NewHandler(logger *slog.Logger, logins *auth.LoginService) *Handler {
	return &Handler{logger: logger, logins: logins}
}

// LoginRequest is the credential login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TwoFactorLoginRequest additionally carries the TOTP code.
type TwoFactorLoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TwoFactorToken string `json:"twoFactorToken"`
}

// RefreshRequest carries the refresh token in the body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is the login outcome. Token fields are omitted while the
// second factor is still pending.
type LoginResponse struct {
	User              *common.UserResponse `json:"user,omitempty"`
	Token             string               `json:"token,omitempty"`
	RefreshToken      string               `json:"refreshToken,omitempty"`
	RequiresTwoFactor bool                 `json:"requiresTwoFactor"`
}

func loginResponse(result *auth.LoginResult) LoginResponse {
	resp := LoginResponse{RequiresTwoFactor: result.RequiresTwoFactor}
	if result.User != nil {
		user := common.NewUserResponse(result.User)
		resp.User = &user
	}
	resp.Token = result.Token
	resp.RefreshToken = result.RefreshToken
	return resp
}

// Login handles credential login.
// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.logins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, loginResponse(result))
}

// LoginWithTwoFactor handles login for two-factor accounts.
// POST /login-2fa
func (h *Handler) LoginWithTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req TwoFactorLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.TwoFactorToken == "" {
		httputil.Error(w, http.StatusBadRequest, "email, password and twoFactorToken are required")
		return
	}

	result, err := h.logins.LoginWithTwoFactor(r.Context(), req.Email, req.Password, req.TwoFactorToken)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, loginResponse(result))
}

// Refresh mints a new token pair from a refresh token.
// POST /refresh-token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	result, err := h.logins.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, loginResponse(result))
}
