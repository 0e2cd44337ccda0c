package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// WriteError is the single boundary translator mapping domain errors to
// status codes. Uncategorized errors become a generic 500; the underlying
// error is logged server-side, never echoed to the client.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidTwoFactorCode):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrTwoFactorNotConfigured),
		errors.Is(err, domain.ErrTwoFactorNotEnabled),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrIdentityUnknown):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		if logger != nil {
			logger.Error("request failed", "error", err)
		}
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
