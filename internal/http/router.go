package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/launchpool/launchpool-api/internal/http/features/email"
	"github.com/launchpool/launchpool-api/internal/http/features/login"
	"github.com/launchpool/launchpool-api/internal/http/features/oauth"
	"github.com/launchpool/launchpool-api/internal/http/features/password"
	"github.com/launchpool/launchpool-api/internal/http/features/twofactor"
	"github.com/launchpool/launchpool-api/internal/http/features/users"
	"github.com/launchpool/launchpool-api/internal/http/middleware"
	"github.com/launchpool/launchpool-api/internal/httputil"
	"github.com/launchpool/launchpool-api/pkg/auth"
)

// RouterConfig holds the services the router wires into handlers.
type RouterConfig struct {
	Logger      *slog.Logger
	Accounts    *auth.AccountService
	Logins      *auth.LoginService
	TwoFactor   *auth.TwoFactorManager
	TokenCodec  *auth.TokenCodec
	Providers   []auth.OAuthProvider
	FrontendURL string

	// Hub serves websocket connections; nil disables the endpoint.
	Hub http.Handler

	RateLimitEnabled      bool
	AuthRequestsPerMinute int
	ResetRequestsPerHour  int
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authLimit := middleware.NoRateLimit()
	resetLimit := middleware.NoRateLimit()
	if cfg.RateLimitEnabled {
		authLimit = middleware.RateLimit(cfg.AuthRequestsPerMinute, time.Minute, cfg.Logger)
		resetLimit = middleware.RateLimit(cfg.ResetRequestsPerHour, time.Hour, cfg.Logger)
	}

	loginHandler := login.NewHandler(cfg.Logger, cfg.Logins)
	passwordHandler := password.NewHandler(cfg.Logger, cfg.Accounts)
	emailHandler := email.NewHandler(cfg.Logger, cfg.Accounts)
	usersHandler := users.NewHandler(cfg.Logger, cfg.Accounts)
	twoFactorHandler := twofactor.NewHandler(cfg.Logger, cfg.TwoFactor)

	r.Group(func(r chi.Router) {
		r.Use(authLimit)
		r.Post("/login", loginHandler.Login)
		r.Post("/login-2fa", loginHandler.LoginWithTwoFactor)
		r.Post("/refresh-token", loginHandler.Refresh)
		r.Post("/verify-email", emailHandler.VerifyEmail)
		r.Post("/users", usersHandler.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(resetLimit)
		r.Post("/forgot-password", passwordHandler.ForgotPassword)
		r.Post("/reset-password", passwordHandler.ResetPassword)
		r.Post("/resend-verification", emailHandler.Resend)
	})

	if len(cfg.Providers) > 0 {
		oauthHandler := oauth.NewHandler(cfg.Logger, cfg.Logins, cfg.FrontendURL, cfg.Providers...)
		r.Get("/oauth/{provider}", oauthHandler.Start)
		r.Get("/oauth/{provider}/callback", oauthHandler.Callback)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenCodec))
		r.Post("/generate-2fa", twoFactorHandler.Generate)
		r.Post("/verify-2fa", twoFactorHandler.Verify)
		r.Post("/disable-2fa", twoFactorHandler.Disable)
		r.Post("/change-password", passwordHandler.ChangePassword)

		r.Get("/users", usersHandler.List)
		r.Get("/users/{id}", usersHandler.Get)
		r.Put("/users/{id}", usersHandler.Update)
		r.Delete("/users/{id}", usersHandler.Delete)
	})

	if cfg.Hub != nil {
		r.Get("/ws", cfg.Hub.ServeHTTP)
	}

	return r
}
