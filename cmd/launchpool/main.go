package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/launchpool/launchpool-api/internal/config"
	httpserver "github.com/launchpool/launchpool-api/internal/http"
	"github.com/launchpool/launchpool-api/internal/notification"
	"github.com/launchpool/launchpool-api/internal/ws"
	"github.com/launchpool/launchpool-api/pkg/auth"
	"github.com/launchpool/launchpool-api/pkg/repository"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(repository.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database")

	usersRepo := repository.NewUsersRepository(db)
	identitiesRepo := repository.NewIdentitiesRepository(db)

	codec := auth.NewTokenCodec(auth.TokenConfig{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.JWTIssuer,
	})

	hub := ws.NewHub(logger, codec)

	var mailer auth.Mailer
	if cfg.HasSMTP() {
		mailer = notification.NewEmailService(notification.EmailConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			User:       cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			From:       cfg.SMTPFrom,
			FromName:   cfg.SMTPFromName,
			AppBaseURL: cfg.FrontendURL,
		})
		logger.Info("email service enabled")
	}

	verification := auth.NewVerificationManager(auth.VerificationConfig{
		EmailVerificationTTL: cfg.EmailVerificationTTL,
		PasswordResetTTL:     cfg.PasswordResetTTL,
	}, usersRepo)

	twoFactor := auth.NewTwoFactorManager(auth.TwoFactorConfig{
		Issuer: cfg.TwoFactorIssuer,
	}, usersRepo, hub)

	accounts := auth.NewAccountService(logger, usersRepo, verification, twoFactor, mailer, hub)
	logins := auth.NewLoginService(logger, accounts, usersRepo, identitiesRepo, twoFactor, codec)

	var providers []auth.OAuthProvider
	if cfg.HasGoogleOAuth() {
		providers = append(providers, auth.NewGoogleProvider(auth.OAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURI:  cfg.GoogleRedirectURI,
		}))
		logger.Info("Google OAuth enabled")
	}
	if cfg.HasFacebookOAuth() {
		providers = append(providers, auth.NewFacebookProvider(auth.OAuthConfig{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURI:  cfg.FacebookRedirectURI,
		}))
		logger.Info("Facebook OAuth enabled")
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:      logger,
		Accounts:    accounts,
		Logins:      logins,
		TwoFactor:   twoFactor,
		TokenCodec:  codec,
		Providers:   providers,
		FrontendURL: cfg.FrontendURL,
		Hub:         hub,

		RateLimitEnabled:      cfg.RateLimitEnabled,
		AuthRequestsPerMinute: cfg.AuthRequestsPerMinute,
		ResetRequestsPerHour:  cfg.ResetRequestsPerHour,
	})

	addr := fmt.Sprintf("%s:%d", cfg.ServerAddr, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
