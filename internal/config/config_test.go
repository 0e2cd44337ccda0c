package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "access-secret")
	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without JWT_REFRESH_SECRET")
	}
}

func TestLoad_RejectsSharedSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject identical access and refresh secrets")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 1h", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 168h", cfg.RefreshTokenTTL)
	}
	if cfg.EmailVerificationTTL != 24*time.Hour {
		t.Errorf("EmailVerificationTTL = %v, want 24h", cfg.EmailVerificationTTL)
	}
	if cfg.PasswordResetTTL != time.Hour {
		t.Errorf("PasswordResetTTL = %v, want 1h", cfg.PasswordResetTTL)
	}
	if cfg.HasSMTP() {
		t.Error("HasSMTP() should be false without SMTP_HOST")
	}
}

func TestLoad_TTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Errorf("AccessTokenTTL = %v, want 30m", cfg.AccessTokenTTL)
	}
}
