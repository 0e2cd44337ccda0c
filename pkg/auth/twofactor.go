package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/launchpool/launchpool-api/pkg/domain"
	"github.com/launchpool/launchpool-api/pkg/notify"
)

const (
	totpPeriod = 30
	totpSkew   = 1 // accepted clock drift, in time steps
	qrSizePx   = 200
)

// TwoFactorConfig holds TOTP issuance settings.
type TwoFactorConfig struct {
	Issuer string
}

// TwoFactorManager drives the per-user 2FA lifecycle:
// Disabled -> SecretIssued -> Enabled. Every transition pushes an event to
// the affected user's channel.
type TwoFactorManager struct {
	config   TwoFactorConfig
	users    UserStore
	notifier notify.Notifier
}

// NewTwoFactorManager creates a two-factor manager.
func NewTwoFactorManager(config TwoFactorConfig, users UserStore, notifier notify.Notifier) *TwoFactorManager {
	return &TwoFactorManager{config: config, users: users, notifier: notifier}
}

// TwoFactorSetup is returned from secret issuance. The QR code encodes the
// provisioning URL as a PNG data URI for direct rendering.
type TwoFactorSetup struct {
	Secret        string `json:"secret"`
	OtpauthURL    string `json:"otpauthUrl"`
	QRCodeDataURI string `json:"qrCodeUrl"`
}

// GenerateSecret issues a fresh shared secret bound to the account's email.
// Re-issuing overwrites any existing secret, immediately invalidating codes
// derived from it.
func (m *TwoFactorManager) GenerateSecret(ctx context.Context, userID uuid.UUID) (*TwoFactorSetup, error) {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.config.Issuer,
		AccountName: user.Email,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := m.users.SetTwoFactorSecret(ctx, userID, key.Secret()); err != nil {
		return nil, err
	}

	img, err := key.Image(qrSizePx, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	m.notifier.Notify(userID, notify.EventTwoFactorSecretGenerated, map[string]string{"userId": userID.String()})

	return &TwoFactorSetup{
		Secret:        key.Secret(),
		OtpauthURL:    key.URL(),
		QRCodeDataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// VerifyAndEnable checks a submitted code against the issued secret and,
// on match, flips the enabled flag. State is unchanged on mismatch.
func (m *TwoFactorManager) VerifyAndEnable(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := validateCode(user, code); err != nil {
		return err
	}

	if err := m.users.EnableTwoFactor(ctx, userID); err != nil {
		return err
	}
	m.notifier.Notify(userID, notify.EventTwoFactorEnabled, map[string]string{"userId": userID.String()})
	return nil
}

// VerifyCode checks a login-time code for an already loaded user.
func (m *TwoFactorManager) VerifyCode(user *domain.User, code string) error {
	return validateCode(user, code)
}

// Disable clears the secret and the enabled flag unconditionally.
func (m *TwoFactorManager) Disable(ctx context.Context, userID uuid.UUID) error {
	if err := m.users.DisableTwoFactor(ctx, userID); err != nil {
		return err
	}
	m.notifier.Notify(userID, notify.EventTwoFactorDisabled, map[string]string{"userId": userID.String()})
	return nil
}

// validateCode verifies a TOTP code within the allowed skew window.
func validateCode(user *domain.User, code string) error {
	if user.TwoFactorSecret == nil || *user.TwoFactorSecret == "" {
		return domain.ErrTwoFactorNotConfigured
	}
	valid, err := totp.ValidateCustom(code, *user.TwoFactorSecret, time.Now(), totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return fmt.Errorf("failed to validate TOTP code: %w", err)
	}
	if !valid {
		return domain.ErrInvalidTwoFactorCode
	}
	return nil
}
