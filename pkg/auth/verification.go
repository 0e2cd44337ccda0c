package auth

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// Default one-time token lifetimes.
const (
	DefaultEmailVerificationTTL = 24 * time.Hour
	DefaultPasswordResetTTL     = time.Hour
)

const (
	verificationCodeLen   = 6
	verificationCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no ambiguous chars
)

// VerificationConfig holds one-time token lifetimes.
type VerificationConfig struct {
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration
}

// VerificationManager issues and consumes the single-use email-verification
// and password-reset tokens carried on the user row. The two flows are
// independent; consuming one never touches the other.
type VerificationManager struct {
	config VerificationConfig
	users  UserStore
}

// NewVerificationManager creates a manager, applying default lifetimes.
func NewVerificationManager(config VerificationConfig, users UserStore) *VerificationManager {
	if config.EmailVerificationTTL == 0 {
		config.EmailVerificationTTL = DefaultEmailVerificationTTL
	}
	if config.PasswordResetTTL == 0 {
		config.PasswordResetTTL = DefaultPasswordResetTTL
	}
	return &VerificationManager{config: config, users: users}
}

// IssueEmailVerification stores a fresh verification code on the user row
// and returns it for delivery. Any pending code is replaced.
func (m *VerificationManager) IssueEmailVerification(ctx context.Context, userID uuid.UUID) (string, error) {
	code, err := generateVerificationCode()
	if err != nil {
		return "", err
	}
	expires := time.Now().Add(m.config.EmailVerificationTTL)
	if err := m.users.SetEmailVerificationToken(ctx, userID, code, expires); err != nil {
		return "", err
	}
	return code, nil
}

// ConfirmEmail validates the code submitted for an email address and marks
// the account verified. The token and its expiry are cleared in the same
// write that sets the verified flag.
func (m *VerificationManager) ConfirmEmail(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.EmailVerificationToken == nil || *user.EmailVerificationToken != code {
		return nil, domain.ErrTokenInvalid
	}
	if user.EmailVerificationTokenExpires == nil || user.EmailVerificationTokenExpires.Before(time.Now()) {
		return nil, domain.ErrTokenExpired
	}
	if err := m.users.ConsumeEmailVerification(ctx, user.ID, code); err != nil {
		return nil, err
	}
	return m.users.GetByID(ctx, user.ID)
}

// IssuePasswordReset stores a fresh reset token on the user row and returns
// it for delivery.
func (m *VerificationManager) IssuePasswordReset(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	expires := time.Now().Add(m.config.PasswordResetTTL)
	if err := m.users.SetResetPasswordToken(ctx, userID, token, expires); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token and applies the new password hash in
// the same persistence write. A second use of the same token fails.
func (m *VerificationManager) ResetPassword(ctx context.Context, token, newPassword string) (uuid.UUID, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return uuid.Nil, err
	}

	user, err := m.users.GetByResetPasswordToken(ctx, token)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if user.ResetPasswordTokenExpires == nil || user.ResetPasswordTokenExpires.Before(time.Now()) {
		return uuid.Nil, domain.ErrTokenExpired
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return uuid.Nil, err
	}
	return m.users.ConsumeResetPasswordToken(ctx, token, hash)
}

// generateVerificationCode produces a short random code for email delivery.
func generateVerificationCode() (string, error) {
	buf := make([]byte, verificationCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = verificationCodeChars[int(b)%len(verificationCodeChars)]
	}
	return string(buf), nil
}
