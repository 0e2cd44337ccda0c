package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRole is assigned to every account at creation.
const DefaultRole = "user"

// User represents a platform account. One-time verification and reset
// tokens live on the user row itself; a token field and its expiry are
// always set and cleared together.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  *string
	Role         string

	IsEmailVerified bool
	LastLoginAt     *time.Time

	EmailVerificationToken        *string
	EmailVerificationTokenExpires *time.Time
	ResetPasswordToken            *string
	ResetPasswordTokenExpires     *time.Time

	TwoFactorSecret    *string
	IsTwoFactorEnabled bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used in API responses.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// TwoFactorState reports where the account sits in the 2FA lifecycle.
type TwoFactorState int

const (
	// TwoFactorDisabled means no secret has been issued.
	TwoFactorDisabled TwoFactorState = iota
	// TwoFactorSecretIssued means a secret exists but possession has not
	// been proven yet.
	TwoFactorSecretIssued
	// TwoFactorEnabled means the user proved possession of the secret.
	TwoFactorEnabled
)

// TwoFactorStatus derives the 2FA lifecycle state from the user record.
func (u *User) TwoFactorStatus() TwoFactorState {
	switch {
	case u.IsTwoFactorEnabled:
		return TwoFactorEnabled
	case u.TwoFactorSecret != nil && *u.TwoFactorSecret != "":
		return TwoFactorSecretIssued
	default:
		return TwoFactorDisabled
	}
}

// UserUpdate holds a partial profile update. Only non-nil fields are applied.
type UserUpdate struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Role        *string
	LastLoginAt *time.Time
}
