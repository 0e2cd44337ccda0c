package domain

import "errors"

// Authentication and account errors. Handlers match these with errors.Is
// and translate them to HTTP status codes in one place.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAlreadyVerified    = errors.New("email is already verified")
)

// Two-factor errors
var (
	ErrTwoFactorNotConfigured = errors.New("two-factor authentication is not set up")
	ErrTwoFactorNotEnabled    = errors.New("two-factor authentication is not enabled")
	ErrInvalidTwoFactorCode   = errors.New("invalid two-factor code")
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrWeakPassword    = errors.New("password must be 8-100 characters")
	ErrInvalidName     = errors.New("name must be 2-50 characters")
	ErrInvalidPhone    = errors.New("phone number too long")
	ErrIdentityUnknown = errors.New("unknown identity provider")
)
