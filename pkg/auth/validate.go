package auth

import (
	"net/mail"
	"strings"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// Field length bounds carried by the user entity.
const (
	passwordMinLen = 8
	passwordMaxLen = 100
	nameMinLen     = 2
	nameMaxLen     = 50
	phoneMaxLen    = 15
)

// ValidateEmail checks RFC 5322 address syntax. The stored value is not
// case-normalized; lookups are exact-match.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the length policy on plaintext passwords.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return domain.ErrWeakPassword
	}
	return nil
}

// ValidateName enforces the bounded length of first and last names.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < nameMinLen || len(trimmed) > nameMaxLen {
		return domain.ErrInvalidName
	}
	return nil
}

// ValidatePhone enforces the phone number bound. Empty is allowed.
func ValidatePhone(phone string) error {
	if len(phone) > phoneMaxLen {
		return domain.ErrInvalidPhone
	}
	return nil
}
