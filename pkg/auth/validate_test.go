package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+tag@example.com", false},
		{"empty", "", true},
		{"missing at", "alice.example.com", true},
		{"missing domain", "alice@", true},
		{"display name form", "Alice <alice@example.com>", true},
		{"spaces", "alice @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidEmail) {
				t.Errorf("ValidateEmail(%q) error = %v, want ErrInvalidEmail", tt.email, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"at minimum", strings.Repeat("a", 8), false},
		{"at maximum", strings.Repeat("a", 100), false},
		{"too short", "1234567", true},
		{"too long", strings.Repeat("a", 101), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"typical", "Alice", false},
		{"two characters", "Al", false},
		{"one character", "A", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	if err := ValidatePhone(""); err != nil {
		t.Errorf("empty phone should be allowed, got %v", err)
	}
	if err := ValidatePhone("+14155552671"); err != nil {
		t.Errorf("ValidatePhone() error = %v", err)
	}
	if err := ValidatePhone(strings.Repeat("1", 16)); err == nil {
		t.Error("expected error for over-long phone number")
	}
}
