package domain

import (
	"time"

	"github.com/google/uuid"
)

// Provider tags an external identity provider.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ParseProvider validates a provider name from a request path or query.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderFacebook:
		return Provider(s), nil
	}
	return "", ErrIdentityUnknown
}

// ExternalIdentity links a user to an upstream identity provider.
// A user holds at most one identity per provider.
type ExternalIdentity struct {
	UserID     uuid.UUID
	Provider   Provider
	ExternalID string
	CreatedAt  time.Time
}
