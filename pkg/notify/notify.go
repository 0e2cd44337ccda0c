// Package notify defines the push-notification capability consumed by the
// account and auth services. Implementations deliver events to connected
// WebSocket clients; services depend only on this interface.
package notify

import "github.com/google/uuid"

// Event names pushed over the notification channel.
const (
	EventNewUserRegistered        = "new_user_registered"
	EventUserUpdated              = "user_updated"
	EventUserDeleted              = "user_deleted"
	EventEmailVerified            = "email_verified"
	EventPasswordChanged          = "password_changed"
	EventPasswordReset            = "password_reset"
	EventTwoFactorSecretGenerated = "two_factor_secret_generated"
	EventTwoFactorEnabled         = "two_factor_enabled"
	EventTwoFactorDisabled        = "two_factor_disabled"
)

// Notifier delivers events to users. Notify targets a single user's
// connections; Broadcast reaches every connected client. Delivery is
// best-effort and must not block the calling request.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload any)
	Broadcast(event string, payload any)
}

// Nop is a Notifier that discards everything. Used when the WebSocket
// server is disabled and in tests.
type Nop struct{}

func (Nop) Notify(uuid.UUID, string, any) {}
func (Nop) Broadcast(string, any)         {}
