package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// UserStore is the persistence surface the auth services depend on.
// Implemented by repository.UsersRepository; tests use in-memory fakes.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetPasswordToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetPassword(ctx context.Context, id uuid.UUID, hash string) error
	SetEmailVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	ConsumeEmailVerification(ctx context.Context, id uuid.UUID, token string) error
	SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	ConsumeResetPasswordToken(ctx context.Context, token, newHash string) (uuid.UUID, error)
	SetTwoFactorSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTwoFactor(ctx context.Context, id uuid.UUID) error
	DisableTwoFactor(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdentityStore persists external identity links, keyed by provider tag.
type IdentityStore interface {
	Create(ctx context.Context, identity *domain.ExternalIdentity) error
	GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider domain.Provider) (*domain.ExternalIdentity, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ExternalIdentity, error)
}

// Mailer is the outbound email collaborator. The verification code and the
// reset token are delivered out of band; failures are logged, not fatal to
// the triggering request once state is committed.
type Mailer interface {
	SendVerificationEmail(to, code string) error
	SendResetPasswordEmail(to, token string) error
}
