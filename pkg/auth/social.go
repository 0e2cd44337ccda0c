package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// SocialProfile is the normalized shape of an upstream identity-provider
// profile, produced by the OAuth callback handlers.
type SocialProfile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

// HandleSocialLogin matches an upstream profile to a local account by email.
// A missing account is created with a random throwaway password and the
// email pre-verified: the provider is trusted for address ownership. An
// existing account missing the provider link gets linked. Tokens are always
// minted.
func (s *LoginService) HandleSocialLogin(ctx context.Context, provider domain.Provider, profile SocialProfile) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.accounts.CreateUser(ctx, CreateUserParams{
			Email:         profile.Email,
			Password:      uuid.NewString(),
			FirstName:     profile.FirstName,
			LastName:      profile.LastName,
			EmailVerified: true,
		})
		if err != nil {
			return nil, err
		}
		if err := s.linkIdentity(ctx, user.ID, provider, profile.ExternalID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if _, err := s.identities.GetByUserAndProvider(ctx, user.ID, provider); errors.Is(err, domain.ErrUserNotFound) {
			if err := s.linkIdentity(ctx, user.ID, provider, profile.ExternalID); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, user)
}

func (s *LoginService) linkIdentity(ctx context.Context, userID uuid.UUID, provider domain.Provider, externalID string) error {
	return s.identities.Create(ctx, &domain.ExternalIdentity{
		UserID:     userID,
		Provider:   provider,
		ExternalID: externalID,
		CreatedAt:  time.Now(),
	})
}
