package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// LoginResult is the outcome of an authentication attempt. When the account
// has two-factor enabled, RequiresTwoFactor is set and no tokens are issued.
type LoginResult struct {
	User              *domain.User
	Token             string
	RefreshToken      string
	RequiresTwoFactor bool
}

// LoginService orchestrates login, two-factor login, token refresh, and
// social login on top of the account service and the token codec.
type LoginService struct {
	logger     *slog.Logger
	accounts   *AccountService
	users      UserStore
	identities IdentityStore
	twoFactor  *TwoFactorManager
	codec      *TokenCodec
}

// NewLoginService creates a login service.
func NewLoginService(
	logger *slog.Logger,
	accounts *AccountService,
	users UserStore,
	identities IdentityStore,
	twoFactor *TwoFactorManager,
	codec *TokenCodec,
) *LoginService {
	return &LoginService{
		logger:     logger,
		accounts:   accounts,
		users:      users,
		identities: identities,
		twoFactor:  twoFactor,
		codec:      codec,
	}
}

// validateCredentials looks a user up by email and proves the password.
// A missing account reports the same failure as a bad password so that
// account existence does not leak.
func (s *LoginService) validateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates with email and password. Accounts with two-factor
// enabled get a pending result without tokens; lastLoginAt is untouched
// until the second factor is proven.
func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.validateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.IsTwoFactorEnabled {
		return &LoginResult{User: user, RequiresTwoFactor: true}, nil
	}
	return s.issueTokens(ctx, user)
}

// LoginWithTwoFactor authenticates with email, password, and a TOTP code.
// It requires two-factor to be enabled on the account.
func (s *LoginService) LoginWithTwoFactor(ctx context.Context, email, password, code string) (*LoginResult, error) {
	user, err := s.validateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsTwoFactorEnabled {
		return nil, domain.ErrTwoFactorNotEnabled
	}
	if err := s.twoFactor.VerifyCode(user, code); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Refresh verifies a refresh token and mints a brand-new token pair. The
// previous refresh token is not revoked; it stays valid until its natural
// expiry since there is no revocation store.
func (s *LoginService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// issueTokens records the successful authentication and mints a token pair.
func (s *LoginService) issueTokens(ctx context.Context, user *domain.User) (*LoginResult, error) {
	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	token, err := s.codec.SignAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.SignRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
	}, nil
}
