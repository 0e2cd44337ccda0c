package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
	"github.com/launchpool/launchpool-api/pkg/notify"
)

// AccountService wraps the user store, the verification manager and the
// two-factor manager behind per-user operations. Side effects (email,
// push notifications) fire after the state mutation commits.
type AccountService struct {
	logger       *slog.Logger
	users        UserStore
	verification *VerificationManager
	twoFactor    *TwoFactorManager
	mailer       Mailer
	notifier     notify.Notifier
}

// NewAccountService creates an account service. mailer may be nil when SMTP
// is not configured; email side effects are then skipped.
func NewAccountService(
	logger *slog.Logger,
	users UserStore,
	verification *VerificationManager,
	twoFactor *TwoFactorManager,
	mailer Mailer,
	notifier notify.Notifier,
) *AccountService {
	return &AccountService{
		logger:       logger,
		users:        users,
		verification: verification,
		twoFactor:    twoFactor,
		mailer:       mailer,
		notifier:     notifier,
	}
}

// CreateUserParams holds registration input.
type CreateUserParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	// EmailVerified marks the address pre-verified. Set for accounts
	// created from a trusted OAuth profile; such accounts get no
	// verification email.
	EmailVerified bool
}

// CreateUser registers a new account. Email uniqueness is checked before
// any write; the password is hashed exactly once; a pending verification
// code is stored with the row and delivered by email.
func (s *AccountService) CreateUser(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	if err := ValidateEmail(params.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(params.Password); err != nil {
		return nil, err
	}
	if err := ValidateName(params.FirstName); err != nil {
		return nil, err
	}
	if err := ValidateName(params.LastName); err != nil {
		return nil, err
	}
	if err := ValidatePhone(params.PhoneNumber); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, params.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:              uuid.New(),
		Email:           params.Email,
		PasswordHash:    hash,
		FirstName:       params.FirstName,
		LastName:        params.LastName,
		Role:            domain.DefaultRole,
		IsEmailVerified: params.EmailVerified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if params.PhoneNumber != "" {
		user.PhoneNumber = &params.PhoneNumber
	}

	var code string
	if !params.EmailVerified {
		code, err = generateVerificationCode()
		if err != nil {
			return nil, err
		}
		expires := now.Add(s.verification.config.EmailVerificationTTL)
		user.EmailVerificationToken = &code
		user.EmailVerificationTokenExpires = &expires
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if code != "" && s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, code); err != nil {
			s.logger.Error("failed to send verification email", "error", err, "user_id", user.ID)
		}
	}
	s.notifier.Broadcast(notify.EventNewUserRegistered, map[string]string{"userId": user.ID.String()})

	return user, nil
}

// GetByID retrieves a user.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// List retrieves all users.
func (s *AccountService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// UpdateUser applies a partial profile update and notifies the user.
func (s *AccountService) UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	if upd.Email != nil {
		if err := ValidateEmail(*upd.Email); err != nil {
			return nil, err
		}
	}
	if upd.FirstName != nil {
		if err := ValidateName(*upd.FirstName); err != nil {
			return nil, err
		}
	}
	if upd.LastName != nil {
		if err := ValidateName(*upd.LastName); err != nil {
			return nil, err
		}
	}
	if upd.PhoneNumber != nil {
		if err := ValidatePhone(*upd.PhoneNumber); err != nil {
			return nil, err
		}
	}

	if err := s.users.UpdateProfile(ctx, id, upd); err != nil {
		return nil, err
	}
	s.notifier.Notify(id, notify.EventUserUpdated, map[string]string{"userId": id.String()})
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes an account and broadcasts the deletion.
func (s *AccountService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Broadcast(notify.EventUserDeleted, map[string]string{"userId": id.String()})
	return nil
}

// ChangePassword replaces the password after proving the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return domain.ErrUnauthorized
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return err
	}
	s.notifier.Notify(userID, notify.EventPasswordChanged, map[string]string{"userId": userID.String()})
	return nil
}

// ResendVerification re-issues the pending verification code. Fails when
// the address is already verified.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return domain.ErrAlreadyVerified
	}
	code, err := s.verification.IssueEmailVerification(ctx, user.ID)
	if err != nil {
		return err
	}
	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, code); err != nil {
			s.logger.Error("failed to send verification email", "error", err, "user_id", user.ID)
		}
	}
	return nil
}

// ConfirmEmail consumes a verification code and marks the address verified.
func (s *AccountService) ConfirmEmail(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.verification.ConfirmEmail(ctx, email, code)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(user.ID, notify.EventEmailVerified, map[string]string{"userId": user.ID.String()})
	return user, nil
}

// RequestPasswordReset issues a reset token and mails it. The caller is
// expected to hide ErrUserNotFound behind a generic acknowledgement.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := s.verification.IssuePasswordReset(ctx, user.ID)
	if err != nil {
		return err
	}
	if s.mailer != nil {
		if err := s.mailer.SendResetPasswordEmail(user.Email, token); err != nil {
			s.logger.Error("failed to send reset email", "error", err, "user_id", user.ID)
		}
	}
	return nil
}

// ResetPassword consumes a reset token and applies the new password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.verification.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return err
	}
	s.notifier.Notify(userID, notify.EventPasswordReset, map[string]string{"userId": userID.String()})
	return nil
}

// TwoFactor exposes the two-factor manager for protected endpoints.
func (s *AccountService) TwoFactor() *TwoFactorManager {
	return s.twoFactor
}
