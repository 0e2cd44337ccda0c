package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, role,
	is_email_verified, last_login_at,
	email_verification_token, email_verification_token_expires,
	reset_password_token, reset_password_token_expires,
	two_factor_secret, is_two_factor_enabled,
	created_at, updated_at`

// UsersRepository handles user persistence.
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository creates a new users repository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.PhoneNumber, &user.Role, &user.IsEmailVerified, &user.LastLoginAt,
		&user.EmailVerificationToken, &user.EmailVerificationTokenExpires,
		&user.ResetPasswordToken, &user.ResetPasswordTokenExpires,
		&user.TwoFactorSecret, &user.IsTwoFactorEnabled,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. A unique violation on email maps to
// domain.ErrDuplicateEmail.
func (r *UsersRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.PhoneNumber, user.Role, user.IsEmailVerified, user.LastLoginAt,
		user.EmailVerificationToken, user.EmailVerificationTokenExpires,
		user.ResetPasswordToken, user.ResetPasswordTokenExpires,
		user.TwoFactorSecret, user.IsTwoFactorEnabled,
		user.CreatedAt, user.UpdatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrDuplicateEmail
	}
	return err
}

// GetByID retrieves a user by ID.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email. The lookup is exact-match on the
// stored value; no case normalization is performed.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByResetPasswordToken retrieves a user holding the given reset token.
func (r *UsersRepository) GetByResetPasswordToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_password_token = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, token))
}

// List retrieves all users ordered by creation time.
func (r *UsersRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
			&user.PhoneNumber, &user.Role, &user.IsEmailVerified, &user.LastLoginAt,
			&user.EmailVerificationToken, &user.EmailVerificationTokenExpires,
			&user.ResetPasswordToken, &user.ResetPasswordTokenExpires,
			&user.TwoFactorSecret, &user.IsTwoFactorEnabled,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile applies a partial profile update.
func (r *UsersRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) error {
	query := `
		UPDATE users
		SET email        = COALESCE($2, email),
		    first_name   = COALESCE($3, first_name),
		    last_name    = COALESCE($4, last_name),
		    phone_number = COALESCE($5, phone_number),
		    role         = COALESCE($6, role),
		    updated_at   = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		id, upd.Email, upd.FirstName, upd.LastName, upd.PhoneNumber, upd.Role,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateLastLogin records a successful authentication. The guard keeps
// last_login_at monotonic under concurrent logins.
func (r *UsersRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users
		SET last_login_at = $2, updated_at = NOW()
		WHERE id = $1 AND (last_login_at IS NULL OR last_login_at < $2)
	`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

// SetPassword replaces the stored password hash.
func (r *UsersRepository) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetEmailVerificationToken stores a fresh verification code and expiry,
// replacing any pending one.
func (r *UsersRepository) SetEmailVerificationToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET email_verification_token = $2, email_verification_token_expires = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, token, expires)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ConsumeEmailVerification marks the email verified and clears the token
// pair in a single guarded write. Returns domain.ErrTokenInvalid when the
// token does not match or was already consumed.
func (r *UsersRepository) ConsumeEmailVerification(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE users
		SET is_email_verified = true,
		    email_verification_token = NULL,
		    email_verification_token_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND email_verification_token = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

// SetResetPasswordToken stores a fresh reset token and expiry.
func (r *UsersRepository) SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	query := `
		UPDATE users
		SET reset_password_token = $2, reset_password_token_expires = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, token, expires)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ConsumeResetPasswordToken applies the new password hash and clears the
// reset token pair in the same write that consumes the token.
func (r *UsersRepository) ConsumeResetPasswordToken(ctx context.Context, token, newHash string) (uuid.UUID, error) {
	query := `
		UPDATE users
		SET password_hash = $2,
		    reset_password_token = NULL,
		    reset_password_token_expires = NULL,
		    updated_at = NOW()
		WHERE reset_password_token = $1 AND reset_password_token_expires > NOW()
		RETURNING id
	`
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, token, newHash).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// SetTwoFactorSecret overwrites the TOTP secret. Any previously issued
// secret stops producing valid codes immediately.
func (r *UsersRepository) SetTwoFactorSecret(ctx context.Context, id uuid.UUID, secret string) error {
	query := `UPDATE users SET two_factor_secret = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, secret)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// EnableTwoFactor flips the enabled flag after possession was proven.
func (r *UsersRepository) EnableTwoFactor(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET is_two_factor_enabled = true, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// DisableTwoFactor clears the secret and the enabled flag.
func (r *UsersRepository) DisableTwoFactor(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET two_factor_secret = NULL, is_two_factor_enabled = false, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a user row.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
