package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/launchpool/launchpool-api/pkg/domain"
)

// IdentitiesRepository persists external identity links.
type IdentitiesRepository struct {
	db *sql.DB
}

// NewIdentitiesRepository creates a new identities repository.
func NewIdentitiesRepository(db *sql.DB) *IdentitiesRepository {
	return &IdentitiesRepository{db: db}
}

// Create links a provider identity to a user. The table carries a unique
// constraint on (user_id, provider).
func (r *IdentitiesRepository) Create(ctx context.Context, identity *domain.ExternalIdentity) error {
	query := `
		INSERT INTO user_identities (user_id, provider, external_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		identity.UserID, identity.Provider, identity.ExternalID, identity.CreatedAt,
	)
	return err
}

// GetByUserAndProvider retrieves the identity a user holds for a provider.
func (r *IdentitiesRepository) GetByUserAndProvider(ctx context.Context, userID uuid.UUID, provider domain.Provider) (*domain.ExternalIdentity, error) {
	query := `
		SELECT user_id, provider, external_id, created_at
		FROM user_identities
		WHERE user_id = $1 AND provider = $2
	`
	identity := &domain.ExternalIdentity{}
	err := r.db.QueryRowContext(ctx, query, userID, provider).Scan(
		&identity.UserID, &identity.Provider, &identity.ExternalID, &identity.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// ListByUser returns every identity linked to a user.
func (r *IdentitiesRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ExternalIdentity, error) {
	query := `
		SELECT user_id, provider, external_id, created_at
		FROM user_identities
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []domain.ExternalIdentity
	for rows.Next() {
		var identity domain.ExternalIdentity
		if err := rows.Scan(&identity.UserID, &identity.Provider, &identity.ExternalID, &identity.CreatedAt); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
