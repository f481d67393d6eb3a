package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/dbx"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

// PostgresRepository stores refresh tokens in the refresh_tokens table. It
// works over dbx.DBTX, so the account service can rotate tokens inside a
// transaction.
type PostgresRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// Create stores token for userID. The expiry is kept in UTC, now+validity.
func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	const query = `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`
	expires := r.now().Add(validity).UTC()
	if _, err := r.db.ExecContext(ctx, query, userID, token, expires); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Find looks token up. An unknown token yields common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	found := models.RefreshToken{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&found.UserID, &found.Expires)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	found.Expires = found.Expires.UTC()
	return &found, nil
}

// Delete revokes token. Deleting an unknown token is not an error, so
// sign-out stays idempotent.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	const query = `
		DELETE FROM refresh_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
