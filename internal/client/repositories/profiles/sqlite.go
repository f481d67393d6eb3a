package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/client/models"
	"github.com/dmitrijs2005/caregiver/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, p *models.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, username, phone_number, gender, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			username = excluded.username,
			phone_number = excluded.phone_number,
			gender = excluded.gender,
			created_at = excluded.created_at
	`, p.UserID, p.Identifier, p.DisplayName, nullString(p.PhoneNumber), nullString(p.Gender),
		p.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to put profile[%s]: %w", p.UserID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var (
		p             models.Profile
		phone, gender sql.NullString
		createdAt     string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, username, phone_number, gender, created_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.Identifier, &p.DisplayName, &phone, &gender, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile[%s]: %w", userID, err)
	}

	if phone.Valid {
		p.PhoneNumber = &phone.String
	}
	if gender.Valid {
		p.Gender = &gender.String
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse profile[%s] created_at: %w", userID, err)
	}
	return &p, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile[%s]: %w", userID, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles`)
	if err != nil {
		return fmt.Errorf("failed to clear profiles: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
