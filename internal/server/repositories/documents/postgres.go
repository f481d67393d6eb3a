package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/dbx"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Put(ctx context.Context, doc *models.Document) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", doc.Collection, doc.ID, err)
	}

	query := `
		INSERT INTO documents (collection, id, fields, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, id) DO UPDATE
		SET fields = excluded.fields, updated_at = excluded.updated_at
		RETURNING updated_at
	`
	if err := r.db.QueryRowContext(ctx, query, doc.Collection, doc.ID, fields).Scan(&doc.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `
		SELECT fields, updated_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	doc := &models.Document{Collection: collection, ID: id}
	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, collection, id).Scan(&raw, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(raw, &doc.Fields); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}
