// Package documents stores the JSON documents written through the
// document service, either in PostgreSQL or in S3-compatible storage.
package documents

import (
	"context"

	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

type Repository interface {
	// Put creates or replaces a document; UpdatedAt is set by the store.
	Put(ctx context.Context, doc *models.Document) error
	// Get returns common.ErrorNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*models.Document, error)
}
