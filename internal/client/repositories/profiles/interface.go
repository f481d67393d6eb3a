package profiles

import (
	"context"

	"github.com/dmitrijs2005/caregiver/internal/client/models"
)

type Repository interface {
	Put(ctx context.Context, p *models.Profile) error
	// Get returns nil, nil when no profile is cached for userID.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Delete(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}
