// Package refreshtokens stores the long-lived refresh tokens issued at
// sign-in and rotated by the refresh call.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

type Repository interface {
	// Create stores token for userID, expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete revokes token. Unknown tokens are not an error.
	Delete(ctx context.Context, token string) error
}
