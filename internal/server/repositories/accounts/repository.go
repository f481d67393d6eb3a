// Package accounts declares and implements storage of registered accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/caregiver/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// GetByEmail returns common.ErrorNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// GetByID returns common.ErrorNotFound when no account matches.
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
