package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/caregiver/internal/dbx"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/documents"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/refreshtokens"
)

// RepositoryManager hands out repositories bound to a *sql.DB or *sql.Tx,
// so services can compose them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Documents(db dbx.DBTX) documents.Repository
}
