package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/dbx"
	"github.com/dmitrijs2005/caregiver/internal/server/config"
	"github.com/dmitrijs2005/caregiver/internal/server/models"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/documents"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/refreshtokens"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeAccounts struct {
	mu        sync.Mutex
	byID      map[string]*models.Account
	createErr error
	getErr    error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[string]*models.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *a
	cp.CreatedAt = time.Now()
	f.byID[a.ID] = &cp
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRefresh struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	createErr error
	findErr   error
	delErr    error
}

func newFakeRefresh() *fakeRefresh {
	return &fakeRefresh{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefresh) Create(_ context.Context, userID, token string, validity time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefresh) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefresh) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.tokens, token)
	return nil
}

type fakeDocuments struct {
	docs   map[string]*models.Document
	putErr error
	getErr error
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[string]*models.Document{}}
}

func (f *fakeDocuments) Put(_ context.Context, d *models.Document) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.docs[d.Collection+"/"+d.ID] = d
	return nil
}

func (f *fakeDocuments) Get(_ context.Context, collection, id string) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if d, ok := f.docs[collection+"/"+id]; ok {
		return d, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	accounts *fakeAccounts
	refresh  *fakeRefresh
	docs     *fakeDocuments
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{accounts: newFakeAccounts(), refresh: newFakeRefresh(), docs: newFakeDocuments()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository           { return m.accounts }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository         { return m.docs }

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newAccountService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *AccountService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewAccountService(db, rm, cfg)
}
