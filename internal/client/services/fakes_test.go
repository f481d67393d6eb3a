package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/client/backend"
	"github.com/dmitrijs2005/caregiver/internal/client/models"
	"github.com/dmitrijs2005/caregiver/internal/client/repositories/profiles"
	"github.com/sethvargo/go-retry"
)

// fakeClient is a scripted backend.Client. The n-th call of an operation
// returns the n-th error of its list; calls past the end succeed.
type fakeClient struct {
	mu sync.Mutex

	SignInErrs []error
	CreateErrs []error
	SetDocErrs []error
	GetDocErr  error
	SignOutErr error
	PingErr    error

	// CreateID is the id assigned by CreateAccount; "" yields an identity
	// without an id.
	CreateID string
	// IdentityOverride, when set, is what CurrentIdentity reports.
	IdentityOverride *backend.Identity
	// OnSignIn runs inside SignIn before it returns.
	OnSignIn func(ctx context.Context) error

	identity *backend.Identity
	docs     map[string]backend.Fields

	SignInCalls  int
	CreateCalls  int
	SetDocCalls  int
	SignOutCalls int
	Closed       bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{CreateID: "uid-1", docs: map[string]backend.Fields{}}
}

func nth(errs []error, n int) error {
	if n < len(errs) {
		return errs[n]
	}
	return nil
}

func (f *fakeClient) SignIn(ctx context.Context, identifier, secret string) (*backend.Identity, error) {
	f.mu.Lock()
	n := f.SignInCalls
	f.SignInCalls++
	hook := f.OnSignIn
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}
	if err := nth(f.SignInErrs, n); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = &backend.Identity{ID: "uid-1", Identifier: identifier}
	return f.identity, nil
}

func (f *fakeClient) CreateAccount(ctx context.Context, identifier, secret string) (*backend.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.CreateCalls
	f.CreateCalls++
	if err := nth(f.CreateErrs, n); err != nil {
		return nil, err
	}
	f.identity = &backend.Identity{ID: f.CreateID, Identifier: identifier}
	return f.identity, nil
}

func (f *fakeClient) CurrentIdentity() *backend.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.IdentityOverride != nil {
		return f.IdentityOverride
	}
	return f.identity
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOutCalls++
	f.identity = nil
	return f.SignOutErr
}

func (f *fakeClient) SetDocument(ctx context.Context, collection, id string, fields backend.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.SetDocCalls
	f.SetDocCalls++
	if err := nth(f.SetDocErrs, n); err != nil {
		return err
	}
	f.docs[collection+"/"+id] = fields
	return nil
}

func (f *fakeClient) GetDocument(ctx context.Context, collection, id string) (backend.Fields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetDocErr != nil {
		return nil, f.GetDocErr
	}
	return f.docs[collection+"/"+id], nil
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Close() error {
	f.Closed = true
	return nil
}

// fakeCache is an in-memory profiles.Repository.
type fakeCache struct {
	items    map[string]*models.Profile
	GetErr   error
	PutErr   error
	ClearErr error
	Cleared  bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*models.Profile{}}
}

func (c *fakeCache) Put(ctx context.Context, p *models.Profile) error {
	if c.PutErr != nil {
		return c.PutErr
	}
	cp := *p
	c.items[p.UserID] = &cp
	return nil
}

func (c *fakeCache) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if c.GetErr != nil {
		return nil, c.GetErr
	}
	return c.items[userID], nil
}

func (c *fakeCache) Delete(ctx context.Context, userID string) error {
	delete(c.items, userID)
	return nil
}

func (c *fakeCache) Clear(ctx context.Context) error {
	c.Cleared = true
	if c.ClearErr != nil {
		return c.ClearErr
	}
	c.items = map[string]*models.Profile{}
	return nil
}

// newTestService builds an executor whose backoff records the delays the
// policy asks for but does not sleep.
func newTestService(fc *fakeClient, cache *fakeCache, policy RetryPolicy) (*authService, *[]time.Duration) {
	var repo profiles.Repository
	if cache != nil {
		repo = cache
	}
	svc := NewAuthService(fc, repo, policy, nil).(*authService)
	delays := &[]time.Duration{}
	svc.newBackoff = func() retry.Backoff {
		inner := progressiveBackoff(policy.BaseDelay, policy.MaxAttempts)
		return retry.BackoffFunc(func() (time.Duration, bool) {
			d, stop := inner.Next()
			if !stop {
				*delays = append(*delays, d)
			}
			return 0, stop
		})
	}
	return svc, delays
}
