// Package services contains the application services of the caregiver client.
// This file defines the credential operation executor: login and registration
// with bounded retries, plus the session housekeeping around them.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/client/backend"
	"github.com/dmitrijs2005/caregiver/internal/client/models"
	"github.com/dmitrijs2005/caregiver/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/logging"
	"github.com/sethvargo/go-retry"
)

// AuthService defines the credential operations used by the CLI.
//
// Login and Register never return an error: every failure is reported as an
// Outcome with a category. Both honor context cancellation, including while
// waiting between attempts.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) Outcome
	Register(ctx context.Context, req RegisterRequest) Outcome
	// CurrentProfile looks up the signed-in user's profile. It always returns
	// a profile; DisplayName falls back to the cached copy, then to "User".
	CurrentProfile(ctx context.Context) *models.Profile
	IsLoggedIn() bool
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// RetryPolicy bounds the attempts of one Login or Register call.
type RetryPolicy struct {
	MaxAttempts int
	// BaseDelay is multiplied by the retry number: base, 2*base, 3*base...
	BaseDelay time.Duration
	// AttemptTimeout caps a single attempt. Zero means no cap.
	AttemptTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      3 * time.Second,
		AttemptTimeout: 15 * time.Second,
	}
}

type authService struct {
	client     backend.Client
	cache      profiles.Repository
	policy     RetryPolicy
	logger     logging.Logger
	newBackoff func() retry.Backoff
}

// NewAuthService wires the executor to a backend client and the local
// profile cache. A nil logger discards output.
func NewAuthService(client backend.Client, cache profiles.Repository, policy RetryPolicy, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &authService{
		client: client,
		cache:  cache,
		policy: policy,
		logger: logger.With("module", "auth"),
		newBackoff: func() retry.Backoff {
			return progressiveBackoff(policy.BaseDelay, policy.MaxAttempts)
		},
	}
}

// failure stops the retry loop with a fixed category.
type failure struct {
	category Category
	err      error
}

func (f *failure) Error() string { return f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func permanent(category Category, msg string) error {
	return &failure{category: category, err: errors.New(msg)}
}

// run drives attempt through the retry policy. Errors classified as network
// failures are retried; anything else ends the call at once.
func (a *authService) run(ctx context.Context, op string, table Table, attempt func(ctx context.Context) error) Outcome {
	var (
		attempts int
		last     error
	)
	log := a.logger.With("op", op)

	err := retry.Do(ctx, a.newBackoff(), func(ctx context.Context) error {
		attempts++
		err := a.attempt(ctx, attempt)
		if err == nil {
			return nil
		}
		last = err

		var f *failure
		if errors.As(err, &f) {
			return err
		}
		category := table.Classify(err)
		log.Debug(ctx, "attempt failed", "attempt", attempts, "category", category, "error", err)
		if category == CategoryNetwork {
			return retry.RetryableError(err)
		}
		return &failure{category: category, err: err}
	})

	if err == nil {
		log.Info(ctx, "succeeded", "attempts", attempts)
		return Success()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Info(ctx, "canceled", "attempts", attempts)
		return Failure(CategoryCanceled, ctxErr.Error())
	}

	var f *failure
	if errors.As(err, &f) {
		log.Warn(ctx, "failed", "attempts", attempts, "category", f.category, "error", f.err)
		return Failure(f.category, f.err.Error())
	}

	log.Warn(ctx, "retries exhausted", "attempts", attempts, "error", last)
	return Failure(CategoryNetwork, fmt.Sprintf("failed after %d attempts: %v", attempts, last))
}

// attempt runs fn under the per-attempt timeout. Hitting that timeout is
// reported as backend.ErrTimeout so it classifies as a network failure.
func (a *authService) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.policy.AttemptTimeout <= 0 {
		return fn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, a.policy.AttemptTimeout)
	defer cancel()

	err := fn(actx)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: attempt exceeded %s", backend.ErrTimeout, a.policy.AttemptTimeout)
	}
	return err
}

// Login signs in with identifier and secret.
func (a *authService) Login(ctx context.Context, identifier, secret string) Outcome {
	if isBlank(identifier) || isBlank(secret) {
		return Failure(CategoryValidation, "Please fill in all fields")
	}
	identifier = strings.TrimSpace(identifier)

	return a.run(ctx, "login", LoginTable, func(ctx context.Context) error {
		_, err := a.client.SignIn(ctx, identifier, secret)
		return err
	})
}

// Register creates an account and writes its profile document. Once the
// account exists, later attempts of the same call skip account creation.
func (a *authService) Register(ctx context.Context, req RegisterRequest) Outcome {
	if msg := validateRegistration(req); msg != "" {
		return Failure(CategoryValidation, msg)
	}
	identifier := strings.TrimSpace(req.Identifier)
	fields := profileFields(req)

	var created *backend.Identity
	outcome := a.run(ctx, "register", RegisterTable, func(ctx context.Context) error {
		if created == nil {
			id, err := a.client.CreateAccount(ctx, identifier, req.Secret)
			if err != nil {
				return err
			}
			if id == nil || id.ID == "" {
				return permanent(CategoryUnknown, "account creation failed")
			}
			created = id
		}

		current := a.client.CurrentIdentity()
		if current == nil || current.ID != created.ID {
			return permanent(CategoryUnknown, "authentication failed after creation")
		}
		return a.client.SetDocument(ctx, common.UsersCollection, created.ID, fields)
	})

	if outcome.OK() {
		p := profileFromFields(created.ID, fields)
		p.CreatedAt = time.Now().UTC()
		a.remember(ctx, p)
	}
	return outcome
}

// CurrentProfile reads users/<id> for the signed-in identity. The cached
// profile is used when the document cannot be read.
func (a *authService) CurrentProfile(ctx context.Context) *models.Profile {
	id := a.client.CurrentIdentity()
	if id == nil {
		return &models.Profile{DisplayName: DefaultDisplayName}
	}

	fields, err := a.client.GetDocument(ctx, common.UsersCollection, id.ID)
	if err != nil {
		a.logger.Warn(ctx, "profile lookup failed", "user_id", id.ID, "error", err)
	}
	if err == nil && fields != nil {
		p := profileFromFields(id.ID, fields)
		if p.Identifier == "" {
			p.Identifier = id.Identifier
		}
		if p.DisplayName != "" {
			a.remember(ctx, p)
			return p
		}
	}

	if a.cache != nil {
		cached, err := a.cache.Get(ctx, id.ID)
		if err != nil {
			a.logger.Warn(ctx, "profile cache read failed", "user_id", id.ID, "error", err)
		}
		if cached != nil && cached.DisplayName != "" {
			return cached
		}
	}
	return &models.Profile{UserID: id.ID, Identifier: id.Identifier, DisplayName: DefaultDisplayName}
}

func (a *authService) remember(ctx context.Context, p *models.Profile) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Put(ctx, p); err != nil {
		a.logger.Warn(ctx, "profile cache write failed", "user_id", p.UserID, "error", err)
	}
}

func (a *authService) IsLoggedIn() bool {
	return a.client.CurrentIdentity() != nil
}

// Logout signs out and forgets the cached profile. The local session is
// dropped even when the backend cannot be reached.
func (a *authService) Logout(ctx context.Context) error {
	var errs []error
	if err := a.client.SignOut(ctx); err != nil {
		errs = append(errs, fmt.Errorf("sign out: %w", err))
	}
	if a.cache != nil {
		if err := a.cache.Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear profile cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
