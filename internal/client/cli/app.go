package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/caregiver/internal/client/backend"
	"github.com/dmitrijs2005/caregiver/internal/client/config"
	"github.com/dmitrijs2005/caregiver/internal/client/models"
	"github.com/dmitrijs2005/caregiver/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/caregiver/internal/client/services"
	"github.com/dmitrijs2005/caregiver/internal/logging"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	logger      logging.Logger
	db          *sql.DB
	profile     *models.Profile
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the profile cache, dials the backend and wires the executor.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}

	db, err := profiles.InitDatabase(ctx, c.CacheFile)
	if err != nil {
		return nil, fmt.Errorf("error initializing profile cache: %w", err)
	}

	apiClient, err := backend.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error connecting to %s: %w", c.ServerEndpointAddr, err)
	}

	policy := services.RetryPolicy{
		MaxAttempts:    c.MaxAttempts,
		BaseDelay:      c.RetryBaseDelay,
		AttemptTimeout: c.AttemptTimeout,
	}
	as := services.NewAuthService(apiClient, profiles.NewSQLiteRepository(db), policy, logger)

	return &App{
		config:      c,
		authService: as,
		logger:      logger.With("module", "cli"),
		db:          db,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run shows the splash screen and then serves commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	if err := a.Splash(ctx); err != nil {
		a.logger.Warn(ctx, "login prompt failed", "error", err)
		if errors.Is(err, io.EOF) {
			return
		}
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) close(ctx context.Context) {
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "closing backend client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn(ctx, "closing profile cache", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() && a.profile != nil {
		return fmt.Sprintf("(%s)", a.profile.DisplayName)
	}
	return ""
}
