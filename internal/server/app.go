// Package server wires the reference backend together: database and
// migrations, the document store chosen by config, the account and
// document services, and the gRPC server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/caregiver/internal/logging"
	"github.com/dmitrijs2005/caregiver/internal/server/config"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/documents"
	"github.com/dmitrijs2005/caregiver/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/caregiver/internal/server/services"

	gs "github.com/dmitrijs2005/caregiver/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	accountService  *services.AccountService
	documentService *services.DocumentService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	opts, err := documentStoreOptions(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rm := repomanager.NewPostgresRepositoryManager(opts...)

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	logger.Info(ctx, "Database ready", "documents", c.DocumentBackend)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		accountService:  services.NewAccountService(db, rm, c),
		documentService: services.NewDocumentService(db, rm),
	}, nil
}

// documentStoreOptions redirects documents to S3 when the config asks for it.
func documentStoreOptions(ctx context.Context, c *config.Config) ([]repomanager.Option, error) {
	if c.DocumentBackend != config.DocumentsS3 {
		return nil, nil
	}
	client, err := documents.NewS3Client(ctx, documents.S3Settings{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return []repomanager.Option{
		repomanager.WithDocumentStore(documents.NewS3Repository(client, c.S3Bucket)),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accountService, app.documentService,
		app.config.SecretKey, gs.WithHealthCheck(app.db.PingContext))

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
