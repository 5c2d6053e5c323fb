// Package server wires configuration, storage and transports into a running
// noteshare server and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/config"
	"github.com/dmitrijs2005/noteshare/internal/server/httpapi"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/noteshare/internal/server/services"
	"github.com/dmitrijs2005/noteshare/internal/server/storage"

	gs "github.com/dmitrijs2005/noteshare/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
	health *gs.HealthServer
}

// NewApp opens the database, applies migrations and builds every service.
// Any failure here is fatal: the server must not start half-configured.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	codec, err := auth.NewCodec(c.TokenSettings())
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, codec)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, codec *auth.Codec) (*App, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	pictures, err := storage.NewS3Store(ctx, storage.Options{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("picture storage: %w", err)
	}

	hasher := auth.NewBcryptHasher(0)
	authSvc := services.NewAuthService(db, m, codec, hasher, logger)
	accountSvc := services.NewAccountService(db, m, hasher, pictures, logger)
	noteSvc := services.NewNoteService(db, m, logger)
	authenticator := auth.NewAuthenticator(codec, m.Accounts(db), logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http: httpapi.NewServer(c.EndpointAddrHTTP, authSvc, accountSvc, noteSvc,
			authenticator, httpapi.NewRateLimiter(c.LoginRateLimit), logger),
		health: gs.NewHealthServer(c.EndpointAddrGRPC, db, logger),
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

// runComponent runs fn and cancels the whole app if it fails.
func (app *App) runComponent(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "component failed", "component", name, "error", err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC health until a termination signal arrives, ctx is
// cancelled or either server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runComponent(ctx, cancelFunc, "http", app.http.Run)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runComponent(ctx, cancelFunc, "grpc", app.health.Run)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
