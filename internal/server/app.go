// Package server initializes and runs the timesheet application server.
// It opens the storage backend, applies migrations, wires the services,
// and starts the HTTP API with graceful shutdown on OS signals.
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
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/hourkeep/hourkeep/internal/logging"
	"github.com/hourkeep/hourkeep/internal/server/config"
	"github.com/hourkeep/hourkeep/internal/server/httpapi"
	"github.com/hourkeep/hourkeep/internal/server/repositories/repomanager"
	"github.com/hourkeep/hourkeep/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, rm, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := pingWithRetry(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db unreachable: %w", err)
	}

	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	es := services.NewEntryService(db, rm)
	as := services.NewApprovalService(db, rm)
	rs := services.NewResolverService(db, rm)
	reps := services.NewReportService(db, rm)
	xs := services.NewExportService(db, rm, cfg)
	ns := services.NewNotifyService(db, rm)
	cs := services.NewCatalogService(db, rm)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, us, es, as, rs, reps, xs, ns, cs, cfg.SecretKey)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

// pingWithRetry waits out the window where the database container is still
// starting. Five attempts with exponential backoff from one second.
func pingWithRetry(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(1*time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
