// Package server initializes and runs the weatherdesk API server. It selects
// the storage backend, applies migrations, wires services into the HTTP
// handler and shuts down gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/weatherdesk/weatherdesk/internal/dbx"
	"github.com/weatherdesk/weatherdesk/internal/logging"
	"github.com/weatherdesk/weatherdesk/internal/server/auth"
	"github.com/weatherdesk/weatherdesk/internal/server/config"
	"github.com/weatherdesk/weatherdesk/internal/server/httpapi"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/repomanager"
	"github.com/weatherdesk/weatherdesk/internal/server/services"
	"github.com/weatherdesk/weatherdesk/internal/server/telemetry"
	"github.com/weatherdesk/weatherdesk/internal/server/weather"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp opens the store named by c.DatabaseDSN, migrates it and builds the
// HTTP handler.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	issuer, err := auth.NewIssuer(c.SecretKey, c.TokenTTL)
	if err != nil {
		return nil, err
	}

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)
	if c.UseMemoryStore() {
		logger.Warn(ctx, "using in-memory store; data is lost on exit")
		rm = repomanager.NewMemoryRepositoryManager()
	} else {
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	return newApp(c, logger, db, rm, issuer), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, issuer *auth.Issuer) *App {
	var (
		conn   dbx.DBTX
		pinger dbx.Pinger
	)
	if db != nil {
		conn, pinger = db, db
	}

	h := httpapi.NewHandler(
		services.NewUserService(conn, rm, issuer),
		services.NewHistoryService(conn, rm),
		weather.NewClient(c.WeatherBaseURL, c.WeatherAPIKey, c.UpstreamTimeout),
		issuer,
		pinger,
		logger,
	)

	return &App{
		config:  c,
		logger:  logger.With("module", "app"),
		db:      db,
		handler: otelhttp.NewHandler(h.Middleware(), "weatherdesk"),
	}
}

// Handler returns the fully wrapped HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return err
	}
	return app.serve(ctx, ln)
}

func (app *App) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		app.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	app.close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (app *App) close() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
}

// Main loads configuration and runs the server until terminated. It returns
// the process exit code.
func Main() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	shutdownTelemetry := telemetry.Setup(ctx, "weatherdesk", os.Getenv, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		return 1
	}
	return 0
}
