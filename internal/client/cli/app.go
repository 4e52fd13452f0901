package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/client/client"
	"github.com/weatherdesk/weatherdesk/internal/client/config"
	"github.com/weatherdesk/weatherdesk/internal/client/session"
	"github.com/weatherdesk/weatherdesk/internal/client/storage"
	"github.com/weatherdesk/weatherdesk/internal/logging"
)

// tokenStore is the persisted-token surface the app needs: what the session
// controller uses, plus SavedAt for the status command.
type tokenStore interface {
	session.TokenStore
	SavedAt(ctx context.Context) (time.Time, bool, error)
}

type App struct {
	config  *config.Config
	api     client.Client
	tokens  tokenStore
	session *session.Controller
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB
}

// NewApp opens the local database at cfg.DBPath and connects the REST
// client to cfg.ServerURL.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DBPath, "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	a := newApp(cfg, api, storage.NewTokenStore(db), logger, os.Stdin, os.Stdout)
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, api client.Client, tokens tokenStore, logger logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config: cfg,
		api:    api,
		tokens: tokens,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.session = session.New(api, tokens,
		session.WithTimeout(cfg.RequestTimeout),
		session.WithLogger(logger),
		session.OnChange(func(s session.Snapshot) {
			logger.Debug(context.Background(), "session changed", "state", s.State.String(), "loading", s.Loading)
		}),
	)
	return a
}

// Run resumes any stored session, then serves the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	fmt.Fprintln(a.out, titleStyle.Render("weatherdesk")+" "+mutedStyle.Render("(type 'help' for commands)"))

	if err := a.session.Start(ctx); err != nil {
		fmt.Fprintln(a.out, warnStyle.Render("Could not read the saved session; please log in."))
	}
	if err := a.session.Wait(ctx); err != nil {
		return err
	}

	s := a.session.Snapshot()
	switch {
	case s.State == session.Authenticated:
		fmt.Fprintln(a.out, okStyle.Render("Welcome back, "+s.User.Username+"!"))
	case s.LastError != "":
		fmt.Fprintln(a.out, errorStyle.Render(s.LastError))
	}

	runREPL(ctx, a, a.promptStatus, a.reader, a.out)
	return nil
}

func (a *App) promptStatus() string {
	return promptStatus(a.session.Snapshot())
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().State == session.Authenticated
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// Main loads configuration, builds the app and runs it. It returns the
// process exit code.
func Main() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 2
	}

	logger := logging.NewText(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	ctx := context.Background()

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return 1
	}
	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped", "error", err)
		return 1
	}
	return 0
}
