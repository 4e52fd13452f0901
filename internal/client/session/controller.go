// Package session owns the client-side authentication state: which token is
// held, whether its profile has been resolved, and what the user sees when a
// token turns out to be bad.
//
// Every token change bumps a generation counter and starts exactly one
// profile fetch. A fetch commits only while its generation is still current,
// so a slow fetch for an old token can never overwrite a newer session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/client/client"
	"github.com/weatherdesk/weatherdesk/internal/client/models"
	"github.com/weatherdesk/weatherdesk/internal/logging"
)

const (
	DefaultTimeout = 10 * time.Second

	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgLoginNoToken       = "Login failed."
	MsgRegisterFailed     = "Registration failed."
	MsgRegistered         = "User registered successfully"
	MsgSessionExpired     = "Session expired, please log in again."
	MsgSessionSaveFailure = "could not save session"
)

// API is the part of the REST client the controller needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	Profile(ctx context.Context, token string) (*models.Profile, error)
}

// TokenStore persists the token across runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Option customises a Controller.
type Option func(*Controller)

// WithTimeout bounds each login, register and profile fetch.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// OnChange registers fn to receive a snapshot after every transition,
// in order. fn runs synchronously and must not call back into the
// Controller.
func OnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

type Controller struct {
	api      API
	store    TokenStore
	timeout  time.Duration
	logger   logging.Logger
	onChange func(Snapshot)

	// notifyMu serialises OnChange delivery.
	notifyMu sync.Mutex

	mu        sync.Mutex
	state     State
	token     string
	user      *models.Profile
	logins    int
	lastError string

	gen         uint64
	cancelFetch context.CancelFunc
	done        chan struct{}

	// fetched, when set, observes every finished fetch. Tests only.
	fetched func(token string, committed bool)
}

func New(api API, store TokenStore, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		store:   store,
		timeout: DefaultTimeout,
		logger:  logging.Nop{},
		state:   Unauthenticated,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "session")
	return c
}

// Snapshot returns a copy of the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:     c.state,
		Token:     c.token,
		Loading:   c.logins > 0 || c.state == Resolving,
		LastError: c.lastError,
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}

// Start adopts the persisted token, if any, and begins resolving it.
func (c *Controller) Start(ctx context.Context) error {
	token, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "could not read stored token", "error", err)
		return err
	}
	if token == "" {
		return nil
	}

	c.mu.Lock()
	snaps := []Snapshot{c.adoptLocked(ctx, token)}
	c.unlockAndNotify(snaps)
	return nil
}

// Login exchanges credentials for a token. On success the token is
// persisted and resolution begins; the call does not wait for it.
func (c *Controller) Login(ctx context.Context, email, password string) Result {
	c.mu.Lock()
	c.logins++
	c.unlockAndNotify([]Snapshot{c.snapshotLocked()})

	defer func() {
		c.mu.Lock()
		c.logins--
		c.unlockAndNotify([]Snapshot{c.snapshotLocked()})
	}()

	lctx, cancel := context.WithTimeout(ctx, c.timeout)
	resp, err := c.api.Login(lctx, email, password)
	cancel()

	if err != nil {
		msg := client.Message(err)
		if msg == "" {
			msg = MsgLoginFailed
		}
		c.logger.Debug(ctx, "login rejected", "error", err)
		return c.fail(msg)
	}
	if resp == nil || resp.Token == "" {
		return c.fail(MsgLoginNoToken)
	}

	c.mu.Lock()
	if err := c.store.Save(ctx, resp.Token); err != nil {
		c.lastError = MsgSessionSaveFailure
		c.logger.Error(ctx, "could not persist token", "error", err)
		c.unlockAndNotify([]Snapshot{c.snapshotLocked()})
		return Result{Success: false, Message: MsgSessionSaveFailure}
	}
	c.lastError = ""
	c.unlockAndNotify([]Snapshot{c.adoptLocked(ctx, resp.Token)})
	return Result{Success: true}
}

func (c *Controller) fail(msg string) Result {
	c.mu.Lock()
	c.lastError = msg
	c.unlockAndNotify([]Snapshot{c.snapshotLocked()})
	return Result{Success: false, Message: msg}
}

// Register creates an account. It never changes the session.
func (c *Controller) Register(ctx context.Context, username, email, password string) Result {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.api.Register(rctx, username, email, password)
	if err != nil {
		if m := client.Message(err); m != "" {
			return Result{Success: false, Message: m}
		}
		c.logger.Debug(ctx, "register failed", "error", err)
		return Result{Success: false, Message: MsgRegisterFailed}
	}
	if msg == "" {
		msg = MsgRegistered
	}
	return Result{Success: true, Message: msg}
}

// Logout forgets the token in memory and in storage. Logging out while
// already unauthenticated does nothing.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Unauthenticated && c.token == "" {
		c.mu.Unlock()
		return nil
	}

	c.bumpLocked()
	c.token = ""
	c.user = nil
	c.state = Unauthenticated
	c.lastError = ""
	err := c.store.Clear(ctx)
	c.unlockAndNotify([]Snapshot{c.snapshotLocked()})

	if err != nil {
		c.logger.Error(ctx, "could not clear stored token", "error", err)
	}
	return err
}

// Invalidate reports that the server rejected token on some protected call.
// If token is still current the session expires as if its profile fetch had
// failed.
func (c *Controller) Invalidate(ctx context.Context, token string) {
	c.mu.Lock()
	if token == "" || token != c.token {
		c.mu.Unlock()
		return
	}
	c.bumpLocked()
	c.unlockAndNotify(c.expireLocked(ctx))
}

// Wait blocks until the profile fetch for the current token, if any, has
// settled or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// adoptLocked makes token current and starts its profile fetch.
func (c *Controller) adoptLocked(ctx context.Context, token string) Snapshot {
	gen := c.bumpLocked()

	c.token = token
	c.user = nil
	c.state = Resolving

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	done := make(chan struct{})
	c.cancelFetch = cancel
	c.done = done

	go c.fetch(fctx, cancel, gen, token, done)
	return c.snapshotLocked()
}

// bumpLocked starts a new generation and cancels the previous fetch.
func (c *Controller) bumpLocked() uint64 {
	c.gen++
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.done = nil
	return c.gen
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, token string, done chan struct{}) {
	defer close(done)
	defer cancel()

	profile, err := c.api.Profile(ctx, token)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dropping stale profile fetch")
		if c.fetched != nil {
			c.fetched(token, false)
		}
		return
	}
	c.cancelFetch = nil

	var snaps []Snapshot
	if err != nil || profile == nil {
		if err == nil {
			err = errors.New("empty profile")
		}
		c.logger.Info(ctx, "stored session rejected", "error", err)
		snaps = c.expireLocked(ctx)
	} else {
		c.user = profile
		c.state = Authenticated
		c.lastError = ""
		snaps = []Snapshot{c.snapshotLocked()}
	}
	c.unlockAndNotify(snaps)

	if c.fetched != nil {
		c.fetched(token, true)
	}
}

// expireLocked moves through Invalid to Unauthenticated and purges storage.
func (c *Controller) expireLocked(ctx context.Context) []Snapshot {
	c.token = ""
	c.user = nil
	c.state = Invalid
	invalid := c.snapshotLocked()

	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error(ctx, "could not purge rejected token", "error", err)
	}

	c.state = Unauthenticated
	c.lastError = MsgSessionExpired
	return []Snapshot{invalid, c.snapshotLocked()}
}

// unlockAndNotify releases c.mu and delivers snaps to OnChange in order.
func (c *Controller) unlockAndNotify(snaps []Snapshot) {
	if c.onChange == nil || len(snaps) == 0 {
		c.mu.Unlock()
		return
	}
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, s := range snaps {
		c.onChange(s)
	}
}
