// Package memory implements in-memory repositories for development and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/server/models"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/history"
	"github.com/weatherdesk/weatherdesk/internal/server/repositories/users"
)

// DB holds all in-memory state. It is safe for concurrent use.
type DB struct {
	mu      sync.Mutex
	users   map[string]models.User
	byEmail map[string]string
	history []models.HistoryEntry

	now func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

var _ users.Repository = (*UserRepo)(nil)
var _ history.Repository = (*HistoryRepo)(nil)

// Users returns the user repository view of db.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

// History returns the history repository view of db.
func (db *DB) History() *HistoryRepo { return &HistoryRepo{db: db} }

// --- users ---

type UserRepo struct {
	db *DB
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.byEmail[user.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.db.now().UTC()

	r.db.users[user.ID] = *user
	r.db.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	id, ok := r.db.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	u := r.db.users[id]
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

// --- history ---

type HistoryRepo struct {
	db *DB
}

func (r *HistoryRepo) Create(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[entry.UserID]; !ok {
		return nil, common.ErrNotFound
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Date.IsZero() {
		entry.Date = r.db.now().UTC()
	}

	stored := *entry
	stored.Weather = slices.Clone(entry.Weather)
	r.db.history = append(r.db.history, stored)
	return entry, nil
}

func (r *HistoryRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*models.HistoryEntry, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result := make([]*models.HistoryEntry, 0, limit)
	// Walk backwards so entries with equal dates keep newest-inserted first.
	for i := len(r.db.history) - 1; i >= 0; i-- {
		h := r.db.history[i]
		if h.UserID != userID {
			continue
		}
		h.Weather = slices.Clone(h.Weather)
		result = append(result, &h)
	}

	slices.SortStableFunc(result, func(a, b *models.HistoryEntry) int {
		return b.Date.Compare(a.Date)
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
