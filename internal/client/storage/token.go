package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/weatherdesk/weatherdesk/internal/client/repositories/metadata"
	"github.com/weatherdesk/weatherdesk/internal/common"
	"github.com/weatherdesk/weatherdesk/internal/dbx"
)

// TokenSavedAtKey records when the current token was persisted.
const TokenSavedAtKey = common.TokenStorageKey + "SavedAt"

// TokenStore keeps the bearer token under common.TokenStorageKey.
type TokenStore struct {
	db   *sql.DB
	repo func(dbx.DBTX) metadata.Repository
	now  func() time.Time
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{
		db:   db,
		repo: func(tx dbx.DBTX) metadata.Repository { return metadata.NewSQLiteRepository(tx) },
		now:  time.Now,
	}
}

// Load returns the stored token, or "" when none is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	v, ok, err := s.repo(s.db).Get(ctx, common.TokenStorageKey)
	if err != nil || !ok {
		return "", err
	}
	return string(v), nil
}

// Save replaces the stored token and its timestamp atomically.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, TokenSavedAtKey, []byte(s.now().UTC().Format(time.RFC3339)))
	})
}

// SavedAt reports when the current token was stored. ok is false when no
// token is stored.
func (s *TokenStore) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, ok, err := s.repo(s.db).Get(ctx, TokenSavedAtKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// Clear removes the token. Clearing an empty store is not an error.
func (s *TokenStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, common.TokenStorageKey, TokenSavedAtKey)
}
