// Package metadata is the key/value table in the client's local database.
// The session token and its bookkeeping live here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key.
type Repository interface {
	// Get reports whether key exists along with its value.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
