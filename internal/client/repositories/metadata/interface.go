// Package metadata stores small key/value settings of the local client:
// the session token and bookkeeping such as the last successful sync time.
package metadata

import (
	"context"
	"time"
)

// Well-known keys.
const (
	KeySessionToken = "session_token"
	KeyLastSync     = "last_sync_at"
	KeyLastResync   = "last_resync_at"
	// KeyResyncPending is set at login and cleared by a completed resync.
	// While it is set nothing is uploaded.
	KeyResyncPending = "resync_pending"
)

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error

	// GetString returns "" when the key is absent.
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error

	// GetTime returns the zero time when the key is absent.
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}
