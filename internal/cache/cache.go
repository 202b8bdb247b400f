// Package cache provides a small TTL cache for connection-derived state,
// primarily the SSL status a connector reports for a live connection.
// Status queries hit the database (e.g. pg_stat_ssl), so results are held
// briefly instead of re-queried on every frontend poll.
package cache

import (
	"errors"

	"github.com/oriys/quasar/internal/engine"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("cache: key not found")

// StatusCache holds SSL status results keyed by connection fingerprint.
// All operations are safe for concurrent use.
type StatusCache interface {
	// Get retrieves the cached status for key. Returns ErrNotFound if
	// the key does not exist or has expired.
	Get(key string) (*engine.SSLStatus, error)

	// Set stores a status under key for the cache's TTL.
	Set(key string, status *engine.SSLStatus) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases resources held by the cache.
	Close() error
}
