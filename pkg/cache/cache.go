// Package cache stores composed documents and rendered artifacts so that
// re-rendering an unchanged drawing is instant.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the plotter server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so callers never build them by hand. Keys hash
// every input that affects the output, so changing the paper, the hatch
// settings or a drawing parameter always misses.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLDocument = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}
