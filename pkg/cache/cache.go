// Package cache stores prepared figures and rendered artifacts between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON entry file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that the same inputs and options always map
// to the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// FigureTTL is how long a prepared scene stays valid.
	FigureTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long rendered bytes (png, pdf, svg, html) stay valid.
	ArtifactTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and true on a hit.
	// A miss is reported as (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
