// Package cache stores parsed lock-file documents and rendered artifacts.
//
// Parsing is a pure function of the text, so a document keyed by a
// fingerprint of that text never goes stale; TTLs only bound disk and memory
// use. Backends:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON envelope per key under the XDG cache directory
//   - [MemoryCache]: bounded in-process LRU, used by the HTTP API
//   - [RedisCache]: shared cache for several API instances
//
// Keys come from a [Keyer]; wrap a backend with [Instrument] to report hits
// and misses to the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	TTLDocument = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
