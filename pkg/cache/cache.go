// Package cache provides pluggable storage for computed layouts and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP render service
//   - [MemoryCache]: process-local map, for tests and single-process servers
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer] from content hashes, so identical tables and
// options share entries across runs:
//
//	key := keyer.LayoutKey(tableHash, cache.LayoutKeyOpts{OptionsHash: h})
//
// [ScopedKeyer] prefixes every key, which lets several tenants or versions
// share one Redis database.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; errors are reserved
// for backend failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
