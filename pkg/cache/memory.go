package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory cache limits used when no option overrides them.
const (
	DefaultMemoryMaxEntries = 10_000
	DefaultMemorySweep      = 5 * time.Minute
)

// MemoryCache keeps entries in process memory. Expired entries are swept
// in the background and before every insert that would exceed the entry
// limit; when the cache is still full, the entry closest to expiry is
// evicted. It is safe for concurrent use.
type MemoryCache struct {
	mu         sync.Mutex // serialises Set so the limit holds
	items      *gocache.Cache
	maxEntries int
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	maxEntries int
	sweep      time.Duration
}

// WithMaxEntries bounds the number of stored entries. n <= 0 keeps the default.
func WithMaxEntries(n int) MemoryOption {
	return func(c *memoryConfig) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithSweepInterval sets how often expired entries are removed in the
// background. d <= 0 keeps the default.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		if d > 0 {
			c.sweep = d
		}
	}
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := memoryConfig{maxEntries: DefaultMemoryMaxEntries, sweep: DefaultMemorySweep}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryCache{
		items:      gocache.New(gocache.NoExpiration, cfg.sweep),
		maxEntries: cfg.maxEntries,
	}
}

// Get retrieves a copy of the stored value. Expired entries are misses.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v.([]byte)), true, nil
}

// Set stores a copy of data. ttl <= 0 stores it without expiry.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	d := gocache.NoExpiration
	if ttl > 0 {
		d = ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items.Get(key); !exists && c.items.ItemCount() >= c.maxEntries {
		c.items.DeleteExpired()
		for c.items.ItemCount() >= c.maxEntries {
			c.evictOne()
		}
	}
	c.items.Set(key, slices.Clone(data), d)
	return nil
}

// evictOne drops the live entry that expires first; entries without expiry
// go last.
func (c *MemoryCache) evictOne() {
	var (
		victim  string
		soonest int64
		found   bool
	)
	for k, it := range c.items.Items() {
		exp := it.Expiration
		if exp == 0 {
			exp = 1<<63 - 1
		}
		if !found || exp < soonest {
			victim, soonest, found = k, exp, true
		}
	}
	if !found {
		// Only expired entries remain; Items skips them.
		c.items.DeleteExpired()
		return
	}
	c.items.Delete(victim)
}

// Delete removes a value.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired entries
// that have not been swept yet.
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.items.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
