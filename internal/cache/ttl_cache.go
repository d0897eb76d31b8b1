package cache

import (
	"sync"
	"time"

	"github.com/smallbiznis/loanhub/internal/clock"
)

// Cache is a minimal TTL cache for hot-path lookups.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(key K)
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache stores values in-memory with per-entry TTLs. Expired
// entries are dropped lazily on read.
type TTLCache[K comparable, V any] struct {
	mu    sync.RWMutex
	clock clock.Clock
	items map[K]entry[V]
}

// NewTTLCache constructs an empty cache on the given clock.
func NewTTLCache[K comparable, V any](clk clock.Clock) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		clock: clk,
		items: make(map[K]entry[V]),
	}
}

// Get returns a cached value if it exists and has not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && c.clock.Now().After(e.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return e.value, true
}

// Set stores a value with the provided TTL. A zero or negative TTL
// keeps the entry until it is deleted.
func (c *TTLCache[K, V]) Set(key K, value V, ttl time.Duration) {
	if c == nil {
		return
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.clock.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes a cached entry.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
