package server

import (
	"sync"
	"time"

	"github.com/smallbiznis/loanhub/internal/clock"
)

// rateLimiter is a fixed-window per-key counter guarding the search
// endpoint. Stale windows are pruned lazily once the map grows.
type rateLimiter struct {
	limit  int
	window time.Duration
	clock  clock.Clock
	mu     sync.Mutex
	items  map[string]*rateLimitEntry
}

type rateLimitEntry struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, window time.Duration, clk clock.Clock) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		clock:  clk,
		items:  make(map[string]*rateLimitEntry),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.items) > 4096 {
		r.prune(now)
	}

	entry := r.items[key]
	if entry == nil || now.Sub(entry.windowStart) > r.window {
		entry = &rateLimitEntry{windowStart: now}
		r.items[key] = entry
	}

	if entry.count >= r.limit {
		return false
	}

	entry.count++
	return true
}

func (r *rateLimiter) prune(now time.Time) {
	for key, entry := range r.items {
		if now.Sub(entry.windowStart) > r.window {
			delete(r.items, key)
		}
	}
}
