package application

import (
	"sync"
	"time"
)

// readCache stores recently computed per-attendee listings so directory views
// can be served without re-reading the store on every request. Mutating
// operations call Invalidate, so cached snapshots never outlive a write.
type readCache[T any] struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	values    []T
	expiresAt time.Time
}

func newReadCache[T any](ttl time.Duration, maxEntries int, now func() time.Time) *readCache[T] {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if now == nil {
		now = time.Now
	}
	return &readCache[T]{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry[T]),
	}
}

func (c *readCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneSlice(entry.values), true
}

func (c *readCache[T]) Store(key string, values []T) {
	if c == nil {
		return
	}
	cloned := cloneSlice(values)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = cacheEntry[T]{values: cloned, expiresAt: expiry}
}

func (c *readCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry[T])
	c.mu.Unlock()
}

func (c *readCache[T]) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *readCache[T]) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneSlice[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}
