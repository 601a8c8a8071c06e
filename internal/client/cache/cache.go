// Package cache provides a small in-memory TTL cache for read-mostly
// reference data, so list screens do not hit the database on every render.
package cache

import (
	"sync"
	"time"
)

// Cache holds one value of type T with a time-to-live. The zero TTL means
// entries never expire until invalidated.
//
// Correctness rule: every write path that can change the underlying data must
// call Invalidate. The cache itself never refreshes; staleness within the TTL
// is accepted, staleness after a known write is not.
type Cache[T any] struct {
	mu       sync.Mutex
	value    T
	storedAt time.Time
	valid    bool

	ttl time.Duration
	now func() time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// NewWithClock is New with an injectable clock, for tests.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: now}
}

// Get returns the cached value and whether it is still fresh.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if !c.valid {
		return zero, false
	}
	if c.ttl > 0 && c.now().Sub(c.storedAt) >= c.ttl {
		c.valid = false
		c.value = zero
		return zero, false
	}
	return c.value, true
}

// Put stores a value and restarts the TTL clock.
func (c *Cache[T]) Put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.storedAt = c.now()
	c.valid = true
}

// Invalidate drops the cached value immediately.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.valid = false
}

// Copy returns a shallow copy of a slice so callers cannot mutate the cached
// backing array. Use it when putting and getting slice-typed values.
func Copy[E any](s []E) []E {
	if s == nil {
		return nil
	}
	out := make([]E, len(s))
	copy(out, s)
	return out
}
