package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/syncx"
)

// Clock supplies the current time; tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a process-local key/value store with per-entry expiry.
//
// The mutex only guards the map. Fetches are not serialised per key: two
// callers missing the same key both run their fetch and the last write wins,
// unless the cache was built WithCoalescing.
type TTLCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	clock      Clock
	flight     syncx.SingleFlight
}

// Option customises a TTLCache.
type Option func(*TTLCache)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *TTLCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCoalescing routes concurrent misses for the same key through a single
// fetch whose result is shared by every waiter.
func WithCoalescing() Option {
	return func(c *TTLCache) {
		c.flight = syncx.NewSingleFlight()
	}
}

// NewTTLCache builds an empty cache whose entries live for defaultTTL unless
// a call site passes its own TTL.
func NewTTLCache(defaultTTL time.Duration, opts ...Option) *TTLCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	c := &TTLCache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		clock:      ClockFunc(time.Now),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it has not expired.
func (c *TTLCache) Get(key string) (any, bool) {
	now := c.clock.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A non-positive ttl selects the default TTL.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	expiresAt := c.clock.Now().Add(ttl)
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are touched.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *TTLCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// DefaultTTL reports the TTL applied when callers pass none.
func (c *TTLCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Wrap returns the cached value for key, or runs fetch and caches its result
// for ttl. Errors are returned as-is and never cached. A nil cache simply
// runs fetch. When coalescing, fetch gets a context detached from ctx's
// cancellation so one departing caller cannot fail the other waiters.
func Wrap[T any](ctx context.Context, c *TTLCache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	fetchCtx := ctx
	if c.flight != nil {
		fetchCtx = context.WithoutCancel(ctx)
	}
	load := func() (any, error) {
		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	}

	var (
		v   any
		err error
	)
	if c.flight != nil {
		v, err = c.flight.Do(key, load)
	} else {
		v, err = load()
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
