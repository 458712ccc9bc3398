package config

import (
	"context"
	"sync"
	"time"

	"github.com/labwise/labwise/internal/logger"
)

// OverrideStore is a mutable key-value layer over static configuration.
// Keys are dotted paths such as "providers.primary".
type OverrideStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Resolve merges a static value with an override. The override wins only
// when overriding is explicitly permitted and a value is present; a
// deploy-time value always wins otherwise.
func Resolve(staticVal, overrideVal string, overrideEnabled bool) string {
	if overrideEnabled && overrideVal != "" {
		return overrideVal
	}
	return staticVal
}

type cachedValue struct {
	value     string
	ok        bool
	expiresAt time.Time
}

// overrideCache is a read-through cache over an OverrideStore with a
// bounded TTL. Stale reads for up to the TTL window are an accepted
// tradeoff for avoiding contention on the hot path.
type overrideCache struct {
	store OverrideStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedValue
}

func newOverrideCache(store OverrideStore, ttl time.Duration) *overrideCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &overrideCache{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedValue),
	}
}

func (c *overrideCache) get(ctx context.Context, key string) (string, bool) {
	if c.store == nil {
		return "", false
	}

	c.mu.RLock()
	entry, cached := c.entries[key]
	c.mu.RUnlock()
	if cached && c.now().Before(entry.expiresAt) {
		return entry.value, entry.ok
	}

	value, ok, err := c.store.Get(ctx, key)
	if err != nil {
		// A broken override store must never take extraction down;
		// fall back to static configuration.
		logger.Warn("override store read failed", "key", key, "error", err)
		return "", false
	}

	c.mu.Lock()
	c.entries[key] = cachedValue{value: value, ok: ok, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return value, ok
}

// invalidate drops a cached key so the next read hits the store.
func (c *overrideCache) invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// MemoryOverrideStore is an in-memory OverrideStore for tests and for
// running without a database.
type MemoryOverrideStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryOverrideStore creates an empty in-memory override store.
func NewMemoryOverrideStore() *MemoryOverrideStore {
	return &MemoryOverrideStore{values: make(map[string]string)}
}

func (s *MemoryOverrideStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryOverrideStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
