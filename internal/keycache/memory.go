package keycache

import (
	"context"
	"sync"
	"time"
)

// memoryCache is the in-process [Cache] used in the local environment.
// Entries expire after a fixed TTL matching the session lifetime; expired
// entries are filtered lazily on Get and removed in bulk by EvictExpired.
//
// The mutex guards only the map itself. It is held for single
// read-modify-write operations and never across any other call.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// now is swappable in tests to control expiry.
	now func() time.Time
}

type memoryEntry struct {
	dataKey   []byte
	expiresAt time.Time
}

// NewMemoryCache constructs an in-memory [Cache] whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put implements [Cache]. The stored key is copied so later mutation of the
// caller's slice cannot corrupt the cache.
func (c *memoryCache) Put(_ context.Context, sessionID string, dataKey []byte) error {
	entry := memoryEntry{
		dataKey:   append([]byte(nil), dataKey...),
		expiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	c.entries[sessionID] = entry
	c.mu.Unlock()

	return nil
}

// Get implements [Cache]. Expired entries report ok=false without error.
func (c *memoryCache) Get(_ context.Context, sessionID string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[sessionID]
	c.mu.RUnlock()

	if !ok || !entry.expiresAt.After(c.now()) {
		return nil, false
	}

	return append([]byte(nil), entry.dataKey...), true
}

// Evict implements [Cache].
func (c *memoryCache) Evict(_ context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.entries, sessionID)
	c.mu.Unlock()

	return nil
}

// EvictExpired implements [Sweepable].
func (c *memoryCache) EvictExpired(_ context.Context) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for sessionID, entry := range c.entries {
		if !entry.expiresAt.After(now) {
			delete(c.entries, sessionID)
			dropped++
		}
	}

	return dropped
}
