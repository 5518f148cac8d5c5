package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process SessionCache used when no Redis is configured
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]map[string]memoryEntry
}

// NewMemoryCache creates a MemoryCache; ttl <= 0 means entries never expire
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]map[string]memoryEntry),
	}
}

// Put stores value under key for the session
func (c *MemoryCache) Put(_ context.Context, sessionID, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket, ok := c.entries[sessionID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		c.entries[sessionID] = bucket
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	bucket[key] = entry
	return nil
}

// Get returns the value stored under key for the session
func (c *MemoryCache) Get(_ context.Context, sessionID, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[sessionID][key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries[sessionID], key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

// Purge drops everything stored for the session
func (c *MemoryCache) Purge(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
	return nil
}

// Close is a no-op for the in-memory cache
func (c *MemoryCache) Close() error {
	return nil
}
