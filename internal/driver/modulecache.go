package driver

import (
	"sync"
)

// per-process cache by file path + CacheKey, used by watch mode
type cached struct {
	key     Digest
	payload *DiskPayload
}

// MemCache keeps the last diagnostics of every checked path in memory.
type MemCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

// NewMemCache creates a MemCache with the given capacity hint.
func NewMemCache(capHint int) *MemCache {
	return &MemCache{byPath: make(map[string]cached, capHint)}
}

// Get returns the diagnostics stored for path if they were computed under key.
// File IDs differ between rounds, so entries hold offsets, not spans.
func (c *MemCache) Get(path string, key Digest) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.key != key {
		return nil, false
	}
	return rec.payload, true
}

func (c *MemCache) Put(path string, key Digest, payload *DiskPayload) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byPath[path] = cached{key: key, payload: payload}
	c.mu.Unlock()
}

// Forget drops path, for files removed between watch rounds.
func (c *MemCache) Forget(path string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.byPath, path)
	c.mu.Unlock()
}
