// internal/engine/cache.go
package engine

import "sync"

type cacheEntry struct {
	value   any
	version uint64
}

// Cache is the keyed store of last-known-good results. Reads never block on
// writers for long: writers only add or overwrite entries. Staleness is
// computed lazily by version comparison, not by eviction.
type Cache struct {
	mu      sync.RWMutex
	entries map[JobKey]cacheEntry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[JobKey]cacheEntry)}
}

// Get returns the cached value and the state version it was computed
// against. Callers compare the version against the current counter to decide
// staleness; stale entries remain readable as last-known content.
func (c *Cache) Get(key JobKey) (any, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, 0, false
	}
	return e.value, e.version, true
}

func (c *Cache) Put(key JobKey, value any, version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, version: version}
}

// Evict removes entries matching pred, visiting at most limit entries so an
// eviction pass stays bounded. limit <= 0 means no bound.
func (c *Cache) Evict(pred func(JobKey) bool, limit int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed, visited := 0, 0
	for key := range c.entries {
		if limit > 0 && visited >= limit {
			break
		}
		visited++
		if pred(key) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
