package resolve

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes resolved boundaries per canonical question signature.
// Entries never expire: staleness is prevented by the map-context
// fingerprint inside the key, not by eviction. Duplicate concurrent
// resolutions of one signature share a single in-flight computation.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Boundary
	hits    uint64
	misses  uint64
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Boundary)}
}

// Do returns the cached boundary for key, or computes and stores it.
// Failed computations are not cached; the next call recomputes.
func (c *Cache) Do(key string, compute func() (Boundary, error)) (Boundary, error) {
	c.mu.Lock()
	if b, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return b, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: a concurrent flight may have stored the entry between
		// the miss above and this flight starting.
		c.mu.Lock()
		if b, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return b, nil
		}
		c.mu.Unlock()

		b, err := compute()
		if err != nil {
			return Boundary{}, err
		}

		c.mu.Lock()
		c.entries[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return Boundary{}, err
	}
	return v.(Boundary), nil
}

// Stats reports cache usage for the CLI and MCP cache commands.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}
