package analytics

import (
	"sync"
	"time"
)

// cacheEntry holds cached stats and metadata
type cacheEntry struct {
	stats       []Stats
	lastRefresh time.Time
}

// statsCache provides thread-safe caching for aggregated statistics, keyed by host
type statsCache struct {
	mu     sync.RWMutex
	byHost map[string]*cacheEntry
	ttl    time.Duration
	now    func() time.Time
}

func newStatsCache(ttl time.Duration) *statsCache {
	return &statsCache{
		byHost: make(map[string]*cacheEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// get retrieves cached stats if available and fresh
func (c *statsCache) get(host string) ([]Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.byHost[host]
	if !exists {
		return nil, false
	}

	if c.now().Sub(entry.lastRefresh) > c.ttl {
		return nil, false
	}

	return entry.stats, true
}

func (c *statsCache) set(host string, stats []Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byHost[host] = &cacheEntry{
		stats:       stats,
		lastRefresh: c.now(),
	}
}

// invalidate clears all cached data. The "" key aggregates every host, so a
// write to any host makes every entry stale.
func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byHost = make(map[string]*cacheEntry)
}
