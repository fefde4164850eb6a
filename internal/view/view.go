// Package view provides the cache-invalidation capability mutation actions
// use to mark rendered routes stale.
package view

import (
	"sync"
	"time"
)

// Invalidator marks a route's cached output stale. Any cache layer can
// satisfy it; mutation actions call it after every successful write.
type Invalidator interface {
	Invalidate(path string)
}

// PathCache tracks per-path freshness. A path is stale when it has never
// been marked fresh, when it has been invalidated, or when its age exceeds
// the revalidate window. A zero window means every read refetches.
type PathCache struct {
	mu         sync.Mutex
	revalidate time.Duration
	freshAt    map[string]time.Time
	now        func() time.Time
}

// NewPathCache creates a cache with the given revalidate window.
func NewPathCache(revalidate time.Duration) *PathCache {
	return &PathCache{
		revalidate: revalidate,
		freshAt:    make(map[string]time.Time),
		now:        time.Now,
	}
}

// Invalidate marks the path stale.
func (c *PathCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.freshAt, path)
}

// MarkFresh records that the path was just re-read from the source of truth.
func (c *PathCache) MarkFresh(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freshAt[path] = c.now()
}

// Stale reports whether the path must be refetched.
func (c *PathCache) Stale(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.freshAt[path]
	if !ok {
		return true
	}
	if c.revalidate <= 0 {
		return true
	}
	return c.now().Sub(at) > c.revalidate
}
