package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPathCache(t *testing.T) {
	t.Run("NeverLoadedIsStale", func(t *testing.T) {
		cache := NewPathCache(time.Minute)
		assert.True(t, cache.Stale("/users"))
	})

	t.Run("FreshWithinWindow", func(t *testing.T) {
		cache := NewPathCache(time.Minute)
		cache.MarkFresh("/users")
		assert.False(t, cache.Stale("/users"))
	})

	t.Run("InvalidateForcesRefetch", func(t *testing.T) {
		cache := NewPathCache(time.Minute)
		cache.MarkFresh("/users")
		cache.Invalidate("/users")
		assert.True(t, cache.Stale("/users"))
	})

	t.Run("ZeroWindowAlwaysRefetches", func(t *testing.T) {
		cache := NewPathCache(0)
		cache.MarkFresh("/users")
		assert.True(t, cache.Stale("/users"))
	})

	t.Run("WindowExpiry", func(t *testing.T) {
		cache := NewPathCache(time.Minute)
		now := time.Now()
		cache.now = func() time.Time { return now }

		cache.MarkFresh("/users")
		assert.False(t, cache.Stale("/users"))

		cache.now = func() time.Time { return now.Add(2 * time.Minute) }
		assert.True(t, cache.Stale("/users"))
	})

	t.Run("PathsAreIndependent", func(t *testing.T) {
		cache := NewPathCache(time.Minute)
		cache.MarkFresh("/users")
		cache.Invalidate("/other")
		assert.False(t, cache.Stale("/users"))
	})
}
