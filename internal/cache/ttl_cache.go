package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a thread-safe map whose entries expire after a fixed TTL
type TTLCache[K comparable, V any] struct {
	items         map[K]entry[V]
	mutex         sync.RWMutex
	ttl           time.Duration
	now           func() time.Time
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// Stats is a point-in-time view of the cache
type Stats struct {
	TotalEntries   int    `json:"total_entries"`
	ActiveEntries  int    `json:"active_entries"`
	ExpiredEntries int    `json:"expired_entries"`
	TTL            string `json:"ttl_duration"`
}

// NewTTLCache creates a cache. A positive cleanupInterval starts a sweeper goroutine that Stop ends.
func NewTTLCache[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		items:       make(map[K]entry[V]),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		c.cleanupTicker = time.NewTicker(cleanupInterval)
		go c.cleanupExpiredEntries()
	}

	slog.Debug("TTL cache initialized",
		"ttl", ttl.String(),
		"cleanup_interval", cleanupInterval.String())

	return c
}

// Set stores a value with the cache TTL
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Get returns the value if present and not expired
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.items[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Load errors are not cached.
func (c *TTLCache[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		slog.Debug("Cache hit", "key", key)
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes keys
func (c *TTLCache[K, V]) Delete(keys ...K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, k := range keys {
		delete(c.items, k)
	}
}

// Clear removes all items
func (c *TTLCache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := len(c.items)
	c.items = make(map[K]entry[V])
	slog.Debug("Cache cleared", "removed_items", removed)
}

// Size counts entries including expired ones not yet swept
func (c *TTLCache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// Stop ends the sweeper. Safe to call more than once.
func (c *TTLCache[K, V]) Stop() {
	c.stopOnce.Do(func() {
		if c.cleanupTicker != nil {
			c.cleanupTicker.Stop()
		}
		close(c.stopCleanup)
	})
}

func (c *TTLCache[K, V]) cleanupExpiredEntries() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.performCleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *TTLCache[K, V]) performCleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	expired := 0
	for key, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, key)
			expired++
		}
	}

	if expired > 0 {
		slog.Debug("Cache cleanup completed",
			"expired_entries", expired,
			"remaining_entries", len(c.items))
	}
}

// GetStats returns cache statistics
func (c *TTLCache[K, V]) GetStats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.now()
	stats := Stats{TotalEntries: len(c.items), TTL: c.ttl.String()}
	for _, e := range c.items {
		if now.Before(e.expiresAt) {
			stats.ActiveEntries++
		} else {
			stats.ExpiredEntries++
		}
	}
	return stats
}
