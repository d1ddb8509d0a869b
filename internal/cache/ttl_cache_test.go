package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](ttl, 0)
	c.now = clock.now
	return c, clock
}

func TestTTLCacheExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	defer c.Stop()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.advance(time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)

	c.performCleanup()
	assert.Equal(t, 0, c.Size())
}

func TestTTLCacheGetOrLoad(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	defer c.Stop()

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls * 10, nil
	}

	v, err := c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, calls)

	clock.advance(2 * time.Minute)
	v, err = c.GetOrLoad(context.Background(), "k", load)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestTTLCacheLoadErrorNotCached(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	defer c.Stop()

	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Size())
}

func TestTTLCacheDeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a", "b")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())

	c.Stop()
	c.Stop()
}

func TestTTLCacheSweeper(t *testing.T) {
	c := NewTTLCache[string, int](time.Millisecond, 5*time.Millisecond)
	defer c.Stop()

	c.Set("a", 1)
	assert.Eventually(t, func() bool { return c.Size() == 0 }, time.Second, 5*time.Millisecond)
}
