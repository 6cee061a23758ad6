package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(4))
	defer mc.Close()

	_, err := mc.Get(ctx, "page:overview")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "page:overview", []byte(`{"id":"overview"}`), time.Minute))
	b, err := mc.Get(ctx, "page:overview")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"overview"}`, string(b))

	require.NoError(t, mc.Delete(ctx, "page:overview"))
	_, err = mc.Get(ctx, "page:overview")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", []byte("1"), time.Minute))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", []byte("2"), time.Minute))
	time.Sleep(time.Millisecond)
	_, err := mc.Get(ctx, "a")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", []byte("3"), time.Minute))

	assert.Equal(t, 2, mc.Len())
	_, err = mc.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = mc.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	type payload struct {
		Page string `json:"page"`
		N    int    `json:"n"`
	}
	require.NoError(t, SetJSON(ctx, mc, "p", payload{Page: "forecasts", N: 3}, time.Minute))
	got, err := GetJSON[payload](ctx, mc, "p")
	require.NoError(t, err)
	assert.Equal(t, payload{Page: "forecasts", N: 3}, got)

	require.NoError(t, mc.Purge(ctx))
	_, err = GetJSON[payload](ctx, mc, "p")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c Service = Nop{}
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "page:overview", GenerateKey("page", "overview"))
	assert.Equal(t, "page:overview:1", GenerateKeyWithParams("page", "overview", 1))
	assert.Len(t, HashKey("x"), 32)
	assert.Equal(t, HashKey("x"), HashKey("x"))
	assert.NotEqual(t, HashKey("x"), HashKey("y"))
	assert.Equal(t, "steeldash:*", BuildPattern("steeldash:"))
}

func TestPoolAndCleanupOptions(t *testing.T) {
	rc := &RedisConfig{PoolSize: 10, MinIdleConns: 2, PoolTimeout: time.Second}
	WithRedisPool(0, -1, 0)(rc)
	assert.Equal(t, 10, rc.PoolSize)
	assert.Equal(t, 2, rc.MinIdleConns)
	assert.Equal(t, time.Second, rc.PoolTimeout)
	WithRedisPool(20, 0, 3*time.Second)(rc)
	assert.Equal(t, 20, rc.PoolSize)
	assert.Equal(t, 0, rc.MinIdleConns)
	assert.Equal(t, 3*time.Second, rc.PoolTimeout)

	mc := &MemoryConfig{CleanupInterval: time.Minute}
	WithMemoryCleanup(0)(mc)
	assert.Equal(t, time.Minute, mc.CleanupInterval)
	WithMemoryCleanup(time.Second)(mc)
	assert.Equal(t, time.Second, mc.CleanupInterval)

	c := NewMemoryCache(WithMemoryCleanup(10 * time.Millisecond))
	defer c.Close()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
}
