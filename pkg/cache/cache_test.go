package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRedisCache 连接本地Redis，不可用时跳过
func testRedisCache(t *testing.T) *RedisCache {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c := NewRedisCache(Options{
		Addr:     addr,
		DB:       15,
		PoolSize: 2,
		Prefix:   "md2docx-test:",
		TTL:      time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		c.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}
	t.Cleanup(func() {
		c.rdb.Del(context.Background(), c.prefix+"blob")
		c.Close()
	})
	return c
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := testRedisCache(t)
	ctx := context.Background()

	_, hit, err := c.Get(ctx, "blob")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "blob", []byte("PK\x03\x04")))

	data, hit, err := c.Get(ctx, "blob")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("PK\x03\x04"), data)

	ttl, err := c.rdb.TTL(ctx, c.prefix+"blob").Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestNoopCache(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	data, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Close())
}

func TestNewDisabledReturnsNoop(t *testing.T) {
	_, ok := New().(Noop)
	assert.True(t, ok)
}
