package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCacheRepository(t *testing.T) {
	c := NewNoopCacheRepository()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "1", time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Del(ctx, "k"))
}

// Нужен живой Redis: TEST_REDIS_ADDRESS=localhost:6379
func TestRedisCacheRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS не задан")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 1})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCacheRepository(client, "test:")
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "catalog:L27:bomba", "1", time.Minute))
	val, err := c.Get(ctx, "catalog:L27:bomba")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	require.NoError(t, c.Del(ctx, "catalog:L27:bomba"))
	_, err = c.Get(ctx, "catalog:L27:bomba")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
