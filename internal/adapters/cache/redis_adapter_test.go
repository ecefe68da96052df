package cache_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrentsystem/backend/internal/adapters/cache"
	"github.com/smartrentsystem/backend/internal/domain/providers"
	redisclient "github.com/smartrentsystem/backend/internal/infrastructure/clients/redis"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "listing:abc", cache.ListingKey("abc"))
	assert.Equal(t, "user:u1", cache.UserKey("u1"))
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Requires redis connection (set REDIS_TEST_ADDR)")
	}

	ctx := context.Background()
	client := redisclient.NewFromRedis(redis.NewClient(&redis.Options{Addr: addr}))
	defer client.Close()

	adapter := cache.NewRedisAdapter(client)
	key := cache.ListingKey("redis-adapter-test")

	require.NoError(t, adapter.Set(ctx, key, []byte(`{"_id":"1"}`), 30))
	got, err := adapter.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"1"}`, string(got))

	exists, err := adapter.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, adapter.Delete(ctx, key))
	_, err = adapter.Get(ctx, key)
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}
