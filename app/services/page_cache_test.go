package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/amirphl/metatag-sync/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedis connects to TEST_REDIS_URL (default localhost) and skips when no server answers
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	rc := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestRedisPageCacheGenerations(t *testing.T) {
	rc := setupRedis(t)
	prefix := "metatag-test:" + uuid.NewString() + ":"
	cache := NewPageCache(rc, config.CacheConfig{RedisPrefix: prefix, DefaultTTL: time.Minute})
	ctx := context.Background()
	uri := "https://example.com/blog/12-article"
	t.Cleanup(func() {
		rc.Del(ctx, PageCacheKey(prefix, uri), PageGenerationKey(prefix, uri))
	})

	gen, err := cache.Generation(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, cache.Set(ctx, uri, "<meta old />", gen))
	markup, ok, err := cache.Get(ctx, uri)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<meta old />", markup)

	require.NoError(t, cache.Invalidate(ctx, uri))
	_, ok, err = cache.Get(ctx, uri)
	require.NoError(t, err)
	assert.False(t, ok)

	// a render that started before the invalidation is discarded
	require.NoError(t, cache.Set(ctx, uri, "<meta old />", gen))
	_, ok, err = cache.Get(ctx, uri)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err = cache.Generation(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	require.NoError(t, cache.Set(ctx, uri, "<meta new />", gen))
	markup, ok, err = cache.Get(ctx, uri)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "<meta new />", markup)
}
