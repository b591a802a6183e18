package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirphl/metatag-sync/config"
	"github.com/amirphl/metatag-sync/utils"
	"github.com/redis/go-redis/v9"
)

// PageCache stores the rendered head markup of a page, addressed by its clean URI.
// Every Invalidate bumps a per-page generation; Set only stores markup read under the
// current generation, so a render racing an update cannot cache the old tags.
type PageCache interface {
	Get(ctx context.Context, uri string) (string, bool, error)
	Generation(ctx context.Context, uri string) (int64, error)
	Set(ctx context.Context, uri string, markup string, generation int64) error
	Invalidate(ctx context.Context, uri string) error
}

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1]
var setIfGeneration = redis.NewScript(`
local current = redis.call("GET", KEYS[1]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

type RedisPageCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPageCache returns a redis backed cache, or a no-op cache when rc is nil
func NewPageCache(rc *redis.Client, cfg config.CacheConfig) PageCache {
	if rc == nil {
		return NoopPageCache{}
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = utils.DefaultRenderCacheTTL
	}
	return &RedisPageCache{rc: rc, prefix: cfg.RedisPrefix, ttl: ttl}
}

// PageCacheKey is the md5 of the URI namespace followed by the clean URI
func PageCacheKey(prefix, uri string) string {
	return prefix + utils.GenerateMD5Hash(utils.CacheURINamespace, uri)
}

// PageGenerationKey addresses the invalidation counter of a page
func PageGenerationKey(prefix, uri string) string {
	return PageCacheKey(prefix, uri) + ":gen"
}

func (c *RedisPageCache) Get(ctx context.Context, uri string) (string, bool, error) {
	markup, err := c.rc.Get(ctx, PageCacheKey(c.prefix, uri)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read page cache: %w", err)
	}
	return markup, true, nil
}

func (c *RedisPageCache) Generation(ctx context.Context, uri string) (int64, error) {
	gen, err := c.rc.Get(ctx, PageGenerationKey(c.prefix, uri)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read page cache generation: %w", err)
	}
	return gen, nil
}

func (c *RedisPageCache) Set(ctx context.Context, uri string, markup string, generation int64) error {
	keys := []string{PageGenerationKey(c.prefix, uri), PageCacheKey(c.prefix, uri)}
	err := setIfGeneration.Run(ctx, c.rc, keys, generation, markup, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("failed to write page cache: %w", err)
	}
	return nil
}

func (c *RedisPageCache) Invalidate(ctx context.Context, uri string) error {
	genKey := PageGenerationKey(c.prefix, uri)
	_, err := c.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		// outlive any render that read the previous generation
		pipe.Expire(ctx, genKey, 2*c.ttl)
		pipe.Del(ctx, PageCacheKey(c.prefix, uri))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate page cache: %w", err)
	}
	return nil
}

// NoopPageCache is used when caching is disabled
type NoopPageCache struct{}

func (NoopPageCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (NoopPageCache) Generation(context.Context, string) (int64, error) { return 0, nil }
func (NoopPageCache) Set(context.Context, string, string, int64) error  { return nil }
func (NoopPageCache) Invalidate(context.Context, string) error          { return nil }
