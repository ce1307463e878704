package cachesvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/mediateam/core"
)

const redisPrefix = "mediateam:"

// RedisCache shares cached collections between dashboard instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ core.Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get treats every redis failure as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(c.client.Set(ctx, redisPrefix+key, value, c.ttl).Err(), "redis set")
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = redisPrefix + key
	}
	return errors.Wrap(c.client.Del(ctx, prefixed...).Err(), "redis del")
}
