package cachesvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/mediateam/core"
)

// New returns the redis cache when conf.RedisURL is set, the in-process LRU otherwise.
// The returned close func releases the redis connection.
func New(conf core.CacheConfig) (core.Cache, func() error, error) {
	if conf.RedisURL == "" {
		return NewLRUCache(conf.Size, conf.TTL), func() error { return nil }, nil
	}

	client, err := NewRedisClient(conf.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return NewRedisCache(client, conf.TTL), client.Close, nil
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}
