package limitsvc

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trezcool/mediateam/core"
)

const (
	keyPrefix = "mediateam:ratelimit:"

	allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`
)

// RedisLimiter shares counters between dashboard instances. It fails open when redis is unreachable.
type RedisLimiter struct {
	client  *redis.Client
	script  *redis.Script
	timeout time.Duration
}

var _ core.Limiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		script:  redis.NewScript(allowScript),
		timeout: 250 * time.Millisecond,
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l.client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{keyPrefix + key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
