package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRateLimitPrefix = "ratelimit:"

// fixedWindow increments the counter of KEYS[1], starting its expiry on the
// first hit, and returns the count with the remaining TTL in milliseconds.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// RedisRateLimiter is a fixed window limiter shared by every instance that
// talks to the same Redis.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

// NewRedisRateLimiter allows limit requests per period; name separates the
// counters of different limiters.
func NewRedisRateLimiter(client *redis.Client, name string, limit int, period time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: defaultRateLimitPrefix + name + ":",
		limit:  limit,
		period: period,
	}
}

// Take counts one request for key
func (l *RedisRateLimiter) Take(ctx context.Context, key string) (Quota, error) {
	res, err := fixedWindow.Run(ctx, l.client, []string{l.prefix + key}, l.period.Milliseconds()).Int64Slice()
	if err != nil {
		return Quota{}, fmt.Errorf("rate limit window: %w", err)
	}
	if len(res) != 2 {
		return Quota{}, fmt.Errorf("rate limit window: unexpected reply %v", res)
	}

	used := int(res[0])
	return Quota{
		Allowed:   used <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-used, 0),
		ResetIn:   time.Duration(res[1]) * time.Millisecond,
	}, nil
}
