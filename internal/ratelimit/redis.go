package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

// RedisLimiter is a fixed window counter shared by every instance using
// the same redis.
type RedisLimiter struct {
	client *redis.Client
	config Config
	prefix string
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		config: config.withDefaults(),
		prefix: "audioscribe:ratelimit:",
		now:    time.Now,
	}
}

func (r *RedisLimiter) windowKey(key string, now time.Time) string {
	window := now.UnixNano() / int64(r.config.Window)
	return fmt.Sprintf("%s%s:%d", r.prefix, key, window)
}

// Allow implements Limiter
func (r *RedisLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := r.now()
	k := r.windowKey(key, now)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(k)
	pipe.Expire(k, r.config.Window)
	if _, err := pipe.Exec(); err != nil {
		return Decision{}, fmt.Errorf("failed to count request: %w", err)
	}

	count := int(incr.Val())
	if count > r.config.Max {
		elapsed := time.Duration(now.UnixNano() % int64(r.config.Window))
		return Decision{Allowed: false, Limit: r.config.Max, RetryAfter: r.config.Window - elapsed}, nil
	}
	return Decision{Allowed: true, Limit: r.config.Max, Remaining: r.config.Max - count}, nil
}
