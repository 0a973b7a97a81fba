package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, config Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, config), mr
}

func TestRedisLimiterCountsWithinWindow(t *testing.T) {
	t.Parallel()

	// start of a one minute window
	windowStart := time.Unix(1_699_999_980, 0)
	now := windowStart.Add(15 * time.Second)
	lim, mr := newTestRedisLimiter(t, Config{Window: time.Minute, Max: 3})
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := lim.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i)
		require.Equal(t, 3, d.Limit)
		require.Equal(t, 2-i, d.Remaining)
	}

	d, err := lim.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, 3, d.Limit)
	require.Zero(t, d.Remaining)
	require.Equal(t, 45*time.Second, d.RetryAfter)

	key := lim.windowKey("10.0.0.1", now)
	require.Equal(t, "audioscribe:ratelimit:10.0.0.1:28333333", key)
	count, err := mr.Get(key)
	require.NoError(t, err)
	require.Equal(t, "4", count)
	require.Equal(t, time.Minute, mr.TTL(key))

	// other keys are independent
	d, err = lim.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	// the next window starts fresh
	now = windowStart.Add(time.Minute)
	d, err = lim.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, 2, d.Remaining)
}

func TestRedisLimiterWindowKeysExpire(t *testing.T) {
	t.Parallel()

	lim, mr := newTestRedisLimiter(t, Config{Window: time.Minute, Max: 1})
	now := time.Unix(1_699_999_980, 0)
	lim.now = func() time.Time { return now }

	_, err := lim.Allow(context.Background(), "k")
	require.NoError(t, err)
	key := lim.windowKey("k", now)
	require.True(t, mr.Exists(key))

	mr.FastForward(time.Minute)
	require.False(t, mr.Exists(key))
}

func TestRedisLimiterReportsStoreFailure(t *testing.T) {
	t.Parallel()

	lim, mr := newTestRedisLimiter(t, Config{})
	mr.Close()

	_, err := lim.Allow(context.Background(), "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to count request")
}
