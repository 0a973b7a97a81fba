package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterRefusesAfterMax(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	lim := NewMemoryLimiter(Config{Window: time.Minute, Max: 3})
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
	require.InDelta(t, float64(20*time.Second), float64(d.RetryAfter), float64(time.Millisecond))

	// other keys are independent
	d, err = lim.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	// one token back after window/max
	now = now.Add(21 * time.Second)
	d, err = lim.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestMemoryLimiterForgetsIdleKeys(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	lim := NewMemoryLimiter(Config{Window: time.Minute, Max: 1})
	lim.now = func() time.Time { return now }

	_, err := lim.Allow(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, lim.visitors, 1)

	now = now.Add(2 * time.Minute)
	_, err = lim.Allow(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, lim.visitors, 1)
	require.Contains(t, lim.visitors, "b")
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	c := Config{}.withDefaults()
	require.Equal(t, 15*time.Minute, c.Window)
	require.Equal(t, 100, c.Max)
}

func TestRedisWindowKey(t *testing.T) {
	t.Parallel()

	r := NewRedisLimiter(nil, Config{Window: time.Minute, Max: 10})
	now := time.Unix(120, 0)
	require.Equal(t, "audioscribe:ratelimit:1.2.3.4:2", r.windowKey("1.2.3.4", now))
	require.Equal(t, r.windowKey("k", now), r.windowKey("k", now.Add(59*time.Second)))
	require.NotEqual(t, r.windowKey("k", now), r.windowKey("k", now.Add(time.Minute)))
}
