package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-reseller-go/internal/redisclient"
)

func newTestRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := newFakeClock()
	return NewRedisLimiter(client, nil, WithRedisClock(clock.Now)), mr, clock
}

func TestRedisLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestRedisLimiter(t)
	l.SetLimit("telegram-webhook", 3, 60*time.Second)

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "telegram-webhook", "")
		require.NoError(t, err)
		require.True(t, d.Allowed, "request %d", i+1)
		clock.Advance(time.Second)
	}

	d, err := l.Allow(ctx, "telegram-webhook", "")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 57, d.RetryAfter)

	clock.Advance(57 * time.Second)
	d, err = l.Allow(ctx, "telegram-webhook", "")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiterUnregisteredEndpoint(t *testing.T) {
	l, mr, _ := newTestRedisLimiter(t)

	d, err := l.Allow(context.Background(), "nope", "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Empty(t, mr.Keys())
}

func TestRedisLimiterKeysExpire(t *testing.T) {
	ctx := context.Background()
	l, mr, _ := newTestRedisLimiter(t)
	l.SetLimit("price-lookup", 5, 30*time.Second)

	_, err := l.Allow(ctx, "price-lookup", "10.0.0.1")
	require.NoError(t, err)

	key := redisclient.RateLimitKey("price-lookup", "10.0.0.1")
	require.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Second, mr.TTL(key))

	mr.FastForward(31 * time.Second)
	assert.False(t, mr.Exists(key))
}

func TestRedisLimiterStats(t *testing.T) {
	ctx := context.Background()
	l, _, clock := newTestRedisLimiter(t)
	l.SetLimit("price-lookup", 20, time.Minute)

	for _, key := range []string{"a", "a", "b"} {
		_, err := l.Allow(ctx, "price-lookup", key)
		require.NoError(t, err)
		clock.Advance(time.Millisecond)
	}

	stats, err := l.Stats(ctx, "price-lookup")
	require.NoError(t, err)
	assert.True(t, stats.Limited)
	assert.Equal(t, 20, stats.MaxRequests)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, stats.CurrentRequests)

	clock.Advance(2 * time.Minute)
	stats, err = l.Stats(ctx, "price-lookup")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 0}, stats.CurrentRequests)
}

func TestRedisLimiterReportsRedisErrors(t *testing.T) {
	l, mr, _ := newTestRedisLimiter(t)
	l.SetLimit("price-lookup", 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "price-lookup", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit check failed")
}

func TestParseScore(t *testing.T) {
	n, err := parseScore("1709294400000")
	require.NoError(t, err)
	assert.Equal(t, int64(1709294400000), n)

	n, err = parseScore(int64(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = parseScore(3.5)
	assert.Error(t, err)
}
