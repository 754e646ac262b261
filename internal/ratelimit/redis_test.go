package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLimiterExactLimit(t *testing.T) {
	l := NewRedisLimiter(newTestRedis(t), "rl")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "ip:1.2.3.4", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "call %d must be admitted", i+1)
	}
	ok, err := l.Allow(ctx, "ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "ip:9.9.9.9", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterWindowSlides(t *testing.T) {
	l := NewRedisLimiter(newTestRedis(t), "rl")
	ctx := context.Background()

	ok, err := l.Allow(ctx, "k", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "k", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(40 * time.Millisecond)
	ok, err = l.Allow(ctx, "k", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	l := NewRedisLimiter(client, "rl")
	_, err := l.Allow(context.Background(), "k", 5, time.Minute)
	assert.Error(t, err)
}
