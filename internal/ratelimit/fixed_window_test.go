package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, mr *miniredis.Miniredis, limit int) *FixedWindowLimiter {
	t.Helper()
	client, err := NewRedisClient(mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := NewFixedWindowLimiter(client, Options{Prefix: "test:ratelimit", Limit: limit, Window: time.Minute})
	require.NoError(t, err)
	return limiter
}

func TestFixedWindowLimiter_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i+1)
	}

	ok, err := limiter.Allow(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, ok, "third request should be blocked")

	// Other clients have their own budget
	ok, err = limiter.Allow(ctx, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFixedWindowLimiter_KeysExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 1)

	_, err := limiter.Allow(context.Background(), "203.0.113.7")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "test:ratelimit:203.0.113.7:")
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestFixedWindowLimiter_FailClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 1)
	mr.Close()

	ok, err := limiter.Allow(context.Background(), "203.0.113.7")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewFixedWindowLimiter_Validation(t *testing.T) {
	_, err := NewRedisClient("  ", "")
	assert.Error(t, err)

	_, err = NewFixedWindowLimiter(nil, Options{Limit: 1, Window: time.Second})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr(), "")
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	_, err = NewFixedWindowLimiter(client, Options{Limit: 0, Window: time.Second})
	assert.Error(t, err)
	_, err = NewFixedWindowLimiter(client, Options{Limit: 1})
	assert.Error(t, err)
}

func TestFixedWindowLimiter_Settings(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := newTestLimiter(t, mr, 7)

	assert.Equal(t, 7, limiter.Limit())
	assert.Equal(t, time.Minute, limiter.Window())
}
