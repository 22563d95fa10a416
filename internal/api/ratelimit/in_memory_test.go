package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLimiterConsumesBucket(t *testing.T) {
	l := NewInMemoryLimiter()
	defer l.Stop()

	limit := Limit{Requests: 3, Window: time.Hour}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "client-a", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := l.Allow(ctx, "client-a", limit)
	require.NoError(t, err)
	assert.False(t, allowed, "bucket should be empty")
}

func TestInMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewInMemoryLimiter()
	defer l.Stop()

	limit := Limit{Requests: 1, Window: time.Hour}
	ctx := context.Background()

	allowed, err := l.Allow(ctx, "client-a", limit)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = l.Allow(ctx, "client-a", limit)
	require.NoError(t, err)
	require.False(t, allowed)

	// A different client has its own bucket
	allowed, err = l.Allow(ctx, "client-b", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestTokenBucketRefills(t *testing.T) {
	// 100 tokens per 100ms refills fast enough to observe in a test
	tb := newTokenBucket(100, 100*time.Millisecond)

	for i := 0; i < 100; i++ {
		require.True(t, tb.consume(1))
	}
	require.False(t, tb.consume(1))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, tb.consume(1), "bucket should refill over time")
}
