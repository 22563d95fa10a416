package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limit describes a token bucket: Requests per Window, refilled continuously.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Limiter decides whether a request identified by key may proceed.
// Implementations consume one token per Allow call.
type Limiter interface {
	Allow(ctx context.Context, key string, limit Limit) (bool, error)
}

type tokenBucket struct {
	mu             sync.Mutex
	tokens         float64
	lastRefill     time.Time
	capacity       float64
	refillRate     float64 // tokens per second
	windowDuration time.Duration
}

func newTokenBucket(capacity float64, windowDuration time.Duration) *tokenBucket {
	return &tokenBucket{
		tokens:         capacity,
		lastRefill:     time.Now(),
		capacity:       capacity,
		refillRate:     capacity / windowDuration.Seconds(),
		windowDuration: windowDuration,
	}
}

// consume attempts to consume the requested number of tokens.
// Returns true if tokens were available and consumed, false otherwise.
func (tb *tokenBucket) consume(tokens float64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokensToAdd := elapsed * tb.refillRate
	tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
	tb.lastRefill = now

	if tb.tokens >= tokens {
		tb.tokens -= tokens
		return true
	}

	return false
}
