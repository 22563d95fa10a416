package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemoryLimiter implements Limiter using in-memory token buckets. Suitable
// for single-instance deployments; use RedisLimiter when running replicas.
type InMemoryLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*tokenBucket
	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

// NewInMemoryLimiter creates a new in-memory limiter. It includes a
// background cleanup goroutine to remove unused buckets.
func NewInMemoryLimiter() *InMemoryLimiter {
	l := &InMemoryLimiter{
		buckets:     make(map[string]*tokenBucket),
		cleanup:     time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupUnusedBuckets()

	return l
}

// Stop stops the background cleanup goroutine. Call this when shutting down.
func (l *InMemoryLimiter) Stop() {
	l.cleanup.Stop()
	close(l.stopCleanup)
}

// Allow checks if a request is allowed and consumes a token if available.
func (l *InMemoryLimiter) Allow(_ context.Context, key string, limit Limit) (bool, error) {
	l.mu.Lock()
	bucket, exists := l.buckets[key]
	if !exists {
		bucket = newTokenBucket(float64(limit.Requests), limit.Window)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.consume(1), nil
}

// cleanupUnusedBuckets periodically removes buckets that haven't been used recently.
func (l *InMemoryLimiter) cleanupUnusedBuckets() {
	for {
		select {
		case <-l.cleanup.C:
			l.mu.Lock()
			now := time.Now()
			for key, bucket := range l.buckets {
				bucket.mu.Lock()
				// Remove buckets that haven't been used in 2x their window duration
				if now.Sub(bucket.lastRefill) > bucket.windowDuration*2 {
					delete(l.buckets, key)
				}
				bucket.mu.Unlock()
			}
			l.mu.Unlock()
		case <-l.stopCleanup:
			return
		}
	}
}
