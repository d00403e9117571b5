// Package ratelimit paces contents-API calls using a token bucket.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/ifor-lux/luxconsole/internal/constants"
)

// RateLimiter implements a token bucket rate limiter.
// It allows bursts up to the bucket capacity, then refills at a fixed rate.
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens added per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter refilling at tokensPerSecond with a
// bucket of burstSize tokens. The bucket starts full.
func NewRateLimiter(tokensPerSecond, burstSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:     burstSize,
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
	}
}

// NewStoreRateLimiter creates the limiter for the contents API.
//
// GitHub grants authenticated clients 5000 requests/hour on the primary
// limit, with secondary limits on bursts of content mutations. The limiter
// runs at 80% of the primary rate with a bucket that absorbs a session's
// startup burst. See constants.StoreRatePerSec / StoreBurstCapacity.
func NewStoreRateLimiter() *RateLimiter {
	return NewRateLimiter(constants.StoreRatePerSec, constants.StoreBurstCapacity)
}

// Wait blocks until a token is available or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.timeUntilNextToken()):
		}
	}
}

// tryAcquire attempts to take one token without blocking.
func (rl *RateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// timeUntilNextToken calculates the wait until at least one token exists.
func (rl *RateLimiter) timeUntilNextToken() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	needed := 1.0 - rl.tokens
	if needed <= 0 {
		return 0
	}
	return time.Duration(needed / rl.refillRate * float64(time.Second))
}

// CurrentTokens returns the refilled token count (for tests).
func (rl *RateLimiter) CurrentTokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	tokens := rl.tokens + time.Since(rl.lastRefill).Seconds()*rl.refillRate
	if tokens > rl.maxTokens {
		tokens = rl.maxTokens
	}
	return tokens
}
