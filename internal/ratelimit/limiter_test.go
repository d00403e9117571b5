package ratelimit

import (
	"context"
	"testing"
	"time"
)

// TestBurstThenThrottle verifies the bucket serves burstSize requests
// immediately and then blocks until refill.
func TestBurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(10.0, 3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("burst of 3 took %v, should be near-instant", elapsed)
	}

	// Fourth token requires ~100ms of refill at 10/sec.
	start = time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait after burst: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("throttled acquire took %v, expected a refill wait", elapsed)
	}
}

// TestWaitHonorsContextCancellation verifies a cancelled context unblocks a
// caller stuck behind an empty bucket.
func TestWaitHonorsContextCancellation(t *testing.T) {
	rl := NewRateLimiter(0.01, 1) // one token per 100 seconds
	ctx := context.Background()

	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("initial token: %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(cancelCtx)
	if err != context.DeadlineExceeded {
		t.Errorf("Wait() = %v, want context.DeadlineExceeded", err)
	}
}

func TestTokensCapAtBucketSize(t *testing.T) {
	rl := NewRateLimiter(1000.0, 5)
	time.Sleep(20 * time.Millisecond) // would refill far past the cap
	if tokens := rl.CurrentTokens(); tokens > 5.0 {
		t.Errorf("CurrentTokens() = %v, want <= bucket size 5", tokens)
	}
}
