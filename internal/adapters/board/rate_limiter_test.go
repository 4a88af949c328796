package board

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAboveLimit(t *testing.T) {
	rl := newMsgRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("c1") {
			t.Fatalf("attempt %d blocked below limit", i)
		}
	}
	if rl.Allow("c1") {
		t.Error("attempt above limit allowed")
	}
	// other connections are unaffected
	if !rl.Allow("c2") {
		t.Error("separate connection throttled")
	}
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := newMsgRateLimiter(2, 30*time.Millisecond)

	if !rl.Allow("c1") || !rl.Allow("c1") {
		t.Fatal("blocked below limit")
	}
	if rl.Allow("c1") {
		t.Fatal("allowed above limit")
	}

	time.Sleep(40 * time.Millisecond)
	if !rl.Allow("c1") {
		t.Error("still blocked after window passed")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := newMsgRateLimiter(0, time.Millisecond)

	for i := 0; i < 1000; i++ {
		if !rl.Allow("c1") {
			t.Fatal("disabled limiter blocked a message")
		}
	}
}

func TestRateLimiterForget(t *testing.T) {
	rl := newMsgRateLimiter(1, time.Hour)

	if !rl.Allow("c1") {
		t.Fatal("first attempt blocked")
	}
	if rl.Allow("c1") {
		t.Fatal("second attempt allowed")
	}

	rl.Forget("c1")
	if !rl.Allow("c1") {
		t.Error("blocked after Forget")
	}
}
