package board

import (
	"sync"
	"time"

	"github.com/sgurin/askroom/internal/core"
)

// msgRateLimiter caps inbound messages per connection over a sliding window.
// limit <= 0 disables it.
type msgRateLimiter struct {
	mu      sync.Mutex
	history map[core.ConnID][]time.Time
	limit   int
	window  time.Duration
}

func newMsgRateLimiter(limit int, window time.Duration) *msgRateLimiter {
	return &msgRateLimiter{
		history: make(map[core.ConnID][]time.Time),
		limit:   limit,
		window:  window,
	}
}

func (rl *msgRateLimiter) Allow(cid core.ConnID) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	attempts := rl.history[cid]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[cid] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[cid] = fresh
	return true
}

// Forget drops a connection's history once it disconnects.
func (rl *msgRateLimiter) Forget(cid core.ConnID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.history, cid)
}
