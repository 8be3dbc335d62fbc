package cache

import (
	"math/rand/v2"
	"time"
)

const (
	baseDelay = 50 * time.Millisecond
	maxJitter = 200 * time.Millisecond
)

// Backoff is the reconnect policy for the cache client: exponential delay
// capped at CapDelay plus up to 200ms of jitter, terminal once the attempt
// number exceeds MaxRetries.
type Backoff struct {
	MaxRetries int
	CapDelay   time.Duration
}

// Delay returns the wait before the given attempt (starting at 1). ok is
// false when the retry budget is spent; the caller must stop for good.
func (b Backoff) Delay(attempt int) (delay time.Duration, ok bool) {
	if attempt > b.MaxRetries {
		return 0, false
	}
	d := baseDelay << uint(attempt)
	if d > b.CapDelay || d <= 0 {
		d = b.CapDelay
	}
	return d + rand.N(maxJitter), true
}
