package ingest

import (
	"math"
	"time"
)

// Backoff bounds the in-process retry loop: MaxAttempts total attempts with
// exponentially growing delays between them.
type Backoff struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Factor      float64
}

// DefaultBackoff matches the transcoding retry budget: 3 total attempts,
// 1.5s base delay, doubling between attempts.
var DefaultBackoff = Backoff{
	MaxAttempts: 3,
	BaseDelay:   1500 * time.Millisecond,
	Factor:      2,
}

// Delay returns the pause after the given 1-based attempt number
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.BaseDelay) * math.Pow(b.Factor, float64(attempt-1))
	return time.Duration(d)
}
