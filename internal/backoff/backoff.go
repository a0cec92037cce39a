// Package backoff provides the wait-time primitives shared by the retry
// transport: exponential growth, symmetric jitter and ceiling capping.
package backoff

import (
	"math/rand"
	"time"
)

// Exponential returns factor × 2^(attemptsMade−1). attemptsMade counts the
// sends already made, so the first computed wait equals the base factor.
func Exponential(factor time.Duration, attemptsMade int) time.Duration {
	if factor <= 0 {
		return 0
	}
	if attemptsMade < 1 {
		attemptsMade = 1
	}
	// Prevent overflow by limiting the exponent
	if attemptsMade > 32 {
		attemptsMade = 32
	}
	d := factor << uint(attemptsMade-1)
	if d < 0 {
		return time.Duration(1<<63 - 1)
	}
	return d
}

// Jitter perturbs d by ±(d × ratio). The magnitude is fixed; only the sign
// is chosen uniformly at random.
func Jitter(d time.Duration, ratio float64) time.Duration {
	if ratio <= 0 || d <= 0 {
		return d
	}
	amount := time.Duration(float64(d) * ratio)
	if rand.Intn(2) == 0 {
		return d + amount
	}
	return d - amount
}

// Cap clamps d into [0, ceiling].
func Cap(d, ceiling time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if ceiling > 0 && d > ceiling {
		return ceiling
	}
	return d
}
