package httpx

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// NewBackoff returns an exponential backoff seeded with the supplied parameters.
// It never reports backoff.Stop; the retry budget is enforced by RetryPolicy.
func NewBackoff(base, max time.Duration, jitter float64) *backoff.ExponentialBackOff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.MaxInterval = max
	b.RandomizationFactor = jitter
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
