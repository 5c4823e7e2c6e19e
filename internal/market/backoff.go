package market

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	backoffBase   = time.Second
	backoffFactor = 1.5
	backoffCap    = 10 * time.Second
)

// newReconnectBackOff never gives up and never jitters.
func newReconnectBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = backoffBase
	b.Multiplier = backoffFactor
	b.MaxInterval = backoffCap
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Backoff returns the reconnect delay after attempt consecutive failures:
// min(1s * 1.5^attempt, 10s).
func Backoff(attempt int) time.Duration {
	b := newReconnectBackOff()
	d := b.NextBackOff()
	for i := 0; i < attempt && d < backoffCap; i++ {
		d = b.NextBackOff()
	}
	return d
}
