// FILE: breaker.go
package sink

import (
	"sync"
	"time"
)

// gateResult is the breaker's verdict for one write attempt.
type gateResult int

const (
	// gateProceed allows the write against the current stream.
	gateProceed gateResult = iota
	// gateReject fast-fails the write without touching the filesystem.
	gateReject
	// gateReopen allows the write but requires a fresh stream first:
	// the cooldown elapsed and the stale handle must be replaced.
	gateReopen
)

// BreakerStats is a read-only view of the circuit breaker.
type BreakerStats struct {
	Open                bool
	ConsecutiveFailures int64
	OpenedAt            time.Time // Zero when closed
	TotalTrips          uint64
	TotalRejections     uint64
}

// breaker trips after a run of consecutive write failures and fast-fails
// writes until a fixed cooldown elapses. Failures must be consecutive: any
// success while closed resets the counter.
type breaker struct {
	threshold int64
	cooldown  time.Duration

	mu                  sync.Mutex
	consecutiveFailures int64
	open                bool
	openedAt            time.Time

	totalTrips      uint64
	totalRejections uint64
}

func newBreaker(threshold int64, cooldown time.Duration) *breaker {
	return &breaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// gate decides the fate of the next write. When the cooldown has elapsed the
// breaker closes and resets before the reopen attempt runs, so a failed
// reopen simply starts a fresh failure run.
func (b *breaker) gate() gateResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return gateProceed
	}

	if time.Since(b.openedAt) < b.cooldown {
		b.totalRejections++
		return gateReject
	}

	b.open = false
	b.openedAt = time.Time{}
	b.consecutiveFailures = 0
	return gateReopen
}

// recordFailure counts a stream-level write failure, tripping the breaker
// at the threshold.
func (b *breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.consecutiveFailures++
	if !b.open && b.consecutiveFailures >= b.threshold {
		b.open = true
		b.openedAt = time.Now()
		b.totalTrips++
	}
}

// recordSuccess resets the failure run.
func (b *breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		b.consecutiveFailures = 0
	}
}

func (b *breaker) isOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *breaker) stats() BreakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerStats{
		Open:                b.open,
		ConsecutiveFailures: b.consecutiveFailures,
		OpenedAt:            b.openedAt,
		TotalTrips:          b.totalTrips,
		TotalRejections:     b.totalRejections,
	}
}
