package httpclient

import (
	"sync"
	"time"
)

// CircuitBreaker stops issuing requests to a failing destination for a
// cooldown window. One breaker guards one destination; breakers are never
// shared across providers so a failing dependency cannot starve a healthy
// one.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	resetWindow      time.Duration

	failures     int
	open         bool
	probing      bool
	trippedUntil time.Time

	now func() time.Time
}

func NewCircuitBreaker(failureThreshold int, resetWindow time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetWindow:      resetWindow,
		now:              time.Now,
	}
}

// Allow reports whether a request may be issued. While the breaker is open
// it rejects everything until the reset window elapses, then admits exactly
// one half-open probe; the probe's outcome decides whether the breaker
// resets or re-trips.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}

	if b.probing {
		return false
	}

	if b.now().After(b.trippedUntil) {
		b.probing = true
		return true
	}

	return false
}

// RecordSuccess resets the breaker after any successful request.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.open = false
	b.probing = false
	b.trippedUntil = time.Time{}
}

// RecordFailure counts a failed request. Reaching the threshold, or failing
// a half-open probe, trips the breaker for the reset window.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.probing {
		b.trip()
		return
	}

	b.failures++
	if b.failures >= b.failureThreshold {
		b.trip()
	}
}

// CancelProbe releases the half-open probe slot without judging the
// dependency, used when a probe was abandoned before it produced an outcome
// (e.g. the caller cancelled mid-flight). The breaker stays open and the
// next Allow after the reset window admits a fresh probe.
func (b *CircuitBreaker) CancelProbe() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
}

// Open reports whether the breaker currently rejects requests.
func (b *CircuitBreaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && !b.now().After(b.trippedUntil)
}

func (b *CircuitBreaker) trip() {
	b.open = true
	b.probing = false
	b.failures = 0
	b.trippedUntil = b.now().Add(b.resetWindow)
}
