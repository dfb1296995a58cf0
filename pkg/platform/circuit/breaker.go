// Package circuit provides a consecutive-failure circuit breaker for
// fail-fast access to optional backends.
package circuit

import "sync"

// Breaker trips open after a run of consecutive failures and closes again
// after a run of consecutive successes. There is no half-open probe window:
// callers decide which operations still go through while the circuit is
// open, and those operations report their outcome back.
type Breaker struct {
	mu         sync.Mutex
	name       string
	open       bool
	failures   int
	successes  int
	openAfter  int
	closeAfter int
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
// Default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.openAfter = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close an open
// circuit. Default is 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.closeAfter = n
		}
	}
}

// New creates a closed breaker. The name identifies it in logs and metrics.
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:       name,
		openAfter:  5,
		closeAfter: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Name returns the breaker's name.
func (b *Breaker) Name() string {
	return b.name
}

// IsOpen reports whether the circuit is tripped.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// RecordFailure notes a failed operation, opening the circuit once the
// failure threshold is reached.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.successes = 0
	if b.open {
		return
	}
	b.failures++
	if b.failures >= b.openAfter {
		b.open = true
	}
}

// RecordSuccess notes a successful operation. While open, enough consecutive
// successes close the circuit again.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		b.failures = 0
		return
	}
	b.successes++
	if b.successes >= b.closeAfter {
		b.open = false
		b.failures = 0
		b.successes = 0
	}
}

// Reset forces the circuit closed and clears all counts.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.failures = 0
	b.successes = 0
}
