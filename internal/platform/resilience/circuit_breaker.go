package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig tunes a breaker; zero values fall back to defaults.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	return cfg
}

// CircuitBreaker trips after a run of consecutive failures. While open it
// rejects calls until the open timeout elapses, then lets a single probe
// through; the probe's outcome decides between closing and re-opening.
// Reset force-closes it regardless of state.
type CircuitBreaker struct {
	mu sync.Mutex

	failLimit   int
	openTimeout time.Duration

	state    CircuitState
	failures int
	openedAt time.Time
	probing  bool
	now      func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration) *CircuitBreaker {
	cfg := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
	})
	return &CircuitBreaker{
		failLimit:   cfg.FailureThreshold,
		openTimeout: cfg.OpenTimeout,
		state:       CircuitClosed,
		now:         time.Now,
	}
}

// Allow reports whether a call may proceed now.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		b.state = CircuitHalfOpen
		b.probing = false
	}

	switch b.state {
	case CircuitOpen:
		return ErrCircuitOpen
	case CircuitHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = CircuitClosed
	b.failures = 0
	b.probing = false
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		b.failures++
		if b.failures >= b.failLimit {
			b.trip()
		}
	case CircuitHalfOpen:
		b.trip()
	case CircuitOpen:
		b.openedAt = b.now()
	}
}

// Reset force-closes the breaker and clears the failure run.
func (b *CircuitBreaker) Reset() {
	b.RecordSuccess()
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return CircuitHalfOpen
	}
	return b.state
}

// Failures returns the current consecutive-failure count.
func (b *CircuitBreaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitOpen
	b.openedAt = b.now()
	b.probing = false
}
