package api

import (
	"sync"
	"time"
)

// breakerState mirrors the three states of the teacher's
// scheduler.CircuitBreaker.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker trips after a run of consecutive failures and holds
// the circuit open for a cooldown window before allowing a single
// half-open probe through, the same shape as the teacher's
// scheduler.CircuitBreaker guarding dispatch calls.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            breakerState
	failureThreshold int
	cooldown         time.Duration
	consecutiveFails int
	openedAt         time.Time
}

// NewCircuitBreaker builds a breaker that opens after failureThreshold
// consecutive failures and stays open for cooldown before probing again.
func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{failureThreshold: failureThreshold, cooldown: cooldown}
}

// Allow reports whether a request may proceed right now.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case breakerOpen:
		if time.Since(cb.openedAt) >= cb.cooldown {
			cb.state = breakerHalfOpen
			return true
		}
		return false
	default:
		return true
	}
}

// RecordResult updates the breaker's state machine after a request.
func (cb *CircuitBreaker) RecordResult(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.consecutiveFails = 0
		cb.state = breakerClosed
		return
	}

	cb.consecutiveFails++
	if cb.state == breakerHalfOpen || cb.consecutiveFails >= cb.failureThreshold {
		cb.state = breakerOpen
		cb.openedAt = time.Now()
	}
}
