package api

import (
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !cb.Allow() {
			t.Fatalf("expected breaker closed before threshold, iteration %d", i)
		}
		cb.RecordResult(false)
	}

	if cb.Allow() {
		t.Errorf("expected breaker to be open after consecutive failures")
	}
}

func TestCircuitBreakerHalfOpensAfterCooldown(t *testing.T) {
	cb := NewCircuitBreaker(1, 20*time.Millisecond)

	cb.Allow()
	cb.RecordResult(false) // trips open

	if cb.Allow() {
		t.Fatalf("expected breaker open immediately after trip")
	}

	time.Sleep(30 * time.Millisecond)

	if !cb.Allow() {
		t.Errorf("expected breaker to allow a half-open probe after cooldown")
	}
}

func TestCircuitBreakerRecoversOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(2, 20*time.Millisecond)

	cb.Allow()
	cb.RecordResult(false)
	cb.Allow()
	cb.RecordResult(true)

	if !cb.Allow() {
		t.Errorf("expected a success to reset the breaker to closed")
	}
}
