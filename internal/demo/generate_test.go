package demo

import (
	"testing"
	"time"
)

func TestGenerateIsDeterministic(t *testing.T) {
	dayStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig(dayStart)

	a := Generate(cfg)
	b := Generate(cfg)

	if len(a.Pool) != len(b.Pool) {
		t.Fatalf("expected identical pool sizes, got %d vs %d", len(a.Pool), len(b.Pool))
	}
	for i := range a.Pool {
		if a.Pool[i] != b.Pool[i] {
			t.Fatalf("expected identical work order at index %d, got %+v vs %+v", i, a.Pool[i], b.Pool[i])
		}
	}
	if len(a.Events) != len(b.Events) {
		t.Fatalf("expected identical event counts, got %d vs %d", len(a.Events), len(b.Events))
	}
}

func TestGenerateProducesShiftBoundaryEvents(t *testing.T) {
	dayStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	gen := Generate(DefaultConfig(dayStart))

	var sawStart, sawStop bool
	for _, ev := range gen.Events {
		switch ev.Event.Type {
		case "SHIFT_START":
			sawStart = true
		case "SHIFT_STOP":
			sawStop = true
		}
	}
	if !sawStart || !sawStop {
		t.Errorf("expected both a shift start and stop event, got start=%v stop=%v", sawStart, sawStop)
	}
}

func TestGenerateSetupMatrixCoversAllFormatPairs(t *testing.T) {
	dayStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := DefaultConfig(dayStart)
	gen := Generate(cfg)

	for _, from := range cfg.Formats {
		for _, to := range cfg.Formats {
			if from == to {
				continue
			}
			if got := gen.Setup.Lookup(from, to); got < 15 || got > 60 {
				t.Errorf("expected setup cost in [15,60] for %s->%s, got %d", from, to, got)
			}
		}
	}
}
