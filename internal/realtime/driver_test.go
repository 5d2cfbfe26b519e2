package realtime

import (
	"testing"
	"time"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/model"
)

func TestDriverStartAppliesSyntheticShiftStart(t *testing.T) {
	now := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	eng := engine.New(now, nil, model.NewSetupMatrix(), engine.DefaultPolicies())
	cfg := Config{SimMinPerTick: 1, TickInterval: 10 * time.Millisecond, ReportEveryMin: 60}
	d := NewDriver(eng, nil, cfg)

	if !d.Start() {
		t.Fatal("expected Start to succeed on a fresh driver")
	}
	defer d.Stop()

	if !eng.GetState().IsRunning {
		t.Errorf("expected synthetic SHIFT_START to have run the engine")
	}
}

func TestDriverStartTwiceIsNoOp(t *testing.T) {
	now := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	eng := engine.New(now, nil, model.NewSetupMatrix(), engine.DefaultPolicies())
	d := NewDriver(eng, nil, Config{SimMinPerTick: 1, TickInterval: 10 * time.Millisecond, ReportEveryMin: 60})

	d.Start()
	defer d.Stop()

	if d.Start() {
		t.Errorf("expected a second Start on a running driver to be a no-op")
	}
}

func TestDriverTicksAdvanceSimulatedTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	eng := engine.New(now, nil, model.NewSetupMatrix(), engine.DefaultPolicies())
	cfg := Config{SimMinPerTick: 5, TickInterval: 10 * time.Millisecond, ReportEveryMin: 60}
	d := NewDriver(eng, nil, cfg)

	d.Start()
	defer d.Stop()

	time.Sleep(60 * time.Millisecond)

	if !eng.GetState().Now.After(now) {
		t.Errorf("expected simulated time to have advanced past %v", now)
	}
}

func TestDriverStopIsIdempotentNoOpWhenNotRunning(t *testing.T) {
	now := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	eng := engine.New(now, nil, model.NewSetupMatrix(), engine.DefaultPolicies())
	d := NewDriver(eng, nil, DefaultConfig())

	if d.Stop() {
		t.Errorf("expected Stop on a never-started driver to report false")
	}
}
