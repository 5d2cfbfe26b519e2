package daysim

import (
	"testing"
	"time"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/model"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tm
}

func TestSimulateDayDoesNotMutateLiveEngine(t *testing.T) {
	dayStart := mustTime(t, "2026-01-01T06:00")
	dayEnd := mustTime(t, "2026-01-01T08:00")

	pool := []model.WorkOrder{
		{OFID: "OF1", Format: "A", CreatedAt: dayStart, DueDate: dayEnd, Priority: 1, NominalDurationMin: 30},
	}
	e := engine.New(dayStart, pool, model.NewSetupMatrix(), engine.DefaultPolicies())

	incoming := []model.IncomingEvent{
		{ReceiveTime: dayStart, Event: model.Event{Timestamp: dayStart, Type: model.ShiftStart}, Source: "test"},
	}

	result := SimulateDay(e, dayStart, dayEnd, incoming, 30)

	if e.GetState().IsRunning {
		t.Errorf("expected the live engine to remain untouched by SimulateDay")
	}
	if !result.LastState.IsRunning {
		t.Errorf("expected the simulated clone to reflect the shift start")
	}
	if len(result.Reports) == 0 {
		t.Errorf("expected at least one periodic report over a 2-hour window with 30min cadence")
	}
}

func TestSimulateDaySortsIncomingByReceiveTime(t *testing.T) {
	dayStart := mustTime(t, "2026-01-01T06:00")
	dayEnd := mustTime(t, "2026-01-01T09:00")
	e := engine.New(dayStart, nil, model.NewSetupMatrix(), engine.DefaultPolicies())

	// deliberately out of order
	incoming := []model.IncomingEvent{
		{ReceiveTime: dayStart.Add(time.Hour), Event: model.Event{Timestamp: dayStart.Add(time.Hour), Type: model.ShiftStop}, Source: "test"},
		{ReceiveTime: dayStart, Event: model.Event{Timestamp: dayStart, Type: model.ShiftStart}, Source: "test"},
	}

	result := SimulateDay(e, dayStart, dayEnd, incoming, 60)

	if result.LastState.IsRunning {
		t.Errorf("expected shift to have stopped by day end after processing in receive-time order")
	}
}
