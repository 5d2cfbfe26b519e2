package replan

import (
	"testing"
	"time"

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

func TestDecideShiftEventsNeverReplan(t *testing.T) {
	for _, et := range []model.EventType{model.ShiftStart, model.ShiftStop} {
		d := Decide(et, 0, false, 30)
		if d.Attempt {
			t.Errorf("%s: expected no replan attempt, got one", et)
		}
	}
}

func TestDecideBreakdownEndThreshold(t *testing.T) {
	below := Decide(model.BreakdownEnd, 10, true, 30)
	if below.Attempt {
		t.Errorf("expected no replan below threshold, got one")
	}
	above := Decide(model.BreakdownEnd, 45, true, 30)
	if !above.Attempt {
		t.Errorf("expected replan above threshold")
	}
}

func TestDecideUrgentOrderAlwaysAttempts(t *testing.T) {
	d := Decide(model.UrgentOrder, 0, false, 30)
	if !d.Attempt {
		t.Errorf("expected urgent_order to always attempt replan")
	}
}

func TestOptimizeGreedyPicksLowestCostFirst(t *testing.T) {
	now := mustTime(t, "2026-01-01T06:00")
	setup := model.NewSetupMatrix()

	// OF1 due soon with low priority, OF2 due far with high priority.
	// Picked first, OF2 finishes on time: 2.5*0 - 20*5 = -100. OF1 is
	// 30min late either way: 2.5*30 - 20*1 = 55. The lower score wins.
	queue := []model.WorkOrder{
		{OFID: "OF2", Format: "A", DueDate: now.Add(20 * time.Hour), Priority: 5, NominalDurationMin: 60},
		{OFID: "OF1", Format: "A", DueDate: now.Add(30 * time.Minute), Priority: 1, NominalDurationMin: 60},
	}

	result := Optimize(queue, now, "", 1.0, setup)
	if result[0].OFID != "OF2" {
		t.Errorf("expected OF2 (lowest cost score, -100 vs 55) first, got %s", result[0].OFID)
	}
}

func TestTotalLatenessZeroWhenAllOnTime(t *testing.T) {
	now := mustTime(t, "2026-01-01T06:00")
	setup := model.NewSetupMatrix()
	queue := []model.WorkOrder{
		{OFID: "OF1", Format: "A", DueDate: now.Add(10 * time.Hour), NominalDurationMin: 30},
	}
	if got := TotalLateness(queue, now, "", 1.0, setup); got != 0 {
		t.Errorf("expected 0 lateness, got %d", got)
	}
}

func TestAcceptRejectsIdenticalOrdering(t *testing.T) {
	queue := []model.WorkOrder{{OFID: "OF1"}, {OFID: "OF2"}}
	accept, reason := Accept(queue, queue, "speed_change", 100, 50, 60)
	if accept {
		t.Errorf("expected identical ordering to be rejected, got accept with reason %q", reason)
	}
}

func TestAcceptStrictlyBetterCandidateWins(t *testing.T) {
	current := []model.WorkOrder{{OFID: "OF1"}, {OFID: "OF2"}}
	candidate := []model.WorkOrder{{OFID: "OF2"}, {OFID: "OF1"}}
	accept, reason := Accept(current, candidate, "speed_change", 100, 50, 60)
	if !accept || reason != "candidate_strictly_less_late" {
		t.Errorf("expected strictly-better candidate to be accepted, got accept=%v reason=%q", accept, reason)
	}
}

func TestAcceptUrgentOrderForcesAcceptEvenIfNotBetter(t *testing.T) {
	current := []model.WorkOrder{{OFID: "OF1"}, {OFID: "OF2"}}
	candidate := []model.WorkOrder{{OFID: "OF2"}, {OFID: "OF1"}}
	accept, reason := Accept(current, candidate, string(model.UrgentOrder), 50, 80, 60)
	if !accept || reason != "urgent_order_forces_accept" {
		t.Errorf("expected urgent_order to force acceptance, got accept=%v reason=%q", accept, reason)
	}
}

func TestAcceptRegressionThresholdForcesAcceptance(t *testing.T) {
	current := []model.WorkOrder{{OFID: "OF1"}, {OFID: "OF2"}}
	candidate := []model.WorkOrder{{OFID: "OF2"}, {OFID: "OF1"}}
	// candidate is 100min worse than current, threshold is 60: must accept
	accept, reason := Accept(current, candidate, "speed_change", 100, 200, 60)
	if !accept || reason != "candidate_regression_over_threshold" {
		t.Errorf("expected catastrophic-regression acceptance, got accept=%v reason=%q", accept, reason)
	}
}

func TestAcceptRejectsSmallRegression(t *testing.T) {
	current := []model.WorkOrder{{OFID: "OF1"}, {OFID: "OF2"}}
	candidate := []model.WorkOrder{{OFID: "OF2"}, {OFID: "OF1"}}
	// candidate only 10min worse than current, within the 60min threshold: reject
	accept, reason := Accept(current, candidate, "speed_change", 100, 110, 60)
	if accept {
		t.Errorf("expected small regression to be rejected, got accept with reason %q", reason)
	}
}
