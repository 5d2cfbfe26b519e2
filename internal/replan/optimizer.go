package replan

import (
	"math"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

// epsilon floors the speed factor so a near-zero speed never divides by
// zero (spec.md §8 boundary behavior: speed 0.01 must still progress).
const epsilon = 1e-6

// Optimize runs the greedy cost-model reordering described in spec.md
// §4.7: repeatedly pick the remaining order minimizing the cost score,
// advance the virtual clock/format to its finish, and append it.
func Optimize(queue []model.WorkOrder, now time.Time, currentFormat string, speedFactor float64, setup *model.SetupMatrix) []model.WorkOrder {
	remaining := make([]model.WorkOrder, len(queue))
	copy(remaining, queue)

	result := make([]model.WorkOrder, 0, len(queue))
	simNow := now
	simFmt := currentFormat

	for len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(1)
		for i, wo := range remaining {
			score, _, _ := jobCost(wo, simNow, simFmt, speedFactor, setup)
			if score < bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		winner := remaining[bestIdx]
		_, _, finish := jobCost(winner, simNow, simFmt, speedFactor, setup)

		result = append(result, winner)
		simNow = finish
		simFmt = winner.Format
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return result
}

// jobCost computes the cost score, setup minutes, and virtual finish
// instant for dispatching wo next out of (simNow, simFmt).
func jobCost(wo model.WorkOrder, simNow time.Time, simFmt string, speedFactor float64, setup *model.SetupMatrix) (score float64, setupMin int, finish time.Time) {
	setupMin = setup.Lookup(simFmt, wo.Format)

	speed := speedFactor
	if speed < epsilon {
		speed = epsilon
	}
	realWorkMin := int(math.Floor(float64(wo.NominalDurationMin) / speed))

	finish = simNow.Add(time.Duration(setupMin+realWorkMin) * time.Minute)

	lateMin := 0
	if finish.After(wo.DueDate) {
		lateMin = int(finish.Sub(wo.DueDate).Minutes())
	}

	score = 2.5*float64(lateMin) + 0.8*float64(setupMin) - 20*float64(wo.Priority)
	return score, setupMin, finish
}

// TotalLateness simulates dispatching queue in order from (now,
// currentFormat) and sums each job's lateness, per spec.md §4.7's
// acceptance KPI.
func TotalLateness(queue []model.WorkOrder, now time.Time, currentFormat string, speedFactor float64, setup *model.SetupMatrix) int {
	simNow := now
	simFmt := currentFormat
	total := 0

	for _, wo := range queue {
		setupMin := setup.Lookup(simFmt, wo.Format)

		speed := speedFactor
		if speed < epsilon {
			speed = epsilon
		}
		realWorkMin := int(math.Floor(float64(wo.NominalDurationMin) / speed))
		finish := simNow.Add(time.Duration(setupMin+realWorkMin) * time.Minute)

		if finish.After(wo.DueDate) {
			total += int(finish.Sub(wo.DueDate).Minutes())
		}

		simNow = finish
		simFmt = wo.Format
	}

	return total
}

// PlanStep is one row of a read-only plan preview (SPEC_FULL.md §4.12,
// grounded on the original prototype's get_plan_preview/PlanRowOut).
type PlanStep struct {
	OFID           string    `json:"of_id"`
	Format         string    `json:"format"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	SetupMin       int       `json:"setup_min"`
	WorkNominalMin int       `json:"work_nominal_min"`
	LateMin        int       `json:"late_min"`
}

// Simulate walks queue in the given order from (now, currentFormat) and
// returns each job's projected start/end/setup/lateness without
// mutating anything — the same virtual simulation TotalLateness and
// Optimize use internally, exposed for preview endpoints.
func Simulate(queue []model.WorkOrder, now time.Time, currentFormat string, speedFactor float64, setup *model.SetupMatrix) []PlanStep {
	simNow := now
	simFmt := currentFormat
	steps := make([]PlanStep, 0, len(queue))

	for _, wo := range queue {
		setupMin := setup.Lookup(simFmt, wo.Format)

		speed := speedFactor
		if speed < epsilon {
			speed = epsilon
		}
		realWorkMin := int(math.Floor(float64(wo.NominalDurationMin) / speed))

		start := simNow
		finish := start.Add(time.Duration(setupMin+realWorkMin) * time.Minute)

		lateMin := 0
		if finish.After(wo.DueDate) {
			lateMin = int(finish.Sub(wo.DueDate).Minutes())
		}

		steps = append(steps, PlanStep{
			OFID:           wo.OFID,
			Format:         wo.Format,
			Start:          start,
			End:            finish,
			SetupMin:       setupMin,
			WorkNominalMin: realWorkMin,
			LateMin:        lateMin,
		})

		simNow = finish
		simFmt = wo.Format
	}

	return steps
}

// SameOrder reports whether two queues list the same work orders in the
// same sequence (by OFID).
func SameOrder(a, b []model.WorkOrder) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].OFID != b[i].OFID {
			return false
		}
	}
	return true
}

// Accept implements the acceptance rule of spec.md §4.7: reject an
// identical ordering outright; accept a strictly-less-late candidate;
// always accept on an urgent-order trigger; otherwise accept only when
// the candidate is later in total than the current (unreplanned)
// ordering by more than regressionThresholdMin. Smaller regressions are
// rejected. This branch accepts a strictly worse plan, so it carries its
// own acceptReason and shows up in the journal's replan_reason.
func Accept(current, candidate []model.WorkOrder, reason string, totalCurrent, totalCandidate, regressionThresholdMin int) (accept bool, acceptReason string) {
	if SameOrder(current, candidate) {
		return false, "candidate_equals_current"
	}
	if totalCandidate < totalCurrent {
		return true, "candidate_strictly_less_late"
	}
	if reason == string(model.UrgentOrder) {
		return true, "urgent_order_forces_accept"
	}
	if diff := totalCandidate - totalCurrent; diff > regressionThresholdMin {
		return true, "candidate_regression_over_threshold"
	}
	return false, "candidate_not_better_enough"
}
