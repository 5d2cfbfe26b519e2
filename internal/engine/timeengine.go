package engine

import (
	"math"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

// advanceTo steps now forward one minute at a time until it reaches
// target, applying KPI accounting and job progression on every step
// (spec.md §4.1). If target is not after now, now is set directly with
// no stepping — the "clock regression" case from spec.md §7: time moves
// but no work un-happens, because no step ever ran for those minutes.
// Caller must hold mu.
func (e *Engine) advanceTo(target time.Time) {
	if !target.After(e.now) {
		e.now = target
		return
	}
	for e.now.Before(target) {
		e.stepOneMinute()
	}
}

// stepOneMinute performs the five ordered steps of spec.md §4.1.
// Caller must hold mu.
func (e *Engine) stepOneMinute() {
	// 1. KPI accounting: exactly one counter per minute, predicate
	// ladder is_down, then !is_running, then current_job == nil, else
	// producing.
	switch {
	case e.isDown:
		e.downtimeMin++
	case !e.isRunning:
		e.stoppedMin++
	case e.currentJob == nil:
		e.idleMin++
	default:
		e.producingMin++
	}

	// 2. Progress gate.
	if e.isDown || !e.isRunning || e.currentJob == nil {
		e.now = e.now.Add(time.Minute)
		return
	}

	job := e.currentJob

	// 3. Setup phase.
	if job.RemainingSetupMin > 0 {
		job.RemainingSetupMin--
		e.now = e.now.Add(time.Minute)
		return
	}

	// 4. Work phase: accumulate fractional nominal-minute progress at
	// the current speed factor so non-integer speeds never lose
	// throughput across minute boundaries.
	job.WorkAcc += e.speedFactor
	if k := math.Floor(job.WorkAcc); k > 0 {
		job.WorkAcc -= k
		job.RemainingWorkNominMin -= int(k)
		if job.RemainingWorkNominMin < 0 {
			job.RemainingWorkNominMin = 0
		}
	}
	e.now = e.now.Add(time.Minute)

	// 5. Completion check.
	if job.RemainingSetupMin == 0 && job.RemainingWorkNominMin == 0 {
		e.currentFormat = job.Order.Format
		e.completed = append(e.completed, model.CompletedOrder{
			OFID:       job.Order.OFID,
			FinishedAt: e.now,
		})
		e.currentJob = nil
	}
}
