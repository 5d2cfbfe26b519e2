package engine

import (
	"time"

	"github.com/lineforge/shopfloor/internal/model"
	"github.com/lineforge/shopfloor/internal/replan"
)

// Snapshot is a structured, read-only view of engine state at a given
// instant (spec.md §6 get_state()). It is a value type: no field aliases
// the engine's internal slices, so callers may hold onto it freely.
type Snapshot struct {
	Now                      time.Time              `json:"now"`
	IsRunning                bool                   `json:"is_running"`
	IsDown                   bool                   `json:"is_down"`
	SpeedFactor              float64                `json:"speed_factor"`
	CurrentFormat            string                 `json:"current_format,omitempty"`
	CurrentJob               *model.CurrentJob      `json:"current_job,omitempty"`
	Queue                    []model.WorkOrder      `json:"queue"`
	Pool                     []model.WorkOrder      `json:"pool"`
	DownStartTime            *time.Time             `json:"down_start_time,omitempty"`
	DownReason               string                 `json:"down_reason,omitempty"`
	LastBreakdownDurationMin int                    `json:"last_breakdown_duration_min"`
	DowntimeMin              int                    `json:"downtime_min"`
	StoppedMin               int                    `json:"stopped_min"`
	IdleMin                  int                    `json:"idle_min"`
	ProducingMin             int                    `json:"producing_min"`
	Completed                []model.CompletedOrder `json:"completed"`
}

// GetState returns a snapshot of the engine's public state.
func (e *Engine) GetState() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	var job *model.CurrentJob
	if e.currentJob != nil {
		cp := *e.currentJob
		job = &cp
	}

	var downStart *time.Time
	if e.downStartTime != nil {
		t := *e.downStartTime
		downStart = &t
	}

	return Snapshot{
		Now:                      e.now,
		IsRunning:                e.isRunning,
		IsDown:                   e.isDown,
		SpeedFactor:              e.speedFactor,
		CurrentFormat:            e.currentFormat,
		CurrentJob:               job,
		Queue:                    append([]model.WorkOrder(nil), e.queue...),
		Pool:                     append([]model.WorkOrder(nil), []model.WorkOrder(e.pool)...),
		DownStartTime:            downStart,
		DownReason:               e.downReason,
		LastBreakdownDurationMin: e.lastBreakdownDurationMin,
		DowntimeMin:              e.downtimeMin,
		StoppedMin:               e.stoppedMin,
		IdleMin:                  e.idleMin,
		ProducingMin:             e.producingMin,
		Completed:                append([]model.CompletedOrder(nil), e.completed...),
	}
}

// SetTime advances (or, for a non-future target, jumps) now to target.
// A target at or before now moves the clock without rewinding KPI
// counters — time moves, work does not un-happen (spec.md §7). A future
// target steps minute-by-minute as advance_to always does, then admits
// any newly-eligible pool orders and attempts dispatch, since this is a
// bare time move outside the handle_event/handle_incoming flow that
// would otherwise be the only path refreshing the queue.
func (e *Engine) SetTime(target time.Time) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advanceTo(target)
	e.refreshQueueFromPool()
	e.startNextIfPossible()
	return e.now
}

// GetEventLog returns the most recent `limit` journal entries (0 or
// negative returns the full log).
func (e *Engine) GetEventLog(limit int) []model.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	if limit <= 0 || limit >= len(e.eventLog) {
		return append([]model.JournalEntry(nil), e.eventLog...)
	}
	start := len(e.eventLog) - limit
	return append([]model.JournalEntry(nil), e.eventLog[start:]...)
}

// GetPlanPreview simulates dispatching the current queue, in its
// current order, from (now, current_format) without mutating engine
// state — a read-only look at where each order is projected to
// start/finish (SPEC_FULL.md §4.12, supplemented from the original
// prototype's get_plan_preview).
func (e *Engine) GetPlanPreview(limit int) []replan.PlanStep {
	e.mu.Lock()
	defer e.mu.Unlock()

	queue := e.queue
	if limit > 0 && limit < len(queue) {
		queue = queue[:limit]
	}
	return replan.Simulate(queue, e.now, e.currentFormat, e.speedFactor, e.setup)
}

// Clone produces an independent deep copy of the engine for offline
// simulation (spec.md §5): pool, queue, current job, KPI counters, and
// journal are all copied; the setup matrix is shared by reference since
// it is immutable after construction; the mutex is never copied — the
// clone gets its own fresh zero-value sync.Mutex.
func (e *Engine) Clone() *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	clone := &Engine{
		now:                      e.now,
		isRunning:                e.isRunning,
		isDown:                   e.isDown,
		speedFactor:              e.speedFactor,
		currentFormat:            e.currentFormat,
		downReason:               e.downReason,
		lastBreakdownDurationMin: e.lastBreakdownDurationMin,
		policies:                 e.policies,
		downtimeMin:              e.downtimeMin,
		stoppedMin:               e.stoppedMin,
		idleMin:                  e.idleMin,
		producingMin:             e.producingMin,
		setup:                    e.setup, // immutable, safe to share
	}

	if e.currentJob != nil {
		cp := *e.currentJob
		clone.currentJob = &cp
	}
	if e.downStartTime != nil {
		t := *e.downStartTime
		clone.downStartTime = &t
	}

	clone.queue = append([]model.WorkOrder(nil), e.queue...)
	clone.pool = append(poolHeap(nil), e.pool...)
	clone.completed = append([]model.CompletedOrder(nil), e.completed...)
	clone.eventLog = append([]model.JournalEntry(nil), e.eventLog...)

	return clone
}
