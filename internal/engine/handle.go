package engine

import (
	"fmt"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
	"github.com/lineforge/shopfloor/internal/replan"
)

// HandleEvent applies a single Event at the engine's current time
// (spec.md §4.5, the non-incoming path: no advance to a receive time
// happens first).
func (e *Engine) HandleEvent(ev model.Event) model.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.processEvent(ev, "direct", e.now)
}

// HandleIncoming wraps an Event with the instant the engine actually
// observes it. Per spec.md §4.5, the engine first advances to
// receiveTime, refreshes the queue, and attempts dispatch *before*
// processing the event itself.
func (e *Engine) HandleIncoming(receiveTime time.Time, ev model.Event, source string) model.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advanceTo(receiveTime)
	e.refreshQueueFromPool()
	e.startNextIfPossible()

	return e.processEvent(ev, source, receiveTime)
}

// processEvent is the shared core of HandleEvent/HandleIncoming.
// Caller must hold mu. receivedAt is the instant recorded on the
// journal entry (the call time for direct events, the receive time for
// incoming ones).
func (e *Engine) processEvent(ev model.Event, source string, receivedAt time.Time) model.JournalEntry {
	nowBefore := e.now

	entry := model.JournalEntry{
		ReceivedAt:      receivedAt,
		Source:          source,
		EngineNowBefore: nowBefore,
		EventTimestamp:  ev.Timestamp,
		Type:            ev.Type,
		Value:           ev.Value,
	}

	// 1. If the event is future-dated relative to now, advance to it and
	// refresh admission before computing lateness.
	if ev.Timestamp.After(e.now) {
		e.advanceTo(ev.Timestamp)
		e.refreshQueueFromPool()
	}

	// 2. Lateness is always non-negative: how far now has moved past the
	// event's own timestamp.
	latenessMin := 0
	if e.now.After(ev.Timestamp) {
		latenessMin = int(e.now.Sub(ev.Timestamp).Minutes())
	}

	// 3. Too old.
	if latenessMin > e.policies.MaxEventLatenessMin {
		entry.Status = model.StatusIgnored
		entry.Reason = lateTooOldReason(latenessMin, e.policies.MaxEventLatenessMin)
		entry.EngineNowAfter = e.now
		e.eventLog = append(e.eventLog, entry)
		return entry
	}

	// 4. IGNORE policy drops any late (not on-time) event.
	if latenessMin > 0 && e.policies.LatePolicy == model.Ignore {
		entry.Status = model.StatusIgnored
		entry.Reason = "late event ignored by policy"
		entry.EngineNowAfter = e.now
		e.eventLog = append(e.eventLog, entry)
		return entry
	}

	// 5. Apply at current now (never rewind); mark lateness if any.
	result := e.applyEvent(ev)
	if !result.applied {
		entry.Status = model.StatusIgnored
		entry.Reason = result.rejectReason
		entry.EngineNowAfter = e.now
		e.eventLog = append(e.eventLog, entry)
		return entry
	}

	entry.Status = model.StatusOK
	entry.LateApplied = latenessMin > 0
	if result.hasBreakdownDuration {
		dur := result.breakdownDurationMin
		entry.BreakdownDurationMin = &dur
	}

	// 6. Refresh, consult the replan decider, attempt dispatch.
	e.refreshQueueFromPool()

	decision := replan.Decide(ev.Type, result.breakdownDurationMin, result.hasBreakdownDuration, e.policies.BreakdownReplanThresholdMin)
	entry.ReplanReason = decision.Reason

	if decision.Attempt {
		candidate := replan.Optimize(e.queue, e.now, e.currentFormat, e.speedFactor, e.setup)
		totalCurrent := replan.TotalLateness(e.queue, e.now, e.currentFormat, e.speedFactor, e.setup)
		totalCandidate := replan.TotalLateness(candidate, e.now, e.currentFormat, e.speedFactor, e.setup)

		accept, acceptReason := replan.Accept(e.queue, candidate, string(ev.Type), totalCurrent, totalCandidate, e.policies.ReplanThresholdTotalLateMin)
		entry.ReplanReason = decision.Reason + "; " + acceptReason
		if accept {
			e.queue = candidate
			entry.Replanned = true
		}
	}

	e.startNextIfPossible()

	entry.EngineNowAfter = e.now
	e.eventLog = append(e.eventLog, entry)
	return entry
}

func lateTooOldReason(latenessMin, maxLatenessMin int) string {
	return fmt.Sprintf("late event too old: %dmin > %dmin", latenessMin, maxLatenessMin)
}
