// Package daysim implements the offline day simulator of spec.md §4.8:
// clone the live engine, drain a batch of incoming events against the
// clone, and report periodic snapshots without ever touching the real
// engine.
package daysim

import (
	"sort"
	"time"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/model"
)

// Report is one periodic snapshot emitted during the simulated day.
type Report struct {
	At    time.Time       `json:"at"`
	State engine.Snapshot `json:"state"`
}

// Result is the full output of SimulateDay (spec.md §4.8).
type Result struct {
	Stats        engine.Snapshot       `json:"stats"`
	Reports      []Report              `json:"reports"`
	LastState    engine.Snapshot       `json:"last_state"`
	EventLogTail []model.JournalEntry  `json:"event_log_tail"`
}

// SimulateDay clones e, replays incoming between dayStart and dayEnd in
// receive-time order, advances the clone minute-by-minute through the
// window (refreshing admission and attempting dispatch after every bare
// jump, the same as any other caller outside handle_event/
// handle_incoming), and emits a Report every reportEveryMin simulated
// minutes. The live engine is never mutated.
func SimulateDay(e *engine.Engine, dayStart, dayEnd time.Time, incoming []model.IncomingEvent, reportEveryMin int) Result {
	clone := e.Clone()

	sorted := make([]model.IncomingEvent, len(incoming))
	copy(sorted, incoming)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReceiveTime.Before(sorted[j].ReceiveTime)
	})

	var reports []Report
	nextReport := dayStart
	if reportEveryMin <= 0 {
		reportEveryMin = 60
	}

	idx := 0
	cur := dayStart
	for cur.Before(dayEnd) {
		// Apply every incoming event whose receive time has arrived.
		for idx < len(sorted) && !sorted[idx].ReceiveTime.After(cur) {
			clone.HandleIncoming(sorted[idx].ReceiveTime, sorted[idx].Event, sorted[idx].Source)
			idx++
		}

		for !nextReport.After(cur) && nextReport.Before(dayEnd) {
			reports = append(reports, Report{At: nextReport, State: clone.GetState()})
			nextReport = nextReport.Add(time.Duration(reportEveryMin) * time.Minute)
		}

		step := dayEnd.Sub(cur)
		if step > time.Minute {
			step = time.Minute
		}
		cur = cur.Add(step)
		clone.SetTime(cur)
	}

	// Drain any remaining incoming events that arrived exactly at dayEnd.
	for idx < len(sorted) && !sorted[idx].ReceiveTime.After(dayEnd) {
		clone.HandleIncoming(sorted[idx].ReceiveTime, sorted[idx].Event, sorted[idx].Source)
		idx++
	}

	final := clone.GetState()
	return Result{
		Stats:        final,
		Reports:      reports,
		LastState:    final,
		EventLogTail: clone.GetEventLog(50),
	}
}
