// Package replan implements the replan trigger policy (spec.md §4.6) and
// the cost-model queue optimizer (spec.md §4.7).
package replan

import (
	"fmt"

	"github.com/lineforge/shopfloor/internal/model"
)

// Decision is the replan decider's verdict for a single applied event.
type Decision struct {
	Attempt bool
	Reason  string
}

// Decide implements the trigger table in spec.md §4.6. breakdownDurationMin
// and hasBreakdownDuration are only meaningful for BREAKDOWN_END.
func Decide(eventType model.EventType, breakdownDurationMin int, hasBreakdownDuration bool, breakdownThresholdMin int) Decision {
	switch eventType {
	case model.ShiftStart, model.ShiftStop:
		return Decision{Attempt: false, Reason: "shift_event_never_replans"}

	case model.BreakdownStart:
		return Decision{Attempt: false, Reason: "breakdown_start_no_duration"}

	case model.BreakdownEnd:
		dur := 0
		if hasBreakdownDuration {
			dur = breakdownDurationMin
		}
		attempt := dur >= breakdownThresholdMin
		return Decision{
			Attempt: attempt,
			Reason:  fmt.Sprintf("breakdown_duration_min=%d threshold_min=%d", dur, breakdownThresholdMin),
		}

	case model.UrgentOrder:
		return Decision{Attempt: true, Reason: "urgent_order_always_attempts"}

	case model.SpeedChange:
		return Decision{Attempt: true, Reason: "speed_change_attempts"}

	default:
		return Decision{Attempt: false, Reason: ""}
	}
}
