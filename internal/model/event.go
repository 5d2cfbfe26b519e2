package model

import "time"

// EventType enumerates the disturbances the engine reacts to.
type EventType string

const (
	ShiftStart    EventType = "SHIFT_START"
	ShiftStop     EventType = "SHIFT_STOP"
	BreakdownStart EventType = "BREAKDOWN_START"
	BreakdownEnd  EventType = "BREAKDOWN_END"
	SpeedChange   EventType = "SPEED_CHANGE"
	UrgentOrder   EventType = "URGENT_ORDER"
)

// Event is a single disturbance at a point in simulated time.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Value     string    `json:"value"`
}

// IncomingEvent wraps an Event with the instant the engine actually sees
// it. ReceiveTime >= Event.Timestamp is typical; the reverse is allowed
// and advances engine time (spec.md §3).
type IncomingEvent struct {
	ReceiveTime time.Time `json:"receive_time"`
	Event       Event     `json:"event"`
	Source      string    `json:"source"`
}

// LatePolicy controls how the engine treats a late-arriving event.
type LatePolicy string

const (
	ApplyNow LatePolicy = "APPLY_NOW"
	Ignore   LatePolicy = "IGNORE"
)
