// Package model holds the scheduling engine's data model: work orders,
// events, the setup matrix, and the journal entries the engine emits.
package model

import "time"

// WorkOrder is the atomic scheduling unit (an "OF" on the shop floor).
type WorkOrder struct {
	OFID               string    `json:"of_id"`
	Product            string    `json:"product"`
	Format             string    `json:"format"`
	CreatedAt          time.Time `json:"created_at"`
	DueDate            time.Time `json:"due_date"`
	Priority           int       `json:"priority"`
	Qty                int       `json:"qty"`
	NominalRateUPerH   int       `json:"nominal_rate_u_per_h"`
	NominalDurationMin int       `json:"nominal_duration_min"`
}

// Clone returns a value copy. WorkOrder has no reference fields, so a
// plain struct copy is a deep copy.
func (w WorkOrder) Clone() WorkOrder {
	return w
}

// CompletedOrder records when a WorkOrder finished.
type CompletedOrder struct {
	OFID       string    `json:"of_id"`
	FinishedAt time.Time `json:"finished_at"`
}

// CurrentJob is the single in-progress order plus its derived progress
// counters (invariants 1–2 in spec.md §3 govern these fields).
type CurrentJob struct {
	Order                  WorkOrder `json:"order"`
	RemainingSetupMin      int       `json:"remaining_setup_min"`
	RemainingWorkNominMin  int       `json:"remaining_work_nominal_min"`
	WorkAcc                float64   `json:"work_acc"`
}
