// Package engine implements the minute-granular, event-driven scheduling
// state machine described in SPEC_FULL.md §3–§5: a single mutable
// EngineState aggregate guarded by one coarse lock, exactly the way the
// teacher's scheduler.Scheduler guards its queue/limiter/health maps with
// a single sync.RWMutex per public operation.
package engine

import (
	"container/heap"
	"sort"
	"sync"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

// Policies are the tunables governing late-event handling and replan
// sensitivity (spec.md §3).
type Policies struct {
	MaxEventLatenessMin         int
	LatePolicy                  model.LatePolicy
	ReplanThresholdTotalLateMin int
	BreakdownReplanThresholdMin int
}

// DefaultPolicies mirrors the thresholds named throughout spec.md §8's
// scenarios (120min staleness window, 30min breakdown threshold).
func DefaultPolicies() Policies {
	return Policies{
		MaxEventLatenessMin:         120,
		LatePolicy:                  model.ApplyNow,
		ReplanThresholdTotalLateMin: 60,
		BreakdownReplanThresholdMin: 30,
	}
}

// Engine is the single mutable aggregate described in spec.md §3. All
// public methods acquire mu for their entire body; no method calls
// another public (locking) method while holding the lock — internal
// helpers are unexported and lock-free, called only from already-locked
// contexts.
type Engine struct {
	mu sync.Mutex

	now          time.Time
	isRunning    bool
	isDown       bool
	speedFactor  float64
	currentFormat string // "" means null

	currentJob *model.CurrentJob

	queue []model.WorkOrder
	pool  poolHeap

	downStartTime          *time.Time
	downReason             string
	lastBreakdownDurationMin int

	policies Policies

	downtimeMin   int
	stoppedMin    int
	idleMin       int
	producingMin  int
	completed     []model.CompletedOrder

	eventLog []model.JournalEntry

	setup *model.SetupMatrix
}

// New constructs an Engine starting at `now` with an initial pool of
// work orders (not-yet-admitted) and a shared, immutable setup matrix.
func New(now time.Time, pool []model.WorkOrder, setup *model.SetupMatrix, pol Policies) *Engine {
	e := &Engine{
		now:         now,
		speedFactor: 1.0,
		policies:    pol,
		setup:       setup,
	}
	e.pool = make(poolHeap, 0, len(pool))
	for _, wo := range pool {
		heap.Push(&e.pool, wo)
	}
	return e
}

// poolHeap orders not-yet-admitted work orders by CreatedAt ascending so
// refresh_queue_from_pool can pop every admissible order off the front
// instead of scanning the whole pool every call — the same heap-backed
// admission shape the teacher's scheduler.TaskQueue uses for priority
// pop, repurposed here to key on creation time instead of effective
// priority.
type poolHeap []model.WorkOrder

func (h poolHeap) Len() int { return len(h) }
func (h poolHeap) Less(i, j int) bool {
	if !h[i].CreatedAt.Equal(h[j].CreatedAt) {
		return h[i].CreatedAt.Before(h[j].CreatedAt)
	}
	return h[i].OFID < h[j].OFID
}
func (h poolHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *poolHeap) Push(x interface{}) {
	*h = append(*h, x.(model.WorkOrder))
}
func (h *poolHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sortQueue enforces invariant 6: queue ordered by (due_date asc,
// priority desc). Stable so insertion order survives ties.
func sortQueue(queue []model.WorkOrder) {
	sort.SliceStable(queue, func(i, j int) bool {
		if !queue[i].DueDate.Equal(queue[j].DueDate) {
			return queue[i].DueDate.Before(queue[j].DueDate)
		}
		return queue[i].Priority > queue[j].Priority
	})
}

func containsOFID(queue []model.WorkOrder, ofID string) bool {
	for _, wo := range queue {
		if wo.OFID == ofID {
			return true
		}
	}
	return false
}
