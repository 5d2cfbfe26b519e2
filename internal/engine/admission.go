package engine

import (
	"container/heap"

	"github.com/lineforge/shopfloor/internal/model"
)

// refreshQueueFromPool moves every pool order whose CreatedAt has
// arrived into the queue, skipping any already present in the queue or
// as the current job, then re-sorts the queue (spec.md §4.2). This is
// the only path by which a WorkOrder becomes eligible for dispatch.
// Caller must hold mu.
func (e *Engine) refreshQueueFromPool() {
	admittedAny := false
	for len(e.pool) > 0 && !e.pool[0].CreatedAt.After(e.now) {
		wo := heap.Pop(&e.pool).(model.WorkOrder)

		alreadyQueued := containsOFID(e.queue, wo.OFID)
		alreadyCurrent := e.currentJob != nil && e.currentJob.Order.OFID == wo.OFID
		if alreadyQueued || alreadyCurrent {
			continue
		}
		e.queue = append(e.queue, wo)
		admittedAny = true
	}
	if admittedAny {
		sortQueue(e.queue)
	}
}
