package engine

import "github.com/lineforge/shopfloor/internal/model"

// startNextIfPossible pops the queue head into currentJob when the
// machine is idle and runnable (spec.md §4.3). current_format reflects
// the format of the last *completed* job, not the one now entering
// setup — it only advances on completion (timeengine.go), which is why
// the setup lookup here uses the stale currentFormat on purpose.
// Caller must hold mu.
func (e *Engine) startNextIfPossible() {
	if e.currentJob != nil || e.isDown || !e.isRunning || len(e.queue) == 0 {
		return
	}
	wo := e.queue[0]
	e.queue = e.queue[1:]

	e.currentJob = &model.CurrentJob{
		Order:                 wo,
		RemainingSetupMin:     e.setup.Lookup(e.currentFormat, wo.Format),
		RemainingWorkNominMin: wo.NominalDurationMin,
		WorkAcc:               0,
	}
}
