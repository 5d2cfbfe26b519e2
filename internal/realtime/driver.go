// Package realtime implements the compressed-time driver of spec.md
// §4.9: a wall-clock ticker that advances a live engine's simulated time
// faster (or slower) than real time, broadcasting periodic snapshots
// over a websocket hub adapted from the teacher's metrics broadcaster.
package realtime

import (
	"sync"
	"time"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/model"
)

// HourlyReport is a snapshot captured at each simulated hour boundary.
type HourlyReport struct {
	SimHour int             `json:"sim_hour"`
	At      time.Time       `json:"at"`
	State   engine.Snapshot `json:"state"`
}

// Config tunes the wall-clock-to-simulated-time mapping (spec.md §4.9).
type Config struct {
	SimMinPerTick  float64       // simulated minutes advanced per tick
	TickInterval   time.Duration // wall-clock interval between ticks
	ReportEveryMin int           // simulated minutes between hub broadcasts
}

// DefaultConfig advances one simulated minute per real second, matching
// spec.md §4.9's sim_min_per_sec=1 example.
func DefaultConfig() Config {
	return Config{
		SimMinPerTick:  1,
		TickInterval:   time.Second,
		ReportEveryMin: 60,
	}
}

// Driver runs the compressed-time loop against a live engine.
type Driver struct {
	mu      sync.Mutex
	e       *engine.Engine
	hub     *Hub
	cfg     Config
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	acc          float64
	simMinutes   int
	lastHourMark int
	reports      []HourlyReport
	startedAt    time.Time
}

// NewDriver wires a driver to an engine and a broadcast hub.
func NewDriver(e *engine.Engine, hub *Hub, cfg Config) *Driver {
	return &Driver{e: e, hub: hub, cfg: cfg}
}

// Start begins the ticking loop. A synthetic SHIFT_START event is
// applied first so a driver started against a freshly-loaded, idle
// engine begins producing immediately (SPEC_FULL.md §4.9, supplemented
// from the original prototype's realtime bootstrap).
func (d *Driver) Start() bool {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return false
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.startedAt = time.Now()
	d.acc = 0
	d.simMinutes = 0
	d.lastHourMark = 0
	d.reports = nil
	d.mu.Unlock()

	d.e.HandleEvent(model.Event{Timestamp: d.e.GetState().Now, Type: model.ShiftStart})

	go d.run()
	return true
}

// Stop halts the ticking loop and blocks until it has exited.
func (d *Driver) Stop() bool {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return false
	}
	close(d.stopCh)
	d.mu.Unlock()

	<-d.doneCh

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
	return true
}

// IsRunning reports whether the driver's loop is currently active.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Reports returns the hourly snapshots captured so far.
func (d *Driver) Reports() []HourlyReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]HourlyReport(nil), d.reports...)
}

func (d *Driver) run() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopCh:
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

// tick advances simulated time by a whole number of minutes, carrying
// any fractional remainder forward (spec.md §4.9's fractional
// accumulator, mirroring the work-phase accumulator in the time engine
// itself).
func (d *Driver) tick() {
	d.mu.Lock()
	d.acc += d.cfg.SimMinPerTick
	whole := int(d.acc)
	d.acc -= float64(whole)
	d.mu.Unlock()

	if whole <= 0 {
		return
	}

	cur := d.e.GetState().Now
	next := cur.Add(time.Duration(whole) * time.Minute)
	d.e.SetTime(next)

	d.mu.Lock()
	d.simMinutes += whole
	reportEvery := d.cfg.ReportEveryMin
	if reportEvery <= 0 {
		reportEvery = 60
	}
	hourMark := d.simMinutes / reportEvery
	firstMark := d.lastHourMark + 1
	if hourMark > d.lastHourMark {
		d.lastHourMark = hourMark
	}
	d.mu.Unlock()

	if hourMark < firstMark {
		return
	}
	// One report per boundary crossed by this tick's advance.
	snap := d.e.GetState()
	for mark := firstMark; mark <= hourMark; mark++ {
		report := HourlyReport{SimHour: mark, At: snap.Now, State: snap}
		d.mu.Lock()
		d.reports = append(d.reports, report)
		d.mu.Unlock()
		if d.hub != nil {
			d.hub.Broadcast(report)
		}
	}
}
