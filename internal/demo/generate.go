// Package demo generates deterministic synthetic shop-floor data for
// local testing and demos, grounded on the original prototype's
// generate_file.py CONFIG-driven generator (SPEC_FULL.md §4.11):
// a day of work orders across a handful of formats, a shift schedule,
// scattered micro/major breakdowns (each followed by its own
// BREAKDOWN_END), a speed-drift window, and a couple of urgent-order
// injections biased toward same-day due dates.
package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

// Config mirrors generate_file.py's CONFIG dict.
type Config struct {
	Seed            int64
	DayStart        time.Time
	Formats         []string
	NumWorkOrders   int
	NumMicroBreaks  int
	NumMajorBreaks  int
	NumUrgentOrders int
	ShiftStartHour  int
	ShiftEndHour    int
}

// DefaultConfig is a reasonable single-shift day with three formats.
func DefaultConfig(dayStart time.Time) Config {
	return Config{
		Seed:            42,
		DayStart:        dayStart,
		Formats:         []string{"FMT_A", "FMT_B", "FMT_C"},
		NumWorkOrders:   12,
		NumMicroBreaks:  3,
		NumMajorBreaks:  1,
		NumUrgentOrders: 2,
		ShiftStartHour:  6,
		ShiftEndHour:    22,
	}
}

// Generated bundles everything a demo run needs.
type Generated struct {
	Pool   []model.WorkOrder
	Setup  *model.SetupMatrix
	Events []model.IncomingEvent
}

// Generate produces a full synthetic day from cfg. Identical cfg always
// produces identical output (Seed drives the only source of
// randomness), so demos are reproducible across runs.
func Generate(cfg Config) Generated {
	rng := rand.New(rand.NewSource(cfg.Seed))

	setup := buildSetupMatrix(cfg.Formats, rng)
	pool := buildWorkOrders(cfg, rng)
	events := buildEvents(cfg, rng)

	return Generated{Pool: pool, Setup: setup, Events: events}
}

func buildSetupMatrix(formats []string, rng *rand.Rand) *model.SetupMatrix {
	sm := model.NewSetupMatrix()
	for _, from := range formats {
		for _, to := range formats {
			if from == to {
				sm.Set(from, to, 0)
				continue
			}
			sm.Set(from, to, 15+rng.Intn(46)) // 15-60 min changeovers
		}
	}
	return sm
}

func buildWorkOrders(cfg Config, rng *rand.Rand) []model.WorkOrder {
	shiftStart := cfg.DayStart.Add(time.Duration(cfg.ShiftStartHour) * time.Hour)

	orders := make([]model.WorkOrder, 0, cfg.NumWorkOrders)
	createdAt := cfg.DayStart

	for i := 0; i < cfg.NumWorkOrders; i++ {
		format := cfg.Formats[rng.Intn(len(cfg.Formats))]
		qty := 200 + rng.Intn(800)
		rate := 50 + rng.Intn(150)
		durationMin := qty * 60 / rate
		dueOffsetHours := 4 + rng.Intn(36)

		orders = append(orders, model.WorkOrder{
			OFID:               fmt.Sprintf("OF-%04d", i+1),
			Product:            fmt.Sprintf("PROD-%s", format),
			Format:             format,
			CreatedAt:          createdAt,
			DueDate:            shiftStart.Add(time.Duration(dueOffsetHours) * time.Hour),
			Priority:           1 + rng.Intn(5),
			Qty:                qty,
			NominalRateUPerH:   rate,
			NominalDurationMin: durationMin,
		})

		// spread creation times across the day so admission is exercised,
		// not just a single big-bang pool load
		createdAt = createdAt.Add(time.Duration(10+rng.Intn(50)) * time.Minute)
	}
	return orders
}

func buildEvents(cfg Config, rng *rand.Rand) []model.IncomingEvent {
	shiftStart := cfg.DayStart.Add(time.Duration(cfg.ShiftStartHour) * time.Hour)
	shiftEnd := cfg.DayStart.Add(time.Duration(cfg.ShiftEndHour) * time.Hour)
	shiftSpanMin := int(shiftEnd.Sub(shiftStart).Minutes())

	var events []model.IncomingEvent

	events = append(events, mkIncoming(shiftStart, model.ShiftStart, ""))
	events = append(events, mkIncoming(shiftEnd, model.ShiftStop, ""))

	for i := 0; i < cfg.NumMicroBreaks; i++ {
		at := shiftStart.Add(time.Duration(rng.Intn(shiftSpanMin)) * time.Minute)
		dur := 2 + rng.Intn(8) // 2-10 min micro stop
		events = append(events, mkIncoming(at, model.BreakdownStart, "micro_stop"))
		events = append(events, mkIncoming(at.Add(time.Duration(dur)*time.Minute), model.BreakdownEnd, ""))
	}

	for i := 0; i < cfg.NumMajorBreaks; i++ {
		at := shiftStart.Add(time.Duration(rng.Intn(shiftSpanMin)) * time.Minute)
		dur := 45 + rng.Intn(90) // 45-134 min major breakdown, cascades a replan
		events = append(events, mkIncoming(at, model.BreakdownStart, "major_breakdown"))
		events = append(events, mkIncoming(at.Add(time.Duration(dur)*time.Minute), model.BreakdownEnd, ""))
	}

	// one speed-drift window per day
	driftAt := shiftStart.Add(time.Duration(rng.Intn(shiftSpanMin)) * time.Minute)
	events = append(events, mkIncoming(driftAt, model.SpeedChange, fmt.Sprintf("%.2f", 0.7+rng.Float64()*0.5)))
	events = append(events, mkIncoming(driftAt.Add(30*time.Minute), model.SpeedChange, "1.0"))

	for i := 0; i < cfg.NumUrgentOrders; i++ {
		at := shiftStart.Add(time.Duration(rng.Intn(shiftSpanMin)) * time.Minute)
		format := cfg.Formats[rng.Intn(len(cfg.Formats))]
		qty := 100 + rng.Intn(300)
		rate := 80 + rng.Intn(120)
		durationMin := qty * 60 / rate
		// urgent orders are biased toward same-day due dates, same as
		// the original generator's urgent-order injection.
		due := at.Add(time.Duration(2+rng.Intn(6)) * time.Hour)

		payload := fmt.Sprintf(
			"of_id=URG-%04d;format=%s;qty=%d;nominal_rate=%d;duration_min=%d;due=%s;priority=9",
			i+1, format, qty, rate, durationMin, due.Format("2006-01-02T15:04"),
		)
		events = append(events, mkIncoming(at, model.UrgentOrder, payload))
	}

	return events
}

func mkIncoming(at time.Time, t model.EventType, value string) model.IncomingEvent {
	return model.IncomingEvent{
		ReceiveTime: at,
		Event:       model.Event{Timestamp: at, Type: t, Value: value},
		Source:      "demo_generator",
	}
}
