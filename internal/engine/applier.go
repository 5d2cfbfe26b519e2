package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

// applyResult reports what mutation (if any) took place so handle.go can
// journal it and decide whether to consult the replanner.
type applyResult struct {
	applied              bool
	rejectReason         string
	breakdownDurationMin int
	hasBreakdownDuration bool
}

// applyEvent performs the state mutation for a single event at the
// engine's current now, per the table in spec.md §4.4. Caller must hold
// mu and must have already advanced/refreshed as needed.
func (e *Engine) applyEvent(ev model.Event) applyResult {
	switch ev.Type {
	case model.ShiftStart:
		e.isRunning = true
		return applyResult{applied: true}

	case model.ShiftStop:
		e.isRunning = false
		return applyResult{applied: true}

	case model.SpeedChange:
		v, err := strconv.ParseFloat(strings.TrimSpace(ev.Value), 64)
		if err != nil || v <= 0 {
			return applyResult{applied: false, rejectReason: "invalid speed_change value"}
		}
		e.speedFactor = v
		return applyResult{applied: true}

	case model.UrgentOrder:
		wo, err := parseUrgentOrder(ev.Value, e.now)
		if err != nil {
			return applyResult{applied: false, rejectReason: err.Error()}
		}
		e.queue = append(e.queue, wo)
		sortQueue(e.queue)
		return applyResult{applied: true}

	case model.BreakdownStart:
		e.isDown = true
		if e.downStartTime == nil {
			t := e.now
			e.downStartTime = &t
			e.downReason = ev.Value
		}
		return applyResult{applied: true}

	case model.BreakdownEnd:
		e.isDown = false
		if e.downStartTime == nil {
			return applyResult{applied: true, breakdownDurationMin: 0, hasBreakdownDuration: true}
		}
		dur := int(e.now.Sub(*e.downStartTime).Minutes())
		if dur < 0 {
			dur = 0
		}
		e.lastBreakdownDurationMin = dur
		e.downStartTime = nil
		e.downReason = ""
		return applyResult{applied: true, breakdownDurationMin: dur, hasBreakdownDuration: true}

	default:
		// Unknown event type: spec.md §9 flags the source's "status=ok,
		// no mutation" handling as likely a bug. We follow the REDESIGN
		// FLAG and record it as ignored with an explicit reason instead
		// of silently tolerating it (see DESIGN.md).
		return applyResult{applied: false, rejectReason: "unknown_type"}
	}
}

// parseUrgentOrder parses the "k=v;..." payload grammar (spec.md §6).
// Required keys: of_id, format, qty, nominal_rate, duration_min, due.
// Optional: priority (default 5). Unknown keys are tolerated, not
// rejected — spec.md §9 documents this as the source's (possibly
// unintentional) behavior, preserved here rather than tightened.
func parseUrgentOrder(payload string, now time.Time) (model.WorkOrder, error) {
	fields := map[string]string{}
	for _, part := range strings.Split(payload, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		fields[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	required := []string{"of_id", "format", "qty", "nominal_rate", "duration_min", "due"}
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			return model.WorkOrder{}, fmt.Errorf("urgent order payload missing key %q", k)
		}
	}

	qty, err := strconv.Atoi(fields["qty"])
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("urgent order qty %q: %w", fields["qty"], err)
	}
	rate, err := strconv.Atoi(fields["nominal_rate"])
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("urgent order nominal_rate %q: %w", fields["nominal_rate"], err)
	}
	durationMin, err := strconv.Atoi(fields["duration_min"])
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("urgent order duration_min %q: %w", fields["duration_min"], err)
	}
	due, err := time.Parse("2006-01-02T15:04", fields["due"])
	if err != nil {
		return model.WorkOrder{}, fmt.Errorf("urgent order due %q: %w", fields["due"], err)
	}

	priority := 5
	if p, ok := fields["priority"]; ok {
		if v, err := strconv.Atoi(p); err == nil {
			priority = v
		}
	}

	return model.WorkOrder{
		OFID:               fields["of_id"],
		Product:            fields["of_id"],
		Format:             fields["format"],
		CreatedAt:          now,
		DueDate:            due,
		Priority:           priority,
		Qty:                qty,
		NominalRateUPerH:   rate,
		NominalDurationMin: durationMin,
	}, nil
}
