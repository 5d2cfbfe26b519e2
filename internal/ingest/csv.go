// Package ingest loads the CSV formats described in SPEC_FULL.md §4.10
// (work orders, setup matrix, and event logs) and writes work orders and
// event logs back out.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/lineforge/shopfloor/internal/model"
)

const timeLayout = "2006-01-02T15:04"

// LoadWorkOrders reads a work_orders.csv with header:
// of_id,product,format,created_at,due_date,priority,qty,nominal_rate,nominal_duration_min
func LoadWorkOrders(path string) ([]model.WorkOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open work orders: %w", err)
	}
	defer f.Close()
	return ReadWorkOrders(f)
}

// ReadWorkOrders parses the same layout from an arbitrary reader.
func ReadWorkOrders(r io.Reader) ([]model.WorkOrder, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "of_id", "product", "format", "created_at", "due_date", "priority", "qty", "nominal_rate", "nominal_duration_min")
	if err != nil {
		return nil, err
	}

	orders := make([]model.WorkOrder, 0, len(rows))
	for i, row := range rows {
		createdAt, err := time.Parse(timeLayout, row[idx["created_at"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d created_at: %w", i, err)
		}
		dueDate, err := time.Parse(timeLayout, row[idx["due_date"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d due_date: %w", i, err)
		}
		priority, err := strconv.Atoi(row[idx["priority"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d priority: %w", i, err)
		}
		qty, err := strconv.Atoi(row[idx["qty"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d qty: %w", i, err)
		}
		rate, err := strconv.Atoi(row[idx["nominal_rate"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d nominal_rate: %w", i, err)
		}
		durMin, err := strconv.Atoi(row[idx["nominal_duration_min"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d nominal_duration_min: %w", i, err)
		}

		orders = append(orders, model.WorkOrder{
			OFID:               row[idx["of_id"]],
			Product:            row[idx["product"]],
			Format:             row[idx["format"]],
			CreatedAt:          createdAt,
			DueDate:            dueDate,
			Priority:           priority,
			Qty:                qty,
			NominalRateUPerH:   rate,
			NominalDurationMin: durMin,
		})
	}
	return orders, nil
}

// LoadSetupMatrix reads a setup_matrix.csv with header: from,to,minutes.
func LoadSetupMatrix(path string) (*model.SetupMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open setup matrix: %w", err)
	}
	defer f.Close()
	return ReadSetupMatrix(f)
}

// ReadSetupMatrix parses the same layout from an arbitrary reader.
func ReadSetupMatrix(r io.Reader) (*model.SetupMatrix, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "from", "to", "minutes")
	if err != nil {
		return nil, err
	}

	sm := model.NewSetupMatrix()
	for i, row := range rows {
		minutes, err := strconv.Atoi(row[idx["minutes"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d minutes: %w", i, err)
		}
		sm.Set(row[idx["from"]], row[idx["to"]], minutes)
	}
	return sm, nil
}

// LoadEvents reads an events.csv with header: timestamp,type,value and
// returns them as Events ready to feed into handle_event/handle_incoming.
func LoadEvents(path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open events: %w", err)
	}
	defer f.Close()
	return ReadEvents(f)
}

// ReadEvents parses the same layout from an arbitrary reader.
func ReadEvents(r io.Reader) ([]model.Event, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, "timestamp", "type", "value")
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(timeLayout, row[idx["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d timestamp: %w", i, err)
		}
		events = append(events, model.Event{
			Timestamp: ts,
			Type:      model.EventType(row[idx["type"]]),
			Value:     row[idx["value"]],
		})
	}
	return events, nil
}

// WriteWorkOrders writes orders to a work_orders.csv-formatted writer,
// the inverse of ReadWorkOrders.
func WriteWorkOrders(w io.Writer, orders []model.WorkOrder) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"of_id", "product", "format", "created_at", "due_date", "priority", "qty", "nominal_rate", "nominal_duration_min"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, wo := range orders {
		row := []string{
			wo.OFID,
			wo.Product,
			wo.Format,
			wo.CreatedAt.Format(timeLayout),
			wo.DueDate.Format(timeLayout),
			strconv.Itoa(wo.Priority),
			strconv.Itoa(wo.Qty),
			strconv.Itoa(wo.NominalRateUPerH),
			strconv.Itoa(wo.NominalDurationMin),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteEvents writes events to an events.csv-formatted writer.
func WriteEvents(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"timestamp", "type", "value"}); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{ev.Timestamp.Format(timeLayout), string(ev.Type), ev.Value}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

func readCSV(r io.Reader) (rows [][]string, header []string, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("ingest: empty csv")
	}
	return records[1:], records[0], nil
}

func columnIndex(header []string, want ...string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	idx := make(map[string]int, len(want))
	for _, name := range want {
		i, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("ingest: missing required column %q", name)
		}
		idx[name] = i
	}
	return idx, nil
}
