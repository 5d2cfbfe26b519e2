package ingest

import (
	"strings"
	"testing"
)

func TestReadWorkOrdersParsesRows(t *testing.T) {
	csvData := `of_id,product,format,created_at,due_date,priority,qty,nominal_rate,nominal_duration_min
OF1,PROD-A,A,2026-01-01T06:00,2026-01-01T18:00,3,500,100,300
`
	orders, err := ReadWorkOrders(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	if orders[0].OFID != "OF1" || orders[0].Priority != 3 || orders[0].Qty != 500 {
		t.Errorf("unexpected parsed order: %+v", orders[0])
	}
}

func TestReadWorkOrdersMissingColumnErrors(t *testing.T) {
	csvData := "of_id,product\nOF1,PROD-A\n"
	if _, err := ReadWorkOrders(strings.NewReader(csvData)); err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestReadSetupMatrixDefaultsUnknownPairToZero(t *testing.T) {
	csvData := "from,to,minutes\nA,B,25\n"
	sm, err := ReadSetupMatrix(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sm.Lookup("A", "B"); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
	if got := sm.Lookup("B", "A"); got != 0 {
		t.Errorf("expected unset pair to default to 0, got %d", got)
	}
}

func TestReadEventsParsesTypedTimestamps(t *testing.T) {
	csvData := "timestamp,type,value\n2026-01-01T06:00,SHIFT_START,\n"
	events, err := ReadEvents(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || string(events[0].Type) != "SHIFT_START" {
		t.Errorf("unexpected parsed events: %+v", events)
	}
}

func TestWriteWorkOrdersRoundTrips(t *testing.T) {
	csvData := `of_id,product,format,created_at,due_date,priority,qty,nominal_rate,nominal_duration_min
OF1,PROD-A,A,2026-01-01T06:00,2026-01-01T18:00,3,500,100,300
`
	orders, err := ReadWorkOrders(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf strings.Builder
	if err := WriteWorkOrders(&buf, orders); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	roundTripped, err := ReadWorkOrders(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("unexpected re-read error: %v", err)
	}
	if len(roundTripped) != 1 || roundTripped[0].OFID != "OF1" {
		t.Errorf("round trip mismatch: %+v", roundTripped)
	}
}
