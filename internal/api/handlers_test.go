package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/model"
)

func newTestServer() (*Server, *engine.Engine) {
	now := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	eng := engine.New(now, nil, model.NewSetupMatrix(), engine.DefaultPolicies())
	srv := NewServer(eng, nil, nil, nil, nil, nil)
	return srv, eng
}

func TestHandleGetStateReturnsSnapshot(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var snap engine.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
}

func TestHandlePostEventAppliesShiftStart(t *testing.T) {
	srv, eng := newTestServer()

	body, _ := json.Marshal(model.Event{Timestamp: eng.GetState().Now, Type: model.ShiftStart})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !eng.GetState().IsRunning {
		t.Errorf("expected engine to be running after SHIFT_START")
	}
}

func TestHandlePostEventRejectsBadMethod(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestRealtimeEndpointsDisabledWithoutDriver(t *testing.T) {
	srv, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/realtime/start", nil)
	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 when no realtime driver is configured, got %d", w.Code)
	}
}
