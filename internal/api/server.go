// Package api exposes the scheduling engine over HTTP per SPEC_FULL.md
// §4.12: state/time/plan/event endpoints backed by internal/engine,
// day simulation backed by internal/daysim, and a compressed-time
// realtime driver with a websocket telemetry stream backed by
// internal/realtime.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lineforge/shopfloor/internal/engine"
	"github.com/lineforge/shopfloor/internal/observability"
	"github.com/lineforge/shopfloor/internal/realtime"
	"github.com/lineforge/shopfloor/internal/store"
)

// Server wires the engine and its supporting infrastructure behind an
// http.Handler.
type Server struct {
	eng     *engine.Engine
	hub     *realtime.Hub
	driver  *realtime.Driver
	metrics *observability.Metrics
	journal store.JournalArchive
	cache   store.SnapshotCache
	breaker *CircuitBreaker
}

// NewServer builds a Server around an already-constructed engine. hub
// and driver are optional (nil disables /realtime/* and the websocket
// stream); journal and cache default to in-memory implementations when
// nil, matching the teacher's "degrade, don't refuse to start" pattern.
func NewServer(eng *engine.Engine, hub *realtime.Hub, driver *realtime.Driver, metrics *observability.Metrics, journal store.JournalArchive, cache store.SnapshotCache) *Server {
	if journal == nil {
		journal = store.NewMemoryJournal()
	}
	if cache == nil {
		cache = store.NewMemorySnapshotCache()
	}
	return &Server{
		eng:     eng,
		hub:     hub,
		driver:  driver,
		metrics: metrics,
		journal: journal,
		cache:   cache,
		breaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

// Routes builds the full mux with middleware applied, the same
// http.HandleFunc-based routing (no router library) the teacher uses.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/state", s.handleGetState)
	mux.HandleFunc("/time", s.handlePostTime)
	mux.HandleFunc("/plan", s.handleGetPlan)
	mux.HandleFunc("/events", s.handlePostEvent)
	mux.HandleFunc("/events/incoming", s.handlePostIncomingEvent)
	mux.HandleFunc("/events/log", s.handleGetEventLog)
	mux.HandleFunc("/simulate/day", s.handlePostSimulateDay)
	mux.HandleFunc("/realtime/start", s.handlePostRealtimeStart)
	mux.HandleFunc("/realtime/stop", s.handlePostRealtimeStop)
	mux.HandleFunc("/realtime/state", s.handleGetRealtimeState)
	mux.HandleFunc("/realtime/reports", s.handleGetRealtimeReports)
	if s.hub != nil {
		mux.HandleFunc("/realtime/stream", s.hub.ServeWS)
	}
	mux.Handle("/metrics", promhttp.Handler())

	var h http.Handler = mux
	h = chain(h, loggingMiddleware, corsMiddleware, rateLimitMiddleware(20, 40))
	return h
}

func (s *Server) breakerGuard(w http.ResponseWriter, fn func()) {
	if !s.breaker.Allow() {
		http.Error(w, "service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}
	fn()
	s.breaker.RecordResult(true)
}
