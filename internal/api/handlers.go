package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lineforge/shopfloor/internal/daysim"
	"github.com/lineforge/shopfloor/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.GetState())
}

type setTimeRequest struct {
	Target time.Time `json:"target"`
}

func (s *Server) handlePostTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req setTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.breakerGuard(w, func() {
		now := s.eng.SetTime(req.Target)
		writeJSON(w, http.StatusOK, map[string]time.Time{"now": now})
	})
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := parseLimit(r, 0)
	writeJSON(w, http.StatusOK, s.eng.GetPlanPreview(limit))
}

func (s *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.breakerGuard(w, func() {
		entry := s.eng.HandleEvent(ev)
		s.recordEntry(r, entry)
		writeJSON(w, http.StatusOK, entry)
	})
}

type incomingEventRequest struct {
	ReceiveTime time.Time   `json:"receive_time"`
	Event       model.Event `json:"event"`
	Source      string      `json:"source"`
}

func (s *Server) handlePostIncomingEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req incomingEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.breakerGuard(w, func() {
		entry := s.eng.HandleIncoming(req.ReceiveTime, req.Event, req.Source)
		s.recordEntry(r, entry)
		writeJSON(w, http.StatusOK, entry)
	})
}

func (s *Server) handleGetEventLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := parseLimit(r, 100)
	writeJSON(w, http.StatusOK, s.eng.GetEventLog(limit))
}

type simulateDayRequest struct {
	DayStart       time.Time              `json:"day_start"`
	DayEnd         time.Time              `json:"day_end"`
	Incoming       []model.IncomingEvent  `json:"incoming"`
	ReportEveryMin int                    `json:"report_every_min"`
}

func (s *Server) handlePostSimulateDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req simulateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := daysim.SimulateDay(s.eng, req.DayStart, req.DayEnd, req.Incoming, req.ReportEveryMin)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePostRealtimeStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.driver == nil {
		http.Error(w, "realtime driver not configured", http.StatusNotImplemented)
		return
	}
	started := s.driver.Start()
	if s.metrics != nil {
		if started {
			s.metrics.RealtimeRunning.Set(1)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"started": started})
}

func (s *Server) handlePostRealtimeStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.driver == nil {
		http.Error(w, "realtime driver not configured", http.StatusNotImplemented)
		return
	}
	stopped := s.driver.Stop()
	if s.metrics != nil && stopped {
		s.metrics.RealtimeRunning.Set(0)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"stopped": stopped})
}

func (s *Server) handleGetRealtimeState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.driver == nil {
		http.Error(w, "realtime driver not configured", http.StatusNotImplemented)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running": s.driver.IsRunning(),
		"state":   s.eng.GetState(),
	})
}

func (s *Server) handleGetRealtimeReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.driver == nil {
		http.Error(w, "realtime driver not configured", http.StatusNotImplemented)
		return
	}
	writeJSON(w, http.StatusOK, s.driver.Reports())
}

func (s *Server) recordEntry(r *http.Request, entry model.JournalEntry) {
	if s.journal != nil {
		_ = s.journal.Append(r.Context(), entry)
	}
	if s.metrics != nil {
		s.metrics.ObserveJournalEntry(string(entry.Type), string(entry.Status), entry.Reason)
		s.metrics.QueueLength.Set(float64(len(s.eng.GetState().Queue)))
		if entry.Replanned {
			s.metrics.ReplanAccepted.Inc()
		}
	}
}

func parseLimit(r *http.Request, def int) int {
	q := r.URL.Query().Get("limit")
	if q == "" {
		return def
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 0 {
		return def
	}
	return n
}
