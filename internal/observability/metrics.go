// Package observability registers the prometheus metrics exposed by the
// HTTP server (SPEC_FULL.md §4.13), grounded on the teacher's
// observability/metrics.go promauto registration pattern.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every shopfloor_* series the server emits.
type Metrics struct {
	EventsTotal       *prometheus.CounterVec
	EventsIgnored     *prometheus.CounterVec
	ReplansTotal      *prometheus.CounterVec
	ReplanAccepted    prometheus.Counter
	QueueLength       prometheus.Gauge
	PoolLength        prometheus.Gauge
	DowntimeMinutes   prometheus.Counter
	ProducingMinutes  prometheus.Counter
	RealtimeRunning   prometheus.Gauge
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics registers every series against reg. Pass
// prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests so repeated registration never
// panics on duplicate collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfloor_events_total",
			Help: "Events processed by the engine, labeled by type and status.",
		}, []string{"type", "status"}),

		EventsIgnored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfloor_events_ignored_total",
			Help: "Events ignored by the engine, labeled by reason.",
		}, []string{"reason"}),

		ReplansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfloor_replans_total",
			Help: "Replan attempts, labeled by trigger event type.",
		}, []string{"trigger"}),

		ReplanAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopfloor_replans_accepted_total",
			Help: "Replan attempts whose candidate ordering was accepted.",
		}),

		QueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopfloor_queue_length",
			Help: "Current number of work orders admitted to the dispatch queue.",
		}),

		PoolLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopfloor_pool_length",
			Help: "Current number of work orders waiting in the not-yet-admitted pool.",
		}),

		DowntimeMinutes: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopfloor_downtime_minutes_total",
			Help: "Cumulative simulated minutes spent in a breakdown.",
		}),

		ProducingMinutes: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopfloor_producing_minutes_total",
			Help: "Cumulative simulated minutes spent actively producing.",
		}),

		RealtimeRunning: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopfloor_realtime_running",
			Help: "1 if the compressed-time realtime driver is running, else 0.",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopfloor_http_requests_total",
			Help: "HTTP requests served, labeled by route and status code.",
		}, []string{"route", "status"}),
	}
}

// ObserveJournalEntry updates the per-event counters from a processed
// journal entry.
func (m *Metrics) ObserveJournalEntry(eventType, status, reason string) {
	m.EventsTotal.WithLabelValues(eventType, status).Inc()
	if status == "ignored" && reason != "" {
		m.EventsIgnored.WithLabelValues(reason).Inc()
	}
}
