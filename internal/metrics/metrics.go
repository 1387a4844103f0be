// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitgrid_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HabitEventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitgrid_habit_events_total",
			Help: "Habit events written, by action (increment, decrement).",
		},
		[]string{"action"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitgrid_store_errors_total",
			Help: "Failed store operations surfaced by the habit engine, by kind.",
		},
		[]string{"kind"},
	)

	SessionsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habitgrid_sessions_purged_total",
			Help: "Expired sessions removed by the cleanup loop.",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habitgrid_websocket_clients",
			Help: "Currently connected websocket clients.",
		},
	)
)

// ObserveRequest records one finished HTTP request. route should be the mux
// pattern, not the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func RecordEvent(action string) {
	HabitEventsRecorded.WithLabelValues(action).Inc()
}

func RecordStoreError(kind string) {
	StoreErrors.WithLabelValues(kind).Inc()
}
