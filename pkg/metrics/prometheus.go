// Package metrics provides Prometheus metrics for the Mainstage portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "mainstage"
	subsystem = "portal"
)

// Custom registry to avoid the default Go collector noise.
var registry = prometheus.NewRegistry()

var (
	recordWrites = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "record_writes_total",
		Help:      "Total committed team record writes by sub-path",
	}, []string{"path"})

	writeConflicts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "write_conflicts_total",
		Help:      "Total optimistic-concurrency conflicts on team record writes",
	})

	fanoutDeliveries = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "announcement_fanout_total",
		Help:      "Per-team announcement fan-out outcomes",
	}, []string{"result"})

	feedDeliveries = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feed_deliveries_total",
		Help:      "Total live-feed snapshots delivered to subscribers",
	})

	feedCoalesced = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feed_coalesced_total",
		Help:      "Snapshots superseded before delivery to a slow subscriber",
	})

	queryDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "query_duration_milliseconds",
		Help:      "Histogram of SQL query durations in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	}, []string{"op"})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method and status class",
	}, []string{"method", "status"})
)

// RecordWrite counts a committed team record write for the given sub-path
// (record, schedule, techVideo, information, locations, announcements).
func RecordWrite(path string) {
	recordWrites.WithLabelValues(path).Inc()
}

// RecordWriteConflict counts a CAS conflict.
func RecordWriteConflict() {
	writeConflicts.Inc()
}

// RecordFanout counts one announcement fan-out outcome ("ok" or "partial").
func RecordFanout(result string) {
	fanoutDeliveries.WithLabelValues(result).Inc()
}

// RecordFeedDelivery counts a snapshot delivered to a subscriber.
func RecordFeedDelivery() {
	feedDeliveries.Inc()
}

// RecordFeedCoalesced counts a snapshot superseded before delivery.
func RecordFeedCoalesced() {
	feedCoalesced.Inc()
}

// RecordQueryDuration records an SQL query duration in milliseconds.
func RecordQueryDuration(op string, ms float64) {
	queryDuration.WithLabelValues(op).Observe(ms)
}

// RecordHTTPRequest counts an HTTP request by method and status class.
func RecordHTTPRequest(method, status string) {
	httpRequests.WithLabelValues(method, status).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
