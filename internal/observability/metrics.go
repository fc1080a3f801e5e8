package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	attendanceEventsTotal *prometheus.CounterVec
	mirrorSyncTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "attendance_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		attendanceEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_events_total",
			Help: "Attendance ledger writes by subject kind and result.",
		}, []string{"kind", "result"})

		mirrorSyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_mirror_sync_total",
			Help: "External ledger mirror calls by operation and status.",
		}, []string{"operation", "status"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			attendanceEventsTotal,
			mirrorSyncTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AttendanceEvents exposes the counter for ledger writes.
func AttendanceEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceEventsTotal
}

// MirrorSync exposes the counter for mirror calls.
func MirrorSync() *prometheus.CounterVec {
	RegisterMetrics()
	return mirrorSyncTotal
}
