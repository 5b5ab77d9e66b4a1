package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	httpRequestsTotal        *prometheus.CounterVec
	httpLatencySeconds       *prometheus.HistogramVec
	contactSubmissionsTotal  *prometheus.CounterVec
	contactNotificationTotal *prometheus.CounterVec
	contactStoreReadFailures *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		contactSubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"})

		contactNotificationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_notifications_total",
			Help: "Operator notifications by delivery status.",
		}, []string{"status"})

		contactStoreReadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_store_read_failures_total",
			Help: "Contact store reads that failed and were degraded or surfaced.",
		}, []string{"operation"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			contactSubmissionsTotal,
			contactNotificationTotal,
			contactStoreReadFailures,
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

// ContactSubmissions counts submissions by outcome (accepted, invalid, spam, throttled, error).
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissionsTotal
}

// ContactNotifications counts notification deliveries (sent, failed, dropped).
func ContactNotifications() *prometheus.CounterVec {
	RegisterMetrics()
	return contactNotificationTotal
}

// ContactStoreReadFailures counts failed store reads by operation.
func ContactStoreReadFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return contactStoreReadFailures
}
