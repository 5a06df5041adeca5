package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Business logic metrics
	participationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_participation_requests_total",
			Help: "Participation requests created, by initial status",
		},
		[]string{"status"},
	)

	requestCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ewm_participation_cancellations_total",
			Help: "Participation requests canceled by their requester",
		},
	)

	moderationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_moderation_outcomes_total",
			Help: "Requests confirmed or rejected through batch moderation",
		},
		[]string{"outcome"},
	)

	capacityDriftTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ewm_capacity_drift_total",
			Help: "Audits that found the confirmed counter out of line with a recount",
		},
	)

	statsFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_stats_failures_total",
			Help: "Failed calls to the stats service, by operation",
		},
		[]string{"op"},
	)

	outboxPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ewm_outbox_messages_total",
			Help: "Outbox relay results, by outcome",
		},
		[]string{"outcome"},
	)

	// Dependency health metrics
	dependencyHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_health",
			Help: "Health status of dependencies (1 = healthy, 0 = unhealthy)",
		},
		[]string{"dependency"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordRequestCreated(status string) {
	participationRequestsTotal.WithLabelValues(status).Inc()
}

func RecordRequestCanceled() {
	requestCancellationsTotal.Inc()
}

func RecordModeration(confirmed, rejected int) {
	moderationOutcomesTotal.WithLabelValues("confirmed").Add(float64(confirmed))
	moderationOutcomesTotal.WithLabelValues("rejected").Add(float64(rejected))
}

func RecordCapacityDrift() {
	capacityDriftTotal.Inc()
}

func RecordStatsFailure(op string) {
	statsFailuresTotal.WithLabelValues(op).Inc()
}

func RecordOutbox(outcome string) {
	outboxPublishedTotal.WithLabelValues(outcome).Inc()
}

// SetDependencyHealth sets the health status of a dependency
func SetDependencyHealth(dependency string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	dependencyHealth.WithLabelValues(dependency).Set(value)
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
