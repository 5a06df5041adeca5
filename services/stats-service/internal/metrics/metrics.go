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
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	hitsRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_hits_recorded_total",
			Help: "Total number of endpoint hits stored, by app",
		},
		[]string{"app"},
	)

	statsQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_queries_total",
			Help: "Total number of aggregation queries, by unique mode",
		},
		[]string{"unique"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func RecordHit(app string) {
	hitsRecordedTotal.WithLabelValues(app).Inc()
}

func RecordStatsQuery(unique bool) {
	statsQueriesTotal.WithLabelValues(strconv.FormatBool(unique)).Inc()
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
