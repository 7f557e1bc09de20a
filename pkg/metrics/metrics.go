package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =====================================================
// HTTP
// =====================================================

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booka_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booka_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// envelope code per endpoint, 0 is success
	EnvelopeCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booka_api_envelope_codes_total",
			Help: "Response envelope codes returned per endpoint",
		},
		[]string{"endpoint", "code"},
	)
)

// =====================================================
// RECOMMENDER
// =====================================================

var (
	RecommenderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booka_recommender_requests_total",
			Help: "Recommender calls by relation and outcome",
		},
		[]string{"relation", "outcome"},
	)

	RecommenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booka_recommender_request_duration_seconds",
			Help:    "Recommender call latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
		[]string{"relation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "booka_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booka_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordEnvelope(endpoint string, code int) {
	EnvelopeCodes.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

func RecordRecommenderCall(relation, outcome string, duration time.Duration) {
	RecommenderRequests.WithLabelValues(relation, outcome).Inc()
	RecommenderDuration.WithLabelValues(relation).Observe(duration.Seconds())
}
