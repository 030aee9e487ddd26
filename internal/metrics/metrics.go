package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Canvas API metrics
	CanvasRequestsTotal   *prometheus.CounterVec
	CanvasDurationSeconds *prometheus.HistogramVec

	// LLM metrics
	LLMRequestsTotal   *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// Turn metrics
	TurnsTotal          *prometheus.CounterVec
	TurnDurationSeconds *prometheus.HistogramVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Storage gauges
	StoredTokens        prometheus.Gauge
	StoredConversations prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		CanvasRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "canvas_api_requests_total",
				Help: "Total number of Canvas API requests by endpoint and status",
			},
			[]string{"endpoint", "status"}, // status: success, error, unauthorized, not_found, rate_limited
		),

		CanvasDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "canvas_api_duration_seconds",
				Help:    "Canvas API request duration in seconds by endpoint",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15}, // matches 15s request timeout
			},
			[]string{"endpoint"},
		),

		LLMRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by kind and status",
			},
			[]string{"kind", "status"}, // kind: classify, render
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_duration_seconds",
				Help:    "LLM request duration in seconds by kind",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"kind"},
		),

		TurnsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_turns_total",
				Help: "Total number of processed turns by action and status",
			},
			[]string{"action", "status"}, // status: success, missing_credential, course_not_found, panic
		),

		TurnDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agent_turn_duration_seconds",
				Help:    "End-to-end turn processing duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"action"},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total HTTP errors by type and route",
			},
			[]string{"error_type", "route"},
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limiter_dropped_total",
				Help: "Total requests dropped by the per-user rate limiter",
			},
			[]string{"limiter"},
		),

		StoredTokens: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "stored_canvas_tokens",
				Help: "Number of Canvas credentials currently stored",
			},
		),

		StoredConversations: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "stored_conversations",
				Help: "Number of conversation rows currently stored",
			},
		),
	}
}

// RecordCanvasRequest records a Canvas API request with its duration
func (m *Metrics) RecordCanvasRequest(endpoint, status string, duration float64) {
	m.CanvasRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.CanvasDurationSeconds.WithLabelValues(endpoint).Observe(duration)
}

// RecordLLMRequest records an LLM request with its duration
func (m *Metrics) RecordLLMRequest(kind, status string, duration float64) {
	m.LLMRequestsTotal.WithLabelValues(kind, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(kind).Observe(duration)
}

// RecordTurn records a processed conversation turn
func (m *Metrics) RecordTurn(action, status string, duration float64) {
	m.TurnsTotal.WithLabelValues(action, status).Inc()
	m.TurnDurationSeconds.WithLabelValues(action).Observe(duration)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(errorType, route string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, route).Inc()
}

// RecordRateLimiterDrop records a dropped request
func (m *Metrics) RecordRateLimiterDrop(limiter string) {
	m.RateLimiterDropped.WithLabelValues(limiter).Inc()
}

// SetStoredTokens updates the stored credential gauge
func (m *Metrics) SetStoredTokens(count int) {
	m.StoredTokens.Set(float64(count))
}

// SetStoredConversations updates the stored conversation gauge
func (m *Metrics) SetStoredConversations(count int) {
	m.StoredConversations.Set(float64(count))
}
