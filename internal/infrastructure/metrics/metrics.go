package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Generation calls by mode and provider
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "generations_total",
			Help:      "Total content generation requests",
		},
		[]string{"mode", "provider", "status"},
	)

	// Upstream inference duration
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "upstream_duration_seconds",
			Help:      "Upstream provider call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "provider_errors_total",
			Help:      "Total upstream provider call failures",
		},
		[]string{"provider"},
	)

	// Credential verification attempts
	KeyVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "key_verifications_total",
			Help:      "API key verification attempts",
		},
		[]string{"status"},
	)

	// Credentials issued
	KeysIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "keys_issued_total",
			Help:      "API keys issued",
		},
		[]string{"plan", "source"},
	)

	// Stripe webhook deliveries
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "webhook_events_total",
			Help:      "Billing webhook deliveries by outcome",
		},
		[]string{"event_type", "outcome"},
	)

	// Rewritten tree fields per request
	RewriteFieldsPerRequest = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cg",
			Subsystem: "api",
			Name:      "rewrite_fields_per_request",
			Help:      "Distribution of rewritten fields per tree request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)
)

// RecordRequest records an HTTP request with its duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordGeneration records one generation call outcome
func RecordGeneration(mode, provider, status string) {
	GenerationsTotal.WithLabelValues(mode, provider, status).Inc()
}

// RecordUpstreamDuration records the duration of an upstream provider call
func RecordUpstreamDuration(provider, model string, durationSec float64) {
	UpstreamDuration.WithLabelValues(provider, model).Observe(durationSec)
}

// RecordProviderError records an upstream provider failure
func RecordProviderError(provider string) {
	ProviderErrorsTotal.WithLabelValues(provider).Inc()
}

// RecordKeyVerification records a verification attempt outcome
func RecordKeyVerification(ok bool) {
	status := "invalid"
	if ok {
		status = "valid"
	}
	KeyVerificationsTotal.WithLabelValues(status).Inc()
}

// RecordKeyIssued records a credential issuance
func RecordKeyIssued(plan, source string) {
	KeysIssuedTotal.WithLabelValues(plan, source).Inc()
}

// RecordWebhookEvent records a webhook delivery outcome
func RecordWebhookEvent(eventType, outcome string) {
	WebhookEventsTotal.WithLabelValues(eventType, outcome).Inc()
}
