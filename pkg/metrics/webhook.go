package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records Stripe webhook handling by event type and outcome.
type WebhookMetrics struct {
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stripe_webhook_duration_seconds",
		Help:    "Time spent handling verified Stripe webhook events.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stripe_webhook_events_total",
		Help: "Stripe webhook deliveries by event type and outcome.",
	}, []string{"event_type", "outcome"})
	reg.MustRegister(duration, events)
	return &WebhookMetrics{
		duration: duration,
		events:   events,
	}
}

// Observe records one handled delivery.
func (m *WebhookMetrics) Observe(eventType, outcome string, duration time.Duration) {
	if m == nil || m.events == nil {
		return
	}
	eventType = normalizeLabel(eventType)
	m.events.WithLabelValues(eventType, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(eventType).Observe(duration.Seconds())
}

// IncRejected counts deliveries refused before an event type is known
// (missing or invalid signature).
func (m *WebhookMetrics) IncRejected(reason string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues("unverified", normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
