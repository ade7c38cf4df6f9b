package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics counts relay outcomes per event type.
type OutboxMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	parked    *prometheus.CounterVec
}

func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	m := &OutboxMetrics{
		published: counterVec("outbox", "published_total", "Outbox events delivered to the broker.", "event_type"),
		failed:    counterVec("outbox", "publish_failures_total", "Publish attempts that will be retried.", "event_type"),
		parked:    counterVec("outbox", "parked_total", "Events given up on after decode errors or max attempts.", "event_type"),
	}
	reg.MustRegister(m.published, m.failed, m.parked)
	return m
}

func (m *OutboxMetrics) IncPublished(eventType string) { m.inc(m.published, eventType) }
func (m *OutboxMetrics) IncFailed(eventType string)    { m.inc(m.failed, eventType) }
func (m *OutboxMetrics) IncParked(eventType string)    { m.inc(m.parked, eventType) }

func (m *OutboxMetrics) inc(vec *prometheus.CounterVec, eventType string) {
	if m == nil || vec == nil {
		return
	}
	vec.WithLabelValues(normalizeLabel(eventType)).Inc()
}
