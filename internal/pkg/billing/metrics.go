package billing

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeProcessed = "processed"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the billing counters. A nil *Metrics records nothing.
type Metrics struct {
	webhookEvents   *prometheus.CounterVec
	reconciliations *prometheus.CounterVec
}

// NewMetrics creates the billing counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		webhookEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "subfox",
				Name:      "webhook_events_total",
				Help:      "Webhook events by event type and outcome",
			},
			[]string{"type", "outcome"},
		),
		reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "subfox",
				Name:      "reconciliations_total",
				Help:      "Subscription reconciliations by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.webhookEvents, m.reconciliations)
	return m
}

func (m *Metrics) webhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	switch {
	case eventType == "":
		eventType = "unknown"
	case !IsRelevantEvent(eventType):
		eventType = "other"
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) reconciliation(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = errorKind(err)
	}
	m.reconciliations.WithLabelValues(result).Inc()
}
