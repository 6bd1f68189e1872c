package metrics

import "github.com/prometheus/client_golang/prometheus"

// collaboratorMetrics implements resilience.Observer for the OCR, LLM and
// NATS calls made by a process.
type collaboratorMetrics struct {
	service      string
	retriesTotal *prometheus.CounterVec
	breakerOpen  *prometheus.GaugeVec
}

func newCollaboratorMetrics(service string, registry *prometheus.Registry) collaboratorMetrics {
	retriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "collaborator",
			Name:      "retries_total",
			Help:      "Retried collaborator calls by operation.",
		},
		[]string{"service", "operation"},
	)
	breakerOpen := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "heritage",
			Subsystem: "collaborator",
			Name:      "circuit_open",
			Help:      "1 while the circuit breaker of an operation is open.",
		},
		[]string{"service", "operation"},
	)
	registry.MustRegister(retriesTotal, breakerOpen)
	return collaboratorMetrics{service: service, retriesTotal: retriesTotal, breakerOpen: breakerOpen}
}

func (m collaboratorMetrics) RetryAttempt(operation string) {
	m.retriesTotal.WithLabelValues(m.service, operation).Inc()
}

func (m collaboratorMetrics) BreakerStateChanged(operation, state string) {
	value := 0.0
	if state == "open" {
		value = 1
	}
	m.breakerOpen.WithLabelValues(m.service, operation).Set(value)
}
