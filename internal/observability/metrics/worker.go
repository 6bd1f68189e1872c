package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// WorkerMetrics records asynchronous NIGO processing.
type WorkerMetrics struct {
	collaboratorMetrics

	registry *prometheus.Registry

	processDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	queueLag        prometheus.Histogram
	results         *prometheus.CounterVec
	findings        *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()
	serviceLabel := prometheus.Labels{"service": service}

	m := &WorkerMetrics{
		collaboratorMetrics: newCollaboratorMetrics(service, registry),
		registry:            registry,
		processDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "heritage",
			Subsystem:   "worker",
			Name:        "document_process_duration_seconds",
			Help:        "Document processing duration by outcome; the count is the number of processed documents.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			ConstLabels: serviceLabel,
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "heritage",
			Subsystem:   "worker",
			Name:        "document_process_in_flight",
			Help:        "Documents currently being processed.",
			ConstLabels: serviceLabel,
		}),
		queueLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "heritage",
			Subsystem:   "worker",
			Name:        "queue_lag_seconds",
			Help:        "Delay between publishing an ingest event and its delivery.",
			Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
			ConstLabels: serviceLabel,
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "heritage",
			Subsystem:   "worker",
			Name:        "nigo_results_total",
			Help:        "Processed documents by NIGO status and confidence tier.",
			ConstLabels: serviceLabel,
		}, []string{"nigo_status", "tier"}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "heritage",
			Subsystem:   "worker",
			Name:        "findings_total",
			Help:        "Compliance findings on processed documents by finding type and severity.",
			ConstLabels: serviceLabel,
		}, []string{"type", "severity"}),
	}

	registry.MustRegister(m.processDuration, m.inFlight, m.queueLag, m.results, m.findings)
	return m
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TrackDocument marks a document in flight. The returned func records the
// outcome and must be called exactly once.
func (m *WorkerMetrics) TrackDocument() func(err error) {
	m.inFlight.Inc()
	start := time.Now()
	return func(err error) {
		m.inFlight.Dec()
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		m.processDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

func (m *WorkerMetrics) RecordAnalysis(analysis domain.DocumentAnalysis) {
	m.results.WithLabelValues(string(analysis.Check.NIGOStatus), string(analysis.ConfidenceLevel)).Inc()
	for _, f := range analysis.Check.Errors {
		m.findings.WithLabelValues(string(f.Kind), string(f.Severity)).Inc()
	}
}

// ObserveQueueLag matches nats.Options.OnLag.
func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.Observe(lag.Seconds())
}
