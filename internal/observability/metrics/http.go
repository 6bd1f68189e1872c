package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type HTTPServerMetrics struct {
	collaboratorMetrics

	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	checksTotal       *prometheus.CounterVec
	findingsTotal     *prometheus.CounterVec
	tiersTotal        *prometheus.CounterVec
	narrativesTotal   *prometheus.CounterVec
	budgetAllocations *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "heritage",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	checksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "nigo",
			Name:      "checks_total",
			Help:      "Completed document checks by NIGO status.",
		},
		[]string{"service", "nigo_status"},
	)
	findingsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "nigo",
			Name:      "findings_total",
			Help:      "Compliance findings by field and severity.",
		},
		[]string{"service", "field", "severity"},
	)
	tiersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "hitl",
			Name:      "tiers_total",
			Help:      "Confidence tiers assigned by subject.",
		},
		[]string{"service", "subject", "tier"},
	)
	narrativesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "heritage",
			Subsystem: "bridge",
			Name:      "summaries_total",
			Help:      "Portfolio summaries by source (generated or fallback).",
		},
		[]string{"service", "source"},
	)
	budgetAllocations := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "heritage",
			Subsystem: "goals",
			Name:      "budget_used_ratio",
			Help:      "Share of the account value allocated by the goal generator.",
			Buckets:   []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		checksTotal,
		findingsTotal,
		tiersTotal,
		narrativesTotal,
		budgetAllocations,
	)

	return &HTTPServerMetrics{
		collaboratorMetrics: newCollaboratorMetrics(service, registry),
		registry:            registry,
		requestTotal:        requestTotal,
		requestDuration:     requestDuration,
		requestInFlight:     requestInFlight,
		checksTotal:         checksTotal,
		findingsTotal:       findingsTotal,
		tiersTotal:          tiersTotal,
		narrativesTotal:     narrativesTotal,
		budgetAllocations:   budgetAllocations,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := RoutePattern(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RoutePattern collapses ids in a request path into a low-cardinality label.
func RoutePattern(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/") && path != "/v1/documents/analyze":
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/cases/") && strings.HasSuffix(path, "/goals"):
		return "/v1/cases/{case_id}/goals"
	case strings.HasPrefix(path, "/v1/cases/"):
		return "/v1/cases/{case_id}"
	default:
		return path
	}
}

// RecordCheck counts one document check with its findings and tier.
func (m *HTTPServerMetrics) RecordCheck(service string, analysis domain.DocumentAnalysis) {
	m.checksTotal.WithLabelValues(service, string(analysis.Check.NIGOStatus)).Inc()
	for _, f := range analysis.Check.Errors {
		m.findingsTotal.WithLabelValues(service, f.Field, string(f.Severity)).Inc()
	}
	m.tiersTotal.WithLabelValues(service, "document", string(analysis.ConfidenceLevel)).Inc()
}

func (m *HTTPServerMetrics) RecordPortfolioSummary(service string, summary domain.PortfolioSummary) {
	source := "fallback"
	if summary.Generated {
		source = "generated"
	}
	m.narrativesTotal.WithLabelValues(service, source).Inc()
	m.tiersTotal.WithLabelValues(service, "portfolio", string(summary.ConfidenceLevel)).Inc()
}

func (m *HTTPServerMetrics) RecordBudgetPlan(service string, plan domain.BudgetPlan) {
	if plan.TotalAccountValue <= 0 {
		return
	}
	m.budgetAllocations.WithLabelValues(service).Observe(plan.BudgetUsed / plan.TotalAccountValue)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
