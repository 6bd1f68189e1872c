package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/routers"

	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
	"github.com/heritagehub/heritage-hub/internal/observability/logging"
	"github.com/heritagehub/heritage-hub/internal/observability/metrics"
	"github.com/heritagehub/heritage-hub/internal/observability/tracing"
)

const serviceName = "api"

// Services are the inbound ports the router dispatches to. Ingestor and
// Documents may be nil when asynchronous ingest is disabled.
type Services struct {
	Analyzer   ports.DocumentAnalyzer
	Ingestor   ports.DocumentIngestor
	Documents  ports.DocumentReader
	Portfolios ports.PortfolioService
	Goals      ports.GoalPlanner
	Mentor     ports.Mentor
}

// Health describes how the process is wired, for the /health endpoint.
type Health struct {
	DemoMode    bool   `json:"demo_mode"`
	Store       string `json:"store"`
	AsyncIngest bool   `json:"async_ingest"`
	LLM         bool   `json:"llm"`
	OCR         bool   `json:"ocr"`
}

type Router struct {
	cfg      config.Config
	svc      Services
	health   Health
	metrics  *metrics.HTTPServerMetrics
	validate routers.Router
}

type Option func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) Option {
	return func(rt *Router) { rt.metrics = m }
}

func WithHealth(h Health) Option {
	return func(rt *Router) { rt.health = h }
}

func NewRouter(cfg config.Config, svc Services, opts ...Option) (*Router, error) {
	validate, err := loadOpenAPIRouter()
	if err != nil {
		return nil, err
	}
	rt := &Router{
		cfg:      cfg,
		svc:      svc,
		validate: validate,
		health: Health{
			DemoMode:    cfg.DemoMode,
			Store:       cfg.StoreDriver,
			AsyncIngest: svc.Ingestor != nil,
		},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /health", rt.healthDetails)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/documents/analyze", rt.analyzeDocument)
	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocument)

	mux.HandleFunc("POST /v1/portfolios", rt.uploadStatement)
	mux.HandleFunc("POST /v1/portfolios/summarize", rt.summarizePortfolio)
	mux.HandleFunc("GET /v1/cases/{id}", rt.getCase)
	mux.HandleFunc("POST /v1/cases/{id}/goals", rt.planGoals)

	mux.HandleFunc("POST /v1/quiz/submit", rt.submitQuiz)
	mux.HandleFunc("POST /v1/mentor/explain", rt.explainConcept)

	var handler http.Handler = mux
	handler = requestValidationMiddleware(rt.validate, handler)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = apiKeyMiddleware(rt.cfg.APIKey, handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = tracing.Middleware(metrics.RoutePattern, handler)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) healthDetails(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Health
	}{Status: "ok", Health: rt.health})
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to a status code. Internal failures are logged and
// reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "error", err.Error())
		message = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: message, RequestID: logging.RequestID(r.Context())})
}

func invalidInput(op, message string) error {
	return domain.WrapError(domain.ErrInvalidInput, op, errors.New(message))
}
