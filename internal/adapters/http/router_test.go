package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/observability/metrics"
)

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func multipartRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestRouter(t, config.Config{DemoMode: true, StoreDriver: config.StoreSQLite}, nil).handler

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/health", nil))
	body := decodeBody(t, res)
	if body["demo_mode"] != true || body["store"] != "sqlite" || body["async_ingest"] != true {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestAnalyzeDocumentFromTranscript(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := doJSON(t, tr.handler, http.MethodPost, "/v1/documents/analyze",
		`{"blocks":[{"block_type":"LINE","text":"SSN: 123-45-6789"}]}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if len(tr.analyzer.transcript.Blocks) != 1 {
		t.Fatalf("expected blocks forwarded, got %+v", tr.analyzer.transcript)
	}

	body := decodeBody(t, res)
	if body["status"] != "success" || body["nigo_status"] != "NIGO" || body["confidence_level"] != "YELLOW" {
		t.Fatalf("unexpected response: %+v", body)
	}
	findings, ok := body["nigo_errors"].([]any)
	if !ok || len(findings) != 1 {
		t.Fatalf("expected one finding, got %+v", body["nigo_errors"])
	}
	if body["total_account_value"] != 250000.0 {
		t.Fatalf("unexpected total: %v", body["total_account_value"])
	}
}

func TestAnalyzeDocumentFromUpload(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/documents/analyze", "form.txt", []byte("Signature: J. Doe")))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if tr.analyzer.file.Name != "form.txt" || string(tr.analyzer.file.Data) != "Signature: J. Doe" {
		t.Fatalf("unexpected file forwarded: %+v", tr.analyzer.file)
	}
}

func TestAnalyzeDocumentRejectsBadPayloads(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := doJSON(t, tr.handler, http.MethodPost, "/v1/documents/analyze", `{"blocks":[{"text":"no type"}]}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("schema violation expected 400, got %d", res.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/analyze", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	res = httptest.NewRecorder()
	tr.handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("missing multipart file expected 400, got %d", res.Code)
	}
}

func TestAnalyzeDocumentMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: domain.WrapError(domain.ErrInvalidInput, "check", errors.New("empty")), want: http.StatusBadRequest},
		{name: "unsupported", err: domain.WrapError(domain.ErrUnsupportedFormat, "extract", errors.New("binary")), want: http.StatusUnsupportedMediaType},
		{name: "temporary", err: domain.WrapError(domain.ErrTemporary, "ocr", errors.New("down")), want: http.StatusServiceUnavailable},
		{name: "internal", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(t, config.Config{}, nil)
			tr.analyzer.err = tt.err

			res := doJSON(t, tr.handler, http.MethodPost, "/v1/documents/analyze", `{"text":"hello"}`)
			if res.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, res.Code)
			}
			body := decodeBody(t, res)
			if tt.want == http.StatusInternalServerError && body["error"] != "internal server error" {
				t.Fatalf("internal errors must not leak detail: %+v", body)
			}
			if body["request_id"] == "" {
				t.Fatalf("expected request id in error body")
			}
		})
	}
}

func TestUploadDocumentQueuesDocument(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/documents", "form.txt", []byte("hello")))
	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["id"] != "doc-1" || body["status"] != "uploaded" {
		t.Fatalf("unexpected response: %+v", body)
	}
}

func TestUploadDocumentRejectsOversizedFile(t *testing.T) {
	tr := newTestRouter(t, config.Config{APIMaxUploadBytes: 64}, nil)

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/documents/analyze", "form.txt", bytes.Repeat([]byte("a"), 1024)))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAsyncRoutesUnavailableWithoutIngest(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, func(s *Services) {
		s.Ingestor = nil
		s.Documents = nil
	})

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/documents", "form.txt", []byte("hello")))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestGetDocumentReturns404ForNotFound(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, func(s *Services) {
		s.Documents = docsFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))}
	})

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestUploadStatementCreatesCase(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/portfolios", "statement.pdf", []byte("%PDF")))
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["case_id"] != "case-1" {
		t.Fatalf("unexpected response: %+v", body)
	}

	tr.portfolios.err = domain.WrapError(domain.ErrNoPortfolioData, "extract", errors.New("no values"))
	res = httptest.NewRecorder()
	tr.handler.ServeHTTP(res, multipartRequest(t, "/v1/portfolios", "statement.pdf", []byte("%PDF")))
	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestSummarizePortfolio(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := doJSON(t, tr.handler, http.MethodPost, "/v1/portfolios/summarize",
		`{"portfolio_data":{"total_value":1000,"holdings":[{"name":"Roth IRA","value":1000}]},"model_id":"llama3.2"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if tr.portfolios.modelID != "llama3.2" {
		t.Fatalf("expected model id forwarded, got %q", tr.portfolios.modelID)
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/portfolios/summarize",
		`{"portfolio_data":{"holdings":[{"value":-5}]}}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("negative holding expected 400, got %d", res.Code)
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/portfolios/summarize", `{}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("missing portfolio_data expected 400, got %d", res.Code)
	}
}

func TestGetCaseReturns404ForNotFound(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)
	tr.portfolios.err = domain.WrapError(domain.ErrCaseNotFound, "get case", errors.New("id=nope"))

	res := httptest.NewRecorder()
	tr.handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/cases/nope", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestPlanGoals(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := doJSON(t, tr.handler, http.MethodPost, "/v1/cases/case-9/goals",
		`{"total_account_value":5000,"selected_goals":["retirement"]}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if tr.goals.caseID != "case-9" || tr.goals.req.TotalAccountValue == nil || *tr.goals.req.TotalAccountValue != 5000 {
		t.Fatalf("unexpected request forwarded: %s %+v", tr.goals.caseID, tr.goals.req)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/cases/case-9/goals", nil)
	res = httptest.NewRecorder()
	tr.handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("empty body expected 200, got %d", res.Code)
	}
	if tr.goals.req.TotalAccountValue != nil {
		t.Fatalf("expected stored case value to be used")
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/cases/case-9/goals", `{"total_account_value":-1}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("negative budget expected 400, got %d", res.Code)
	}
}

func TestSubmitQuizAndMentor(t *testing.T) {
	tr := newTestRouter(t, config.Config{}, nil)

	res := doJSON(t, tr.handler, http.MethodPost, "/v1/quiz/submit",
		`{"answers":[{"question_id":1,"selected":["retirement"]}],"risk_tolerance":"moderate"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/quiz/submit", `{"answers":[]}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("empty answers expected 400, got %d", res.Code)
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/mentor/explain", `{"concept":"Roth IRA"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if body := decodeBody(t, res); body["concept"] != "Roth IRA" {
		t.Fatalf("unexpected response: %+v", body)
	}

	res = doJSON(t, tr.handler, http.MethodPost, "/v1/mentor/explain", `{"context":"none"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("missing concept expected 400, got %d", res.Code)
	}
}

func TestMetricsEndpointExposesCheckCounters(t *testing.T) {
	tr := &testRouter{analyzer: &analyzerFake{}}
	router, err := NewRouter(config.Config{}, Services{Analyzer: tr.analyzer}, WithMetrics(metrics.NewHTTPServerMetrics("api")))
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	handler := router.Handler()

	if res := doJSON(t, handler, http.MethodPost, "/v1/documents/analyze", `{"text":"hello"}`); res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, `heritage_nigo_checks_total{nigo_status="NIGO",service="api"} 1`) {
		t.Fatalf("expected check counter in metrics output")
	}
	if !strings.Contains(body, `path="/v1/documents/analyze"`) {
		t.Fatalf("expected request counter for analyze route")
	}
}
