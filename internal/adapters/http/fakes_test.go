package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type analyzerFake struct {
	err        error
	transcript domain.Transcript
	file       domain.File
}

func (f *analyzerFake) AnalyzeTranscript(_ context.Context, t domain.Transcript) (*domain.DocumentAnalysis, error) {
	f.transcript = t
	if f.err != nil {
		return nil, f.err
	}
	return &domain.DocumentAnalysis{
		ExtractedText: t.Text,
		Check: domain.CheckResult{
			Errors:          []domain.Finding{domain.NewFinding(domain.KindMissingField, "ssn", domain.SeverityHigh, "SSN missing")},
			ConfidenceScore: 92.3,
			TotalChecks:     13,
			PassedChecks:    12,
			NIGOStatus:      domain.NIGOStatusNIGO,
		},
		ConfidenceLevel:   domain.TierYellow,
		Review:            domain.ReviewAssisted,
		TotalAccountValue: 250000,
	}, nil
}

func (f *analyzerFake) AnalyzeFile(ctx context.Context, file domain.File) (*domain.DocumentAnalysis, error) {
	f.file = file
	return f.AnalyzeTranscript(ctx, domain.Transcript{Text: string(file.Data)})
}

type ingestFake struct{}

func (ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}
	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_form.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type docsFake struct {
	err error
}

func (f docsFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, Filename: "form.txt", Status: domain.StatusReady}, nil
}

type portfoliosFake struct {
	err     error
	modelID string
}

func (f *portfoliosFake) UploadStatement(_ context.Context, file domain.File) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Case{ID: "case-1", SourceDocument: file.Name, Portfolio: domain.Portfolio{TotalValue: 250000}}, nil
}

func (f *portfoliosFake) ExtractPortfolio(_ context.Context, file domain.File) (*domain.Portfolio, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Portfolio{TotalValue: 250000, SourceFile: file.Name}, nil
}

func (f *portfoliosFake) Summarize(_ context.Context, p domain.Portfolio, modelID string) (*domain.PortfolioSummary, error) {
	f.modelID = modelID
	if f.err != nil {
		return nil, f.err
	}
	return &domain.PortfolioSummary{Summary: "ok", TotalValue: p.TotalValue, ConfidenceLevel: domain.TierGreen}, nil
}

func (f *portfoliosFake) GetCase(_ context.Context, id string) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Case{ID: id}, nil
}

type goalsFake struct {
	err    error
	caseID string
	req    domain.BudgetRequest
}

func (f *goalsFake) PlanForCase(_ context.Context, caseID string, req domain.BudgetRequest) (domain.BudgetPlan, error) {
	f.caseID = caseID
	f.req = req
	if f.err != nil {
		return domain.BudgetPlan{}, f.err
	}
	total := 100000.0
	if req.TotalAccountValue != nil {
		total = *req.TotalAccountValue
	}
	return domain.BudgetPlan{TotalAccountValue: total, BudgetUsed: total / 2, BudgetRemaining: total / 2}, nil
}

func (f *goalsFake) SubmitQuiz(_ context.Context, answers []domain.QuizAnswer, _ string) (domain.QuizResult, error) {
	if len(answers) == 0 {
		return domain.QuizResult{}, domain.WrapError(domain.ErrInvalidInput, "submit quiz", errors.New("no answers"))
	}
	return domain.QuizResult{SelectedGoals: []domain.GoalType{domain.GoalRetirement}}, nil
}

type mentorFake struct{}

func (mentorFake) Explain(_ context.Context, concept, _ string) (domain.Explanation, error) {
	return domain.Explanation{Concept: concept, Explanation: "explained"}, nil
}

type testRouter struct {
	analyzer   *analyzerFake
	portfolios *portfoliosFake
	goals      *goalsFake
	handler    http.Handler
}

func newTestRouter(t *testing.T, cfg config.Config, mutate func(*Services)) *testRouter {
	t.Helper()
	tr := &testRouter{
		analyzer:   &analyzerFake{},
		portfolios: &portfoliosFake{},
		goals:      &goalsFake{},
	}
	svc := Services{
		Analyzer:   tr.analyzer,
		Ingestor:   ingestFake{},
		Documents:  docsFake{},
		Portfolios: tr.portfolios,
		Goals:      tr.goals,
		Mentor:     mentorFake{},
	}
	if mutate != nil {
		mutate(&svc)
	}
	router, err := NewRouter(cfg, svc)
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	tr.handler = router.Handler()
	return tr
}
