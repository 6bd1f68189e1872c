package ports

import (
	"context"
	"io"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// DocumentAnalyzer runs the synchronous NIGO check on a document.
type DocumentAnalyzer interface {
	AnalyzeTranscript(ctx context.Context, transcript domain.Transcript) (*domain.DocumentAnalysis, error)
	AnalyzeFile(ctx context.Context, file domain.File) (*domain.DocumentAnalysis, error)
}

// DocumentIngestor is the inbound contract for asynchronous document upload.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

type PortfolioService interface {
	UploadStatement(ctx context.Context, file domain.File) (*domain.Case, error)
	ExtractPortfolio(ctx context.Context, file domain.File) (*domain.Portfolio, error)
	Summarize(ctx context.Context, portfolio domain.Portfolio, modelID string) (*domain.PortfolioSummary, error)
	GetCase(ctx context.Context, caseID string) (*domain.Case, error)
}

type GoalPlanner interface {
	PlanForCase(ctx context.Context, caseID string, req domain.BudgetRequest) (domain.BudgetPlan, error)
	SubmitQuiz(ctx context.Context, answers []domain.QuizAnswer, riskTolerance string) (domain.QuizResult, error)
}

type Mentor interface {
	Explain(ctx context.Context, concept, userContext string) (domain.Explanation, error)
}
