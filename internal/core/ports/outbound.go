package ports

import (
	"context"
	"io"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, analysis domain.DocumentAnalysis) error
}

// CaseRepository persists portfolio cases keyed by case id.
type CaseRepository interface {
	SaveCase(ctx context.Context, c *domain.Case) error
	GetCase(ctx context.Context, id string) (*domain.Case, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns an uploaded file into a transcript.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.File) (domain.Transcript, error)
}

// OCRService reads text blocks out of scanned images and PDFs.
type OCRService interface {
	Analyze(ctx context.Context, file domain.File) ([]domain.OCRBlock, error)
}

// StatementParser reads holdings from structured statement formats. It
// returns domain.ErrUnsupportedFormat for files it does not understand.
type StatementParser interface {
	ParsePortfolio(ctx context.Context, file domain.File) (*domain.Portfolio, error)
}

// Narrator produces generated prose for portfolios and financial concepts.
type Narrator interface {
	SummarizePortfolio(ctx context.Context, portfolio domain.Portfolio, modelID string) (string, error)
	ExplainConcept(ctx context.Context, concept, userContext string) (string, error)
}
