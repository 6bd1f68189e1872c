package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/compliance"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/hitl"
	"github.com/heritagehub/heritage-hub/internal/core/portfolio"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

// AnalyzeDocumentUseCase runs the NIGO rule battery, the review tier and the
// account value estimate over one document.
type AnalyzeDocumentUseCase struct {
	extractor ports.TextExtractor
	engine    *compliance.Engine
	now       func() time.Time
}

func NewAnalyzeDocumentUseCase(extractor ports.TextExtractor, engine *compliance.Engine) *AnalyzeDocumentUseCase {
	return &AnalyzeDocumentUseCase{
		extractor: extractor,
		engine:    engine,
		now:       time.Now,
	}
}

func (uc *AnalyzeDocumentUseCase) AnalyzeFile(ctx context.Context, file domain.File) (*domain.DocumentAnalysis, error) {
	transcript, err := uc.extractor.Extract(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return uc.AnalyzeTranscript(ctx, transcript)
}

func (uc *AnalyzeDocumentUseCase) AnalyzeTranscript(ctx context.Context, transcript domain.Transcript) (*domain.DocumentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := compliance.NewTranscript(transcript.Text, transcript.Blocks)
	result, err := uc.engine.Check(t)
	if err != nil {
		return nil, fmt.Errorf("check document: %w", err)
	}

	tier := hitl.DocumentTier(result)
	return &domain.DocumentAnalysis{
		ExtractedText:     t.Raw(),
		Check:             result,
		ConfidenceLevel:   tier,
		Review:            hitl.Review(tier),
		TotalAccountValue: portfolio.EstimateAccountValue(t.Raw()),
		AnalyzedAt:        uc.now().UTC(),
	}, nil
}
