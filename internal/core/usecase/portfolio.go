package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/goals"
	"github.com/heritagehub/heritage-hub/internal/core/hitl"
	"github.com/heritagehub/heritage-hub/internal/core/money"
	"github.com/heritagehub/heritage-hub/internal/core/portfolio"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

// PortfolioUseCase turns uploaded statements into cases with goal cards.
type PortfolioUseCase struct {
	extractor  ports.TextExtractor
	statements ports.StatementParser
	narrator   ports.Narrator
	cases      ports.CaseRepository
	storage    ports.ObjectStorage
	parser     *portfolio.Extractor
	now        func() time.Time
}

// PortfolioDeps lists the collaborators of PortfolioUseCase. Statements,
// Narrator and Storage are optional.
type PortfolioDeps struct {
	Extractor  ports.TextExtractor
	Statements ports.StatementParser
	Narrator   ports.Narrator
	Cases      ports.CaseRepository
	Storage    ports.ObjectStorage
}

func NewPortfolioUseCase(deps PortfolioDeps) *PortfolioUseCase {
	return &PortfolioUseCase{
		extractor:  deps.Extractor,
		statements: deps.Statements,
		narrator:   deps.Narrator,
		cases:      deps.Cases,
		storage:    deps.Storage,
		parser:     portfolio.NewExtractor(nil),
		now:        time.Now,
	}
}

func (uc *PortfolioUseCase) UploadStatement(ctx context.Context, file domain.File) (*domain.Case, error) {
	if len(file.Data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload statement", errors.New("empty file"))
	}

	p, text, err := uc.readPortfolio(ctx, file)
	if err != nil {
		return nil, err
	}

	summary, err := uc.Summarize(ctx, *p, "")
	if err != nil {
		return nil, err
	}

	c := &domain.Case{
		ID:              uuid.NewString(),
		SourceDocument:  file.Name,
		Portfolio:       *p,
		ExtractedText:   text,
		Summary:         summary.Summary,
		GoalCards:       summary.GoalCards,
		ConfidenceLevel: summary.ConfidenceLevel,
		UploadedAt:      uc.now().UTC(),
	}

	if uc.storage != nil {
		c.StorageKey = storageKeyFor(c.ID, file.Name)
		if err := uc.storage.Save(ctx, c.StorageKey, bytes.NewReader(file.Data)); err != nil {
			return nil, fmt.Errorf("save statement: %w", err)
		}
	}

	if err := uc.cases.SaveCase(ctx, c); err != nil {
		return nil, fmt.Errorf("save case: %w", err)
	}
	return c, nil
}

// ExtractPortfolio reads holdings out of a statement without persisting a case.
func (uc *PortfolioUseCase) ExtractPortfolio(ctx context.Context, file domain.File) (*domain.Portfolio, error) {
	if len(file.Data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract portfolio", errors.New("empty file"))
	}
	p, _, err := uc.readPortfolio(ctx, file)
	return p, err
}

// readPortfolio prefers structured statements and falls back to text
// extraction.
func (uc *PortfolioUseCase) readPortfolio(ctx context.Context, file domain.File) (*domain.Portfolio, string, error) {
	if uc.statements != nil {
		p, err := uc.statements.ParsePortfolio(ctx, file)
		switch {
		case err == nil:
			return p, "", nil
		case !domain.IsKind(err, domain.ErrUnsupportedFormat):
			return nil, "", fmt.Errorf("parse statement: %w", err)
		}
	}

	transcript, err := uc.extractor.Extract(ctx, file)
	if err != nil {
		return nil, "", fmt.Errorf("extract text: %w", err)
	}
	p, err := uc.parser.Extract(transcript.Text, file.Name)
	if err != nil {
		return nil, transcript.Text, err
	}
	return p, transcript.Text, nil
}

// Summarize narrates the portfolio and builds its goal cards. A failing or
// absent narrator falls back to the deterministic translation.
func (uc *PortfolioUseCase) Summarize(ctx context.Context, p domain.Portfolio, modelID string) (*domain.PortfolioSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.TotalValue == 0 {
		p.TotalValue = p.HoldingsValue()
	}

	tier := hitl.PortfolioTier(len(p.Holdings))
	out := &domain.PortfolioSummary{
		ConfidenceLevel: tier,
		Review:          hitl.Review(tier),
		TotalValue:      p.TotalValue,
	}

	if uc.narrator != nil {
		narrative, err := uc.narrator.SummarizePortfolio(ctx, p, modelID)
		if err == nil && strings.TrimSpace(narrative) != "" {
			out.Summary = narrative
			out.GoalCards = goals.TranslateNarrative(narrative, p)
			out.Generated = true
			return out, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "portfolio_narrative_fallback", "error", err.Error())
		}
	}

	out.Summary = fallbackSummary(p.TotalValue)
	out.GoalCards = goals.Translate(p)
	return out, nil
}

func (uc *PortfolioUseCase) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	c, err := uc.cases.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("fetch case by id: %w", err)
	}
	return c, nil
}

func fallbackSummary(total float64) string {
	return "This portfolio has a total value of " + money.Format(total) +
		". Below are your personalized Goal Cards that translate each holding into understandable goals."
}
