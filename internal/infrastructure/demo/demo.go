// Package demo provides offline stand-ins for the OCR and text generation
// collaborators so the service runs without external credentials.
package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/goals"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

const statementTemplate = `Portfolio Statement for Sample Client
Date: %s
Account Summary:
- Roth IRA: $125,000.00
Holdings: Large Cap Value, Bonds, ETFs
- Traditional IRA: $75,000.00
Holdings: Large Cap Value, Bonds
- Brokerage Account: $50,000.00
Holdings: Stocks, ETFs
Total Portfolio Value: $250,000.00`

const formTranscript = `New Account Application
Name: John Doe
Account Number: 123456789
Physical Address: 100 Main Street
Occupation: Nurse
Account Type: Individual Brokerage
Investment Objective: Growth
Signature: [Present]`

// OCR returns a fixed statement for files that look like statements and a
// sample onboarding form for everything else.
type OCR struct {
	now func() time.Time
}

func NewOCR() *OCR {
	return &OCR{now: time.Now}
}

func (o *OCR) Analyze(ctx context.Context, file domain.File) ([]domain.OCRBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := formTranscript
	name := strings.ToLower(file.Name)
	if strings.Contains(name, "statement") || strings.Contains(name, "portfolio") {
		text = fmt.Sprintf(statementTemplate, o.now().Format("2006-01-02"))
	}

	blocks := []domain.OCRBlock{{BlockType: "PAGE", Confidence: 99}}
	for _, line := range strings.Split(text, "\n") {
		blocks = append(blocks, domain.OCRBlock{BlockType: "LINE", Text: line, Confidence: 99})
	}
	return blocks, nil
}

// Narrator answers with the deterministic goal cards wrapped in the same
// JSON envelope a language model is asked to produce.
type Narrator struct{}

func NewNarrator() *Narrator {
	return &Narrator{}
}

func (Narrator) SummarizePortfolio(_ context.Context, p domain.Portfolio, _ string) (string, error) {
	payload := struct {
		Summary   string            `json:"summary"`
		GoalCards []domain.GoalCard `json:"goal_cards"`
	}{
		Summary: fmt.Sprintf("This portfolio is worth %s across %d holdings. Each Goal Card below explains what a holding is for and what to do next.",
			money.Format(p.TotalValue), len(p.Holdings)),
		GoalCards: goals.Translate(p),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal demo narrative: %w", err)
	}
	return string(data), nil
}

func (Narrator) ExplainConcept(_ context.Context, concept, _ string) (string, error) {
	return fmt.Sprintf("**%s** (demo explanation): in live mode a tutor explains this concept using your own holdings.", concept), nil
}
