package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

var cannedExplanations = map[string]string{
	"diversification": "Diversification is like not putting all your eggs in one basket. In your portfolio, you have different types of investments (stocks, bonds, cash) so that if one performs poorly, others can help balance it out. This reduces your overall risk while still allowing for growth.",
	"risk tolerance":  "Risk tolerance is how comfortable you are with the possibility of losing money in exchange for potential gains. Conservative investors prefer stability, while aggressive investors are willing to take more risk for higher returns. Your portfolio should match your personal risk tolerance.",
	"large cap value": "Large Cap Value stocks are shares of big, established companies that are considered undervalued. Think of companies like Coca-Cola or Johnson & Johnson - they're stable, pay dividends, and are less volatile than growth stocks. In your portfolio, this provides steady growth and income.",
}

// MentorUseCase explains financial concepts, using the narrator when one is
// configured and a fixed glossary otherwise.
type MentorUseCase struct {
	narrator ports.Narrator
}

func NewMentorUseCase(narrator ports.Narrator) *MentorUseCase {
	return &MentorUseCase{narrator: narrator}
}

func (uc *MentorUseCase) Explain(ctx context.Context, concept, userContext string) (domain.Explanation, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return domain.Explanation{}, domain.WrapError(domain.ErrInvalidInput, "explain concept", errors.New("concept is required"))
	}

	if uc.narrator != nil {
		text, err := uc.narrator.ExplainConcept(ctx, concept, userContext)
		if err == nil && strings.TrimSpace(text) != "" {
			return domain.Explanation{Concept: concept, Explanation: text, Generated: true}, nil
		}
		if err != nil {
			slog.WarnContext(ctx, "mentor_explanation_fallback", "concept", concept, "error", err.Error())
		}
	}

	text, ok := cannedExplanations[strings.ToLower(concept)]
	if !ok {
		text = "**" + concept + "** is an important financial concept. In the context of your portfolio, it relates to how your investments are structured and managed. Ask your advisor for an explanation tailored to your specific holdings."
	}
	return domain.Explanation{Concept: concept, Explanation: text}, nil
}
