package goals

import (
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

const (
	RiskConservative = "conservative"
	RiskAggressive   = "aggressive"
)

// PersonalizedCatalog returns the fixed planning checklist: the base cards,
// a risk-specific strategy card for conservative or aggressive investors,
// then the tax and estate cards.
func PersonalizedCatalog(riskTolerance string) []domain.PlannedGoal {
	set := loadTemplates().Personalized
	cards := make([]domain.PlannedGoal, 0, len(set.Base)+1+len(set.Always))
	for _, t := range set.Base {
		cards = append(cards, t.card())
	}
	if t, ok := set.Risk[strings.ToLower(strings.TrimSpace(riskTolerance))]; ok {
		cards = append(cards, t.card())
	}
	for _, t := range set.Always {
		cards = append(cards, t.card())
	}
	return cards
}
