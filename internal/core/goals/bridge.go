// Package goals turns portfolios and budgets into plain-language goal cards.
package goals

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

const (
	timelineShort  = "Short to Medium Term"
	timelineMedium = "Medium to Long Term (5-10 years)"
	timelineLong   = "Long Term (10+ years)"

	stepsGeneric = "Review allocation and ensure it aligns with your goals"
)

// bucket frames holdings whose name contains any of its keywords.
type bucket struct {
	keywords  []string
	title     func(name string) string
	purpose   string
	timeline  string
	nextSteps string
}

func fixedTitle(title string) func(string) string {
	return func(string) string { return title }
}

// buckets are tried in order; the last one matches every holding.
var buckets = []bucket{
	{
		keywords:  []string{"large cap", "value"},
		title:     fixedTitle("Home Downpayment Fund"),
		purpose:   "This {value} portion is designed to grow steadily over 5 years to help you achieve major goals like buying a home.",
		timeline:  timelineMedium,
		nextSteps: stepsGeneric,
	},
	{
		keywords:  []string{"bond"},
		title:     fixedTitle("Stability & Income Fund"),
		purpose:   "This {value} provides stability and regular income, acting as a safety net for your portfolio.",
		timeline:  timelineShort,
		nextSteps: "Understand current yield and maturity dates",
	},
	{
		keywords:  []string{"growth"},
		title:     fixedTitle("Future Generations Fund"),
		purpose:   "This {value} is positioned for long-term growth to benefit future generations.",
		timeline:  timelineLong,
		nextSteps: stepsGeneric,
	},
	{
		keywords:  []string{"index", "s&p"},
		title:     fixedTitle("Market Growth Fund"),
		purpose:   "This {value} tracks the overall market, providing diversification and broad market exposure.",
		timeline:  timelineMedium,
		nextSteps: stepsGeneric,
	},
	{
		keywords:  []string{"cash"},
		title:     fixedTitle("Immediate Needs Reserve"),
		purpose:   "This {value} holding is part of your diversified portfolio strategy.",
		timeline:  timelineShort,
		nextSteps: "Review with advisor about putting cash to work per LPL 2026 market outlook",
	},
	{
		title:     func(name string) string { return name + " - Investment Goal" },
		purpose:   "This {value} holding is part of your diversified portfolio strategy.",
		timeline:  timelineMedium,
		nextSteps: stepsGeneric,
	},
}

func bucketFor(name string) bucket {
	lower := strings.ToLower(name)
	for _, b := range buckets[:len(buckets)-1] {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b
			}
		}
	}
	return buckets[len(buckets)-1]
}

// Translate builds one goal card per holding and, when no holding is cash
// and the total exceeds the sum of holdings, a "Put Cash to Work" card for
// the gap.
func Translate(p domain.Portfolio) []domain.GoalCard {
	cards := make([]domain.GoalCard, 0, len(p.Holdings)+1)
	hasCash := false
	for _, h := range p.Holdings {
		name := h.Label()
		if strings.Contains(strings.ToLower(name), "cash") {
			hasCash = true
		}
		b := bucketFor(name)
		cards = append(cards, domain.GoalCard{
			Title:              b.title(name),
			HoldingDescription: name,
			Purpose:            strings.ReplaceAll(b.purpose, "{value}", money.Format(h.Value)),
			CurrentValue:       h.Value,
			Timeline:           b.timeline,
			NextSteps:          b.nextSteps,
		})
	}

	if gap := money.Round2(p.TotalValue - p.HoldingsValue()); !hasCash && p.TotalValue > 0 && gap > 0 {
		cards = append(cards, cashCard(gap))
	}
	return cards
}

func cashCard(gap float64) domain.GoalCard {
	return domain.GoalCard{
		Title:              "Put Cash to Work",
		HoldingDescription: "Cash Position: " + money.Format(gap),
		Purpose:            "LPL recommends putting excess cash to work in high-quality bonds or equities based on current market outlook.",
		CurrentValue:       gap,
		Timeline:           "Immediate",
		NextSteps:          "Consider moving excess cash into productive investments per LPL guidance",
	}
}

var structuredCards = regexp.MustCompile(`(?s)\{.*"goal_cards".*\}`)

// TranslateNarrative prefers a {"goal_cards": [...]} payload embedded in a
// generated narrative and falls back to Translate otherwise.
func TranslateNarrative(narrative string, p domain.Portfolio) []domain.GoalCard {
	if raw := structuredCards.FindString(narrative); raw != "" {
		var payload struct {
			GoalCards []domain.GoalCard `json:"goal_cards"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.GoalCards != nil {
			return payload.GoalCards
		}
	}
	return Translate(p)
}
