package ollama

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

const maxContextChars = 4000

func buildPortfolioPrompt(portfolio domain.Portfolio) (string, error) {
	data, err := json.MarshalIndent(portfolio, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal portfolio for prompt: %w", err)
	}

	return `You translate investment portfolios into plain-language "Goal Cards" for heirs who are new to investing.

Portfolio:
` + string(data) + `

For every holding write one goal card explaining what the holding is, which life goal it serves
(for example "your 5-year Home Downpayment fund"), its current value and purpose, and its timeline.
Use a professional, warm tone. If the portfolio holds idle cash, recommend putting cash to work.
Mention diversification where it helps.

Return one JSON object with keys:
summary (string, two or three sentences about the whole portfolio) and
goal_cards (array of objects with title, holding_description, purpose, current_value (number), timeline, next_steps).
No markdown outside the JSON object.`, nil
}

func buildMentorPrompt(concept, userContext string) string {
	userContext = strings.TrimSpace(userContext)
	if len(userContext) > maxContextChars {
		userContext = userContext[:maxContextChars]
	}
	if userContext == "" {
		userContext = "(no portfolio context provided)"
	}

	return fmt.Sprintf(`You are a patient financial education tutor for people who just inherited investments.

The user is looking at:
%s

They want to understand: %s

Explain it in two or three short paragraphs of simple language. Use an analogy, relate the
explanation to the holdings above when there are any, stay encouraging and avoid jargon.`, userContext, concept)
}
