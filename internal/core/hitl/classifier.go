// Package hitl labels check and portfolio results with the human-in-the-loop
// escalation tier. It only labels; routing is left to the caller.
package hitl

import "github.com/heritagehub/heritage-hub/internal/core/domain"

const (
	minGreenScore     = 80.0
	maxGreenHoldings  = 3
	maxYellowHoldings = 6
)

// DocumentTier is RED when any high-severity finding exists, YELLOW when any
// finding exists or the checklist score is below 80, and GREEN otherwise.
func DocumentTier(result domain.CheckResult) domain.ConfidenceTier {
	switch {
	case result.HasHighSeverity():
		return domain.TierRed
	case len(result.Errors) > 0, result.ConfidenceScore < minGreenScore:
		return domain.TierYellow
	default:
		return domain.TierGreen
	}
}

func PortfolioTier(holdings int) domain.ConfidenceTier {
	switch {
	case holdings <= maxGreenHoldings:
		return domain.TierGreen
	case holdings <= maxYellowHoldings:
		return domain.TierYellow
	default:
		return domain.TierRed
	}
}

// Review maps a tier to the review mode the boundary layer should apply.
func Review(tier domain.ConfidenceTier) domain.ReviewMode {
	switch tier {
	case domain.TierGreen:
		return domain.ReviewAutomated
	case domain.TierYellow:
		return domain.ReviewAssisted
	default:
		return domain.ReviewManual
	}
}
