// Package cli implements the heritagectl command line: document checks,
// statement extraction and goal planning without a database.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

var (
	// AccentColor is the main theme color.
	AccentColor = lipgloss.Color("#4ECDC4")
	// GreenColor marks automated-review documents.
	GreenColor = lipgloss.Color("#4ECDC4")
	// YellowColor marks assisted-review documents.
	YellowColor = lipgloss.Color("#FFE66D")
	// RedColor marks manual-review documents and errors.
	RedColor    = lipgloss.Color("#FF6B6B")
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RedColor)

	// CardStyle frames a single goal card.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

func tierStyle(tier domain.ConfidenceTier) lipgloss.Style {
	color := SubtleColor
	switch tier {
	case domain.TierGreen:
		color = GreenColor
	case domain.TierYellow:
		color = YellowColor
	case domain.TierRed:
		color = RedColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

func severityStyle(severity domain.Severity) lipgloss.Style {
	if severity == domain.SeverityHigh {
		return lipgloss.NewStyle().Foreground(RedColor)
	}
	return lipgloss.NewStyle().Foreground(YellowColor)
}
