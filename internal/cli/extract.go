package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

type extractReport struct {
	Portfolio *domain.Portfolio        `json:"portfolio_data"`
	Summary   *domain.PortfolioSummary `json:"summary"`
}

func extractCmd(st *state) *cobra.Command {
	var modelID string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract holdings from a statement and translate them into goal cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			file, err := readFile(args[0])
			if err != nil {
				return err
			}

			p, err := st.toolkit.Portfolios.ExtractPortfolio(ctx, file)
			if err != nil {
				return fmt.Errorf("extract %s: %w", args[0], err)
			}
			summary, err := st.toolkit.Portfolios.Summarize(ctx, *p, modelID)
			if err != nil {
				return fmt.Errorf("summarize %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if st.jsonOut {
				return writeJSON(out, extractReport{Portfolio: p, Summary: summary})
			}
			renderPortfolio(out, *p, *summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "LLM model override for the summary")
	return cmd
}

func renderPortfolio(w io.Writer, p domain.Portfolio, summary domain.PortfolioSummary) {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Portfolio "+money.Format(p.TotalValue)))
	for _, h := range p.Holdings {
		_, _ = fmt.Fprintf(w, "  %-32s %14s\n", h.Label(), money.Format(h.Value))
	}
	_, _ = fmt.Fprintf(w, "  tier: %s\n\n", tierStyle(summary.ConfidenceLevel).Render(string(summary.ConfidenceLevel)))

	if summary.Summary != "" && !summary.Generated {
		_, _ = fmt.Fprintln(w, summary.Summary)
		_, _ = fmt.Fprintln(w)
	}
	for _, card := range summary.GoalCards {
		body := BoldStyle.Render(card.Title) + "\n" +
			card.HoldingDescription + " · " + money.Format(card.CurrentValue) + "\n" +
			card.Purpose + "\n" +
			SubtleStyle.Render(card.Timeline+" · "+card.NextSteps)
		_, _ = fmt.Fprintln(w, CardStyle.Render(body))
	}
}
