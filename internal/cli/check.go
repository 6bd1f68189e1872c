package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

type checkReport struct {
	File     string                   `json:"file"`
	Analysis *domain.DocumentAnalysis `json:"analysis"`
}

func checkCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Run NIGO compliance checks on account forms",
		Long: `Extracts text from each file (plain text, PDF, XLSX, or images through OCR)
and reports the NIGO findings, completeness score and review tier.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			bar := newProgressBar(cmd.ErrOrStderr(), len(args), "Checking documents")

			reports := make([]checkReport, 0, len(args))
			for _, path := range args {
				file, err := readFile(path)
				if err != nil {
					return err
				}
				analysis, err := st.toolkit.Analyzer.AnalyzeFile(ctx, file)
				if err != nil {
					return fmt.Errorf("check %s: %w", path, err)
				}
				reports = append(reports, checkReport{File: path, Analysis: analysis})
				_ = bar.Add(1)
			}

			out := cmd.OutOrStdout()
			if st.jsonOut {
				return writeJSON(out, reports)
			}
			for _, report := range reports {
				renderAnalysis(out, report)
			}
			return nil
		},
	}
}

func renderAnalysis(w io.Writer, report checkReport) {
	a := report.Analysis
	_, _ = fmt.Fprintln(w, TitleStyle.Render(report.File))
	_, _ = fmt.Fprintf(w, "  tier:    %s (%s review)\n", tierStyle(a.ConfidenceLevel).Render(string(a.ConfidenceLevel)), a.Review)
	_, _ = fmt.Fprintf(w, "  status:  %s\n", a.Check.NIGOStatus)
	_, _ = fmt.Fprintf(w, "  score:   %.1f%% (%d/%d checks passed)\n", a.Check.ConfidenceScore, a.Check.PassedChecks, a.Check.TotalChecks)
	if a.TotalAccountValue > 0 {
		_, _ = fmt.Fprintf(w, "  value:   %s\n", money.Format(a.TotalAccountValue))
	}

	if len(a.Check.Errors) == 0 {
		_, _ = fmt.Fprintln(w, SubtleStyle.Render("  no findings"))
		_, _ = fmt.Fprintln(w)
		return
	}
	_, _ = fmt.Fprintln(w, BoldStyle.Render("  findings:"))
	for _, f := range a.Check.Errors {
		tag := severityStyle(f.Severity).Render("[" + string(f.Severity) + "]")
		_, _ = fmt.Fprintf(w, "    %s %s: %s\n", tag, f.Field, f.Message)
	}
	_, _ = fmt.Fprintln(w)
}
