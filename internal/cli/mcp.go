package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mcpadapter "github.com/heritagehub/heritage-hub/internal/adapters/mcp"
)

func mcpCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the checks and planners as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			srv, err := mcpadapter.New(mcpadapter.Deps{
				Analyzer:   st.toolkit.Analyzer,
				Portfolios: st.toolkit.Portfolios,
				Goals:      st.toolkit.Goals,
			})
			if err != nil {
				return fmt.Errorf("init MCP server: %w", err)
			}
			return srv.Serve()
		},
	}
}

func explainCmd(st *state) *cobra.Command {
	var userContext string

	cmd := &cobra.Command{
		Use:   "explain CONCEPT",
		Short: "Explain a financial concept in plain language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			explanation, err := st.toolkit.Mentor.Explain(cmd.Context(), args[0], userContext)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if st.jsonOut {
				return writeJSON(out, explanation)
			}
			_, _ = fmt.Fprintln(out, TitleStyle.Render(explanation.Concept))
			_, _ = fmt.Fprintln(out, explanation.Explanation)
			return nil
		},
	}

	cmd.Flags().StringVar(&userContext, "context", "", "situation to tailor the explanation to")
	return cmd
}
