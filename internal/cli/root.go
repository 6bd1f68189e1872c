package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/heritagehub/heritage-hub/internal/bootstrap"
	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/observability/logging"
)

var version = "dev"

// state is shared by the subcommands once the root pre-run has wired the
// toolkit.
type state struct {
	toolkit *bootstrap.Toolkit
	jsonOut bool
}

// NewRootCommand builds the heritagectl command tree.
func NewRootCommand() *cobra.Command {
	var (
		st        = &state{}
		demoMode  bool
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "heritagectl",
		Short: "Account form checks and goal planning for Heritage Hub",
		Long: `heritagectl runs the Heritage Hub pipeline locally: NIGO checks on
account forms, portfolio extraction from statements, goal cards and budget plans.

Configuration comes from the same environment variables as the API server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if demoMode {
				cfg.DemoMode = true
			}
			// stdout carries command output and the MCP protocol.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), "cli", logLevel, logFormat))

			toolkit, err := bootstrap.NewToolkit(cfg, bootstrap.NewExecutor(cfg, nil))
			if err != nil {
				return err
			}
			st.toolkit = toolkit
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&demoMode, "demo", false, "use offline OCR and narrator fixtures")
	root.PersistentFlags().BoolVar(&st.jsonOut, "json", false, "print results as JSON")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(checkCmd(st))
	root.AddCommand(extractCmd(st))
	root.AddCommand(goalsCmd(st))
	root.AddCommand(explainCmd(st))
	root.AddCommand(mcpCmd(st))
	return root
}

func readFile(path string) (domain.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.File{
		Name:     filepath.Base(path),
		MimeType: mime.TypeByExtension(filepath.Ext(path)),
		Data:     data,
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
