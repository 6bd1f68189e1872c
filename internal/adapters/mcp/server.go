// Package mcp exposes the document checks and planners as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
)

const (
	serverName    = "Heritage Hub MCP"
	serverVersion = "0.1.0"
)

// PortfolioReader is the subset of the portfolio service the tools need.
type PortfolioReader interface {
	ExtractPortfolio(ctx context.Context, file domain.File) (*domain.Portfolio, error)
	Summarize(ctx context.Context, p domain.Portfolio, modelID string) (*domain.PortfolioSummary, error)
}

type Deps struct {
	Analyzer   ports.DocumentAnalyzer
	Portfolios PortfolioReader
	Goals      ports.GoalPlanner
}

type Server struct {
	mcpServer *server.MCPServer
}

// DocumentInput carries a document either as plain text or base64 content.
type DocumentInput struct {
	Text          string `json:"text"`
	Filename      string `json:"filename"`
	ContentBase64 string `json:"content_base64"`
}

type GoalCardsInput struct {
	Portfolio domain.Portfolio `json:"portfolio"`
	ModelID   string           `json:"model_id"`
}

type BudgetInput struct {
	TotalAccountValue float64             `json:"total_account_value"`
	SelectedGoals     []string            `json:"selected_goals"`
	QuizAnswers       []domain.QuizAnswer `json:"quiz_answers"`
}

func New(deps Deps) (*Server, error) {
	if deps.Analyzer == nil || deps.Portfolios == nil || deps.Goals == nil {
		return nil, fmt.Errorf("mcp server requires analyzer, portfolios and goals")
	}
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	mcpServer.AddTool(checkDocumentTool(), checkDocumentHandler(deps.Analyzer))
	mcpServer.AddTool(extractPortfolioTool(), extractPortfolioHandler(deps.Portfolios))
	mcpServer.AddTool(translateGoalCardsTool(), translateGoalCardsHandler(deps.Portfolios))
	mcpServer.AddTool(allocateBudgetTool(), allocateBudgetHandler(deps.Goals))

	return &Server{mcpServer: mcpServer}, nil
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func documentOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("text",
			mcp.Description("Document text, for example an OCR transcript"),
		),
		mcp.WithString("filename",
			mcp.Description("File name used to pick an extractor, e.g. form.pdf"),
		),
		mcp.WithString("content_base64",
			mcp.Description("Base64-encoded file content; takes precedence over text"),
		),
	}
}

func checkDocumentTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Runs the NIGO compliance checks on an account form and returns findings, score and review tier"),
	}, documentOptions()...)
	return mcp.NewTool("check_document", opts...)
}

func extractPortfolioTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Extracts holdings and total value from a brokerage statement (text, PDF, XLSX or OFX)"),
	}, documentOptions()...)
	return mcp.NewTool("extract_portfolio", opts...)
}

func translateGoalCardsTool() mcp.Tool {
	return mcp.NewTool(
		"translate_goal_cards",
		mcp.WithDescription("Translates portfolio holdings into plain-language goal cards with a summary"),
		mcp.WithObject("portfolio",
			mcp.Description("Portfolio with total_value and holdings[{name, value, ...}]"),
			mcp.Required(),
		),
		mcp.WithString("model_id",
			mcp.Description("Optional LLM model override"),
		),
	)
}

func allocateBudgetTool() mcp.Tool {
	return mcp.NewTool(
		"allocate_budget",
		mcp.WithDescription("Partitions an account value across financial goals in the order given"),
		mcp.WithNumber("total_account_value",
			mcp.Description("Budget to allocate in dollars"),
			mcp.Required(),
			mcp.Min(0),
		),
		mcp.WithArray("selected_goals",
			mcp.Description("Goal types: pay_off_loans, home_down_payment, retirement, emergency_fund, education"),
			mcp.WithStringItems(),
		),
		mcp.WithArray("quiz_answers",
			mcp.Description("Onboarding quiz answers [{question_id, selected}] used when no goals are selected"),
		),
	)
}

func (in DocumentInput) file(defaultName string) (domain.File, error) {
	name := strings.TrimSpace(in.Filename)
	if name == "" {
		name = defaultName
	}
	if in.ContentBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(in.ContentBase64)
		if err != nil {
			return domain.File{}, fmt.Errorf("decode content_base64: %w", err)
		}
		return domain.File{Name: name, Data: data}, nil
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.File{}, fmt.Errorf("text or content_base64 is required")
	}
	return domain.File{Name: name, MimeType: "text/plain", Data: []byte(in.Text)}, nil
}

func checkDocumentHandler(analyzer ports.DocumentAnalyzer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DocumentInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid check_document arguments", err), nil
		}

		var (
			analysis *domain.DocumentAnalysis
			err      error
		)
		if input.ContentBase64 == "" {
			analysis, err = analyzer.AnalyzeTranscript(ctx, domain.Transcript{Text: input.Text})
		} else {
			file, fileErr := input.file("document.txt")
			if fileErr != nil {
				return mcp.NewToolResultErrorFromErr("invalid document", fileErr), nil
			}
			analysis, err = analyzer.AnalyzeFile(ctx, file)
		}
		if err != nil {
			return mcp.NewToolResultErrorFromErr("document check failed", err), nil
		}
		return jsonResult(analysis)
	}
}

func extractPortfolioHandler(portfolios PortfolioReader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DocumentInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid extract_portfolio arguments", err), nil
		}
		file, err := input.file("statement.txt")
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid statement", err), nil
		}

		p, err := portfolios.ExtractPortfolio(ctx, file)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("portfolio extraction failed", err), nil
		}
		return jsonResult(p)
	}
}

func translateGoalCardsHandler(portfolios PortfolioReader) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input GoalCardsInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid translate_goal_cards arguments", err), nil
		}

		summary, err := portfolios.Summarize(ctx, input.Portfolio, input.ModelID)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("goal card translation failed", err), nil
		}
		return jsonResult(summary)
	}
}

func allocateBudgetHandler(planner ports.GoalPlanner) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input BudgetInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid allocate_budget arguments", err), nil
		}

		total := input.TotalAccountValue
		req := domain.BudgetRequest{
			TotalAccountValue: &total,
			QuizAnswers:       input.QuizAnswers,
		}
		for _, g := range input.SelectedGoals {
			req.SelectedGoals = append(req.SelectedGoals, domain.GoalType(strings.TrimSpace(g)))
		}

		plan, err := planner.PlanForCase(ctx, "", req)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("budget allocation failed", err), nil
		}
		return jsonResult(plan)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
