package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
	executor   *resilience.Executor
}

// New builds an Ollama client. A nil executor sends every request once.
func New(baseURL, genModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// Narrator writes portfolio narratives and concept explanations.
type Narrator struct {
	client *Client
}

func NewNarrator(client *Client) *Narrator {
	return &Narrator{client: client}
}

// SummarizePortfolio asks the model for a JSON object carrying a summary and
// goal cards. modelID overrides the configured generation model.
func (n *Narrator) SummarizePortfolio(ctx context.Context, portfolio domain.Portfolio, modelID string) (string, error) {
	prompt, err := buildPortfolioPrompt(portfolio)
	if err != nil {
		return "", err
	}
	raw, err := n.client.generateJSON(ctx, n.client.model(modelID), prompt)
	if err != nil {
		return "", err
	}
	return extractJSONObject(raw), nil
}

func (n *Narrator) ExplainConcept(ctx context.Context, concept, userContext string) (string, error) {
	if strings.TrimSpace(concept) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "explain concept", errors.New("concept is required"))
	}
	return n.client.generateText(ctx, n.client.genModel, buildMentorPrompt(concept, userContext))
}

func (c *Client) model(override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	return c.genModel
}

func (c *Client) generateJSON(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	return c.generate(ctx, reqBody)
}

func (c *Client) generateText(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	return c.generate(ctx, reqBody)
}

func (c *Client) generate(ctx context.Context, reqBody map[string]any) (string, error) {
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
