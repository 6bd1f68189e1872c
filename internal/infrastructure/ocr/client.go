// Package ocr talks to the document OCR service. The service answers with
// the block list of a Textract-style document analysis.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/resilience"
)

const analyzeOperation = "ocr.analyze"

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

type analyzeRequest struct {
	Filename string   `json:"filename"`
	MimeType string   `json:"mime_type"`
	Document string   `json:"document"`
	Features []string `json:"features"`
}

type analyzeResponse struct {
	Blocks []domain.OCRBlock `json:"blocks"`
}

// Analyze sends the document and returns its blocks in service order.
func (c *Client) Analyze(ctx context.Context, file domain.File) ([]domain.OCRBlock, error) {
	if len(file.Data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ocr analyze", errors.New("document is empty"))
	}
	body, err := json.Marshal(analyzeRequest{
		Filename: file.Name,
		MimeType: file.MimeType,
		Document: base64.StdEncoding.EncodeToString(file.Data),
		Features: []string{"FORMS", "TABLES"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ocr request: %w", err)
	}

	var out analyzeResponse
	call := func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create ocr request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ocr analyze request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return resilience.NewStatusError("ocr", "analyze", resp)
		}
		out = analyzeResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return fmt.Errorf("decode ocr response: %w", err)
		}
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, analyzeOperation, call, resilience.ClassifyHTTP)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, resilience.WrapTemporary("ocr analyze", err, resilience.ClassifyHTTP)
	}
	return out.Blocks, nil
}
