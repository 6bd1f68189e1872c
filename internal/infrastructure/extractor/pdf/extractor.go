package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// Extractor reads the text layer of a PDF. Scanned PDFs without one yield
// an empty transcript so the caller can fall back to OCR.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, file domain.File) (transcript domain.Transcript, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrUnsupportedFormat, "extract pdf text", fmt.Errorf("malformed pdf %s: %v", file.Name, r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return domain.Transcript{}, domain.WrapError(domain.ErrUnsupportedFormat, "open pdf", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("read pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("read pdf text: %w", err)
	}
	return domain.Transcript{Text: strings.TrimSpace(string(raw))}, nil
}
