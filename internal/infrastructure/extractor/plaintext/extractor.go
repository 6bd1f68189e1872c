package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the file body as text. Non UTF-8 input is rejected as an
// unsupported format.
func (e *Extractor) Extract(_ context.Context, file domain.File) (domain.Transcript, error) {
	if !utf8.Valid(file.Data) {
		return domain.Transcript{}, domain.WrapError(domain.ErrUnsupportedFormat, "extract plain text", fmt.Errorf("binary content in %s", file.Name))
	}
	return domain.Transcript{Text: strings.TrimSpace(string(file.Data))}, nil
}
