// Package extractor picks a text extractor by file extension and falls back
// to OCR for images and scanned PDFs.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/heritagehub/heritage-hub/internal/core/compliance"
	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/extractor/pdf"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/extractor/plaintext"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/extractor/xlsx"
)

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".tif": {}, ".tiff": {}, ".gif": {}, ".bmp": {},
}

type Registry struct {
	byExt map[string]ports.TextExtractor
	text  ports.TextExtractor
	ocr   ports.OCRService
}

// NewRegistry registers the built-in extractors. ocr may be nil, in which
// case images are rejected as unsupported.
func NewRegistry(ocr ports.OCRService) *Registry {
	text := plaintext.NewExtractor()
	r := &Registry{
		byExt: make(map[string]ports.TextExtractor),
		text:  text,
		ocr:   ocr,
	}
	for _, ext := range []string{".txt", ".text", ".csv", ".md"} {
		r.Register(ext, text)
	}
	r.Register(".pdf", pdf.NewExtractor())
	r.Register(".xlsx", xlsx.NewExtractor())
	return r
}

func (r *Registry) Register(ext string, extractor ports.TextExtractor) {
	r.byExt[strings.ToLower(ext)] = extractor
}

func (r *Registry) Extract(ctx context.Context, file domain.File) (domain.Transcript, error) {
	if len(file.Data) == 0 {
		return domain.Transcript{}, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("file is empty"))
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	if _, ok := imageExtensions[ext]; ok || isImage(file) {
		return r.recognize(ctx, file)
	}

	extractor, ok := r.byExt[ext]
	if !ok {
		if utf8.Valid(file.Data) {
			extractor = r.text
		} else {
			return r.recognize(ctx, file)
		}
	}

	transcript, err := extractor.Extract(ctx, file)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("extract %s: %w", ext, err)
	}
	if strings.TrimSpace(transcript.Text) == "" && ext == ".pdf" && r.ocr != nil {
		return r.recognize(ctx, file)
	}
	return transcript, nil
}

func (r *Registry) recognize(ctx context.Context, file domain.File) (domain.Transcript, error) {
	if r.ocr == nil {
		return domain.Transcript{}, domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("%s needs OCR and none is configured", file.Name))
	}
	blocks, err := r.ocr.Analyze(ctx, file)
	if err != nil {
		return domain.Transcript{}, fmt.Errorf("ocr %s: %w", file.Name, err)
	}
	return domain.Transcript{Text: compliance.JoinLines(blocks), Blocks: blocks}, nil
}

func isImage(file domain.File) bool {
	mime := file.MimeType
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(file.Data)
	}
	return strings.HasPrefix(mime, "image/")
}
