package compliance

import (
	"strings"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// Transcript is the normalized text a rule run searches.
type Transcript struct {
	raw   string
	lower string
}

// NewTranscript normalizes a document transcript. When text is blank the
// LINE blocks of the OCR result are concatenated instead.
func NewTranscript(text string, blocks []domain.OCRBlock) Transcript {
	if strings.TrimSpace(text) == "" && len(blocks) > 0 {
		text = JoinLines(blocks)
	}
	return Transcript{
		raw:   text,
		lower: strings.ToLower(text),
	}
}

// JoinLines concatenates the text of LINE blocks, one per line.
func JoinLines(blocks []domain.OCRBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		if !strings.EqualFold(block.BlockType, "LINE") {
			continue
		}
		b.WriteString(block.Text)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

func (t Transcript) Raw() string { return t.raw }

func (t Transcript) Lower() string { return t.lower }

func (t Transcript) Empty() bool { return strings.TrimSpace(t.raw) == "" }

func (t Transcript) containsAny(terms []string) bool {
	for _, term := range terms {
		if strings.Contains(t.lower, term) {
			return true
		}
	}
	return false
}

// window returns the text within radius bytes of the first occurrence of
// term, or false when term does not occur.
func (t Transcript) window(term string, radius int) (string, bool) {
	idx := strings.Index(t.lower, term)
	if idx < 0 {
		return "", false
	}
	start := max(0, idx-radius)
	end := min(len(t.lower), idx+radius)
	return t.lower[start:end], true
}
