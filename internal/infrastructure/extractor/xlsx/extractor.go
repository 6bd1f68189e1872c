package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

// Extractor flattens every sheet of a workbook into lines of
// space-separated cell values, so "Roth IRA | $125,000" rows read the same
// as a typed statement.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, file domain.File) (domain.Transcript, error) {
	book, err := excelize.OpenReader(bytes.NewReader(file.Data))
	if err != nil {
		return domain.Transcript{}, domain.WrapError(domain.ErrUnsupportedFormat, "open workbook", err)
	}
	defer book.Close()

	var b strings.Builder
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return domain.Transcript{}, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if c := strings.TrimSpace(cell); c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) == 0 {
				continue
			}
			b.WriteString(strings.Join(cells, " "))
			b.WriteByte('\n')
		}
	}
	return domain.Transcript{Text: strings.TrimSpace(b.String())}, nil
}
