package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

func fixedExtractor() *Extractor {
	return NewExtractor(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })
}

func TestExtractAccountLines(t *testing.T) {
	text := `Quarterly Statement
Roth IRA Account: $125,000.00
Traditional IRA Account: $75,000.00
Brokerage Account: $50,000.00
Holdings include Large Cap Value stocks and Bonds
Total Portfolio Value: $250,000.00`

	p, err := fixedExtractor().Extract(text, "statement.pdf")
	require.NoError(t, err)

	require.Len(t, p.Holdings, 3)
	assert.InDelta(t, 250000, p.TotalValue, 0.001)
	assert.InDelta(t, p.TotalValue, p.HoldingsValue(), 0.001)
	assert.Equal(t, "statement.pdf", p.SourceFile)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.ExtractedAt)

	first := p.Holdings[0]
	assert.Equal(t, "Roth IRA", first.Type)
	assert.Equal(t, "Roth IRA", first.Category)
	assert.InDelta(t, 125000, first.Value, 0.001)
	assert.Equal(t, "Roth IRA Account: $125,000.00", first.Description)
	assert.Equal(t, []string{"Stocks", "Bonds", "Large Cap", "Value"}, first.AssetClasses)

	assert.Equal(t, "Traditional IRA", p.Holdings[1].Type)
	assert.Equal(t, "Brokerage", p.Holdings[2].Type)
}

func TestExtractAccountLineWithoutAmountIsSkipped(t *testing.T) {
	text := "Savings account opened\nChecking: $1,500"
	p, err := Extract(text, "bank.txt")
	require.NoError(t, err)
	require.Len(t, p.Holdings, 1)
	assert.Equal(t, "Checking", p.Holdings[0].Type)
	assert.Equal(t, []string{domain.DefaultAssetClass}, p.Holdings[0].AssetClasses)
}

func TestExtractLabeledTotal(t *testing.T) {
	p, err := Extract("Total: $250,000.00", "summary.txt")
	require.NoError(t, err)

	require.Len(t, p.Holdings, 1)
	assert.InDelta(t, 250000, p.TotalValue, 0.001)
	h := p.Holdings[0]
	assert.Equal(t, "Portfolio", h.Type)
	assert.Equal(t, "Investment Portfolio", h.Category)
	assert.InDelta(t, 250000, h.Value, 0.001)
	assert.Equal(t, []string{domain.DefaultAssetClass}, h.AssetClasses)
	assert.Equal(t, "Portfolio extracted from document", h.Description)
}

func TestExtractLargestAmountFallback(t *testing.T) {
	p, err := Extract("Deposits of $1,200 and $48,000.50 were received. Fee $,", "letter.txt")
	require.NoError(t, err)
	require.Len(t, p.Holdings, 1)
	assert.InDelta(t, 48000.50, p.TotalValue, 0.001)
}

func TestExtractNoPortfolioData(t *testing.T) {
	for _, text := range []string{"", "Dear client, thank you.", "Balance: $0.00"} {
		_, err := Extract(text, "empty.txt")
		require.Error(t, err, text)
		assert.True(t, domain.IsKind(err, domain.ErrNoPortfolioData), text)
	}
}

func TestEstimateAccountValue(t *testing.T) {
	assert.InDelta(t, 250000, EstimateAccountValue("Roth IRA $125,000\nTotal: 250,000\nFee $25"), 0.001)
	assert.InDelta(t, 5400, EstimateAccountValue("Account Value: 5,400.00"), 0.001)
	assert.Zero(t, EstimateAccountValue("Fee $25, page 3 of 4"))
}
