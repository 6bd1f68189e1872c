// Package portfolio derives a portfolio record from statement text.
package portfolio

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
	"github.com/heritagehub/heritage-hub/internal/core/money"
)

const (
	syntheticType        = "Portfolio"
	syntheticCategory    = "Investment Portfolio"
	syntheticDescription = "Portfolio extracted from document"
)

var (
	amountPattern  = regexp.MustCompile(`\$[\d,]+\.?\d*`)
	labeledPattern = regexp.MustCompile(`(?i)(?:total|value|balance)[:\s]+\$?([\d,]+\.?\d*)`)
)

// AccountTypes are matched per line in this order; the first match wins.
var AccountTypes = []string{
	"Roth IRA", "Traditional IRA", "IRA", "401(k)", "Brokerage",
	"Savings", "Checking", "Investment Account", "Retirement Account",
}

// AssetClasses are detected anywhere in the document.
var AssetClasses = []string{
	"Stocks", "Bonds", "ETFs", "Mutual Funds", "Large Cap",
	"Small Cap", "Value", "Growth", "Real Estate", "Cash",
}

// Extractor turns statement text into a portfolio. The zero value is not
// usable; call NewExtractor.
type Extractor struct {
	now func() time.Time
}

func NewExtractor(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// Extract tries, in order: account lines with an amount on the same line, a
// labeled total, then the largest dollar amount in the text. It fails with
// domain.ErrNoPortfolioData when no positive total is found.
func (e *Extractor) Extract(text, filename string) (*domain.Portfolio, error) {
	p := &domain.Portfolio{SourceFile: filename, ExtractedAt: e.now().UTC()}
	total := decimal.Zero

	classes := detectAssetClasses(text)
	for _, line := range strings.Split(text, "\n") {
		account, ok := matchAccount(line)
		if !ok {
			continue
		}
		value, ok := money.Parse(amountPattern.FindString(line))
		if !ok {
			continue
		}
		p.Holdings = append(p.Holdings, domain.Holding{
			Type:         account,
			Category:     account,
			Value:        value.InexactFloat64(),
			AssetClasses: classes,
			Description:  strings.TrimSpace(line),
		})
		total = total.Add(value)
	}

	if len(p.Holdings) == 0 {
		if m := labeledPattern.FindStringSubmatch(text); m != nil {
			if value, ok := money.Parse(m[1]); ok {
				total = value
				p.Holdings = append(p.Holdings, synthetic(value))
			}
		}
	}

	if total.IsZero() {
		if largest, ok := largestAmount(text); ok {
			total = largest
			p.Holdings = append(p.Holdings, synthetic(largest))
		}
	}

	if !total.IsPositive() {
		return nil, domain.WrapError(domain.ErrNoPortfolioData, "extract portfolio", errors.New("no positive total in document"))
	}
	p.TotalValue = total.InexactFloat64()
	return p, nil
}

// Extract runs the default extractor.
func Extract(text, filename string) (*domain.Portfolio, error) {
	return NewExtractor(nil).Extract(text, filename)
}

func matchAccount(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, account := range AccountTypes {
		if strings.Contains(upper, strings.ToUpper(account)) {
			return account, true
		}
	}
	return "", false
}

func detectAssetClasses(text string) []string {
	upper := strings.ToUpper(text)
	var found []string
	for _, class := range AssetClasses {
		if strings.Contains(upper, strings.ToUpper(class)) {
			found = append(found, class)
		}
	}
	if len(found) == 0 {
		return []string{domain.DefaultAssetClass}
	}
	return found
}

func largestAmount(text string) (decimal.Decimal, bool) {
	var (
		largest decimal.Decimal
		found   bool
	)
	for _, fragment := range amountPattern.FindAllString(text, -1) {
		value, ok := money.Parse(fragment)
		if !ok {
			continue
		}
		if !found || value.GreaterThan(largest) {
			largest = value
			found = true
		}
	}
	return largest, found
}

func synthetic(value decimal.Decimal) domain.Holding {
	return domain.Holding{
		Type:         syntheticType,
		Category:     syntheticCategory,
		Value:        value.InexactFloat64(),
		AssetClasses: []string{domain.DefaultAssetClass},
		Description:  syntheticDescription,
	}
}
