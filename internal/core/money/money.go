// Package money parses and formats US dollar amounts found in documents.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Parse converts a currency fragment such as "$1,250.50" into a decimal.
// The dollar sign and thousands separators are stripped; ok is false when
// nothing numeric remains.
func Parse(fragment string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(fragment))
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseFloat is Parse for callers that carry amounts as float64.
func ParseFloat(fragment string) (float64, bool) {
	d, ok := Parse(fragment)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Format renders an amount as "$50,000.00".
func Format(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(2).InexactFloat64()
	return printer.Sprintf("$%.2f", rounded)
}

// Round2 rounds to cents.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
