package portfolio

import (
	"regexp"

	"github.com/heritagehub/heritage-hub/internal/core/money"
)

const minAccountValue = 100

var (
	estimatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$[\d,]+\.?\d*`),
		regexp.MustCompile(`(?i)total[:\s]+\$?[\d,]+\.?\d*`),
		regexp.MustCompile(`(?i)balance[:\s]+\$?[\d,]+\.?\d*`),
		regexp.MustCompile(`(?i)account value[:\s]+\$?[\d,]+\.?\d*`),
	}
	numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)
)

// EstimateAccountValue returns the largest amount above 100 that appears as a
// dollar figure or after a total, balance or account value label. It returns
// 0 when the document carries no such amount.
func EstimateAccountValue(text string) float64 {
	var best float64
	for _, pattern := range estimatePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			for _, fragment := range numberPattern.FindAllString(match, -1) {
				value, ok := money.ParseFloat(fragment)
				if !ok || value <= minAccountValue {
					continue
				}
				best = max(best, value)
			}
		}
	}
	return best
}
