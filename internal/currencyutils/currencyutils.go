// Package currencyutils parses the rupee amounts printed on statements.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var symbolRe = regexp.MustCompile(`(?i)₹|\s|\bRs\.?|\bINR\b`)

// ParseAmount parses an amount such as "12,345.50" or "₹1,23,456" into a decimal value.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': no digits", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// ParseAmountOrZero is ParseAmount with any failure mapped to zero.
func ParseAmountOrZero(amountStr string) decimal.Decimal {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// StandardizeAmount strips the currency marker, whitespace and thousands
// separators. Both western (1,234,567) and Indian (12,34,567) grouping use
// commas, so every comma is a separator.
func StandardizeAmount(amountStr string) string {
	amountStr = symbolRe.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, ",", "")
	return strings.TrimSuffix(amountStr, ".")
}

// FormatAmount formats an amount with two decimals and the rupee sign.
func FormatAmount(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}
