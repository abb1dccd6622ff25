// Package textutils finds the individual field tokens inside a grouped
// statement line. Every extractor is a best-effort search: a miss is reported
// through the boolean result and never as an error.
package textutils

import (
	"regexp"
	"strings"
)

var (
	dateTokenRe   = regexp.MustCompile(`([A-Z][a-z]{2} \d{2}, \d{4})`)
	clockTokenRe  = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?::\d{2})?\s?(?:AM|PM)?)\b`)
	amountTokenRe = regexp.MustCompile(`₹([\d,]+\.?\d*)`)
	directionRe   = regexp.MustCompile(`(?i)\b(CREDIT|DEBIT)\b`)
	narrationRe   = regexp.MustCompile(`(?i)(Received from|Paid to|Cashback from|Transfer to)\s(.+?)\s(CREDIT|DEBIT)`)
	referenceRe   = regexp.MustCompile(`(?i)\bUTR(?:\s*No\.?)?[:\-\s]*([0-9]+)\b`)
)

func firstGroup(re *regexp.Regexp, s string, group int) (string, bool) {
	matches := re.FindStringSubmatch(s)
	if len(matches) <= group {
		return "", false
	}
	return matches[group], true
}

// ExtractDate returns the first "Mon DD, YYYY" token.
func ExtractDate(line string) (string, bool) {
	return firstGroup(dateTokenRe, line, 1)
}

// ExtractClock returns the first "H:MM" or "H:MM:SS" token with its optional
// meridiem, as printed.
func ExtractClock(line string) (string, bool) {
	return firstGroup(clockTokenRe, line, 1)
}

// ExtractAmount returns the digits and separators following the first rupee sign.
func ExtractAmount(line string) (string, bool) {
	return firstGroup(amountTokenRe, line, 1)
}

// ExtractDirection returns the first whole-word CREDIT or DEBIT, upper-cased.
func ExtractDirection(line string) (string, bool) {
	d, ok := firstGroup(directionRe, line, 1)
	return strings.ToUpper(d), ok
}

// ExtractNarration returns the counterparty between a lead-in phrase and the
// following direction keyword.
func ExtractNarration(line string) (string, bool) {
	n, ok := firstGroup(narrationRe, line, 2)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(n), true
}

// ExtractReference returns the digits of the first UTR reference.
func ExtractReference(line string) (string, bool) {
	return firstGroup(referenceRe, line, 1)
}
