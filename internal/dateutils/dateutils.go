// Package dateutils parses the date and clock tokens printed on statements.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutStatement is the layout of dates printed on statements.
const DateLayoutStatement = "Jan 02, 2006"

// ClockFormats are tried in order when parsing a clock token.
var ClockFormats = []string{
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
	"15:04",
	"15:04:05",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	meridiemRe   = regexp.MustCompile(`(?i)\s*([ap]m)$`)
)

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return whitespaceRe.ReplaceAllString(dateStr, " ")
}

// ParseStatementDate parses a "Jan 02, 2006" token.
func ParseStatementDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayoutStatement, CleanDateString(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
	}
	return t, nil
}

// NormalizeClock trims a clock token and upper-cases its meridiem, keeping
// the separator as printed: "10:15 am " becomes "10:15 AM".
func NormalizeClock(clock string) string {
	clock = CleanDateString(clock)
	return meridiemRe.ReplaceAllStringFunc(clock, strings.ToUpper)
}

// ParseClock returns the hour, minute and second of a clock token.
func ParseClock(clock string) (hour, minute, second int, err error) {
	clock = NormalizeClock(clock)
	for _, layout := range ClockFormats {
		if t, perr := time.Parse(layout, clock); perr == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("unable to parse time: %s", clock)
}

// Combine places a clock token on a calendar date. An empty clock yields the
// date at midnight.
func Combine(date time.Time, clock string) (time.Time, error) {
	if strings.TrimSpace(clock) == "" {
		return StartOfDay(date), nil
	}
	h, m, s, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location()), nil
}

// StartOfDay drops the clock part of a date.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
