// Package segmenter turns the cleaned lines of a statement into one string per
// transaction.
//
// The text extractor splits a single entry over two or three physical lines.
// An entry spans three lines when the third carries a UTR reference and two
// lines otherwise. This is a layout heuristic: a statement that wraps entries
// differently is segmented wrongly and nothing here detects it.
package segmenter

import (
	"regexp"
	"strings"

	"fjacquet/txncat/internal/logging"
)

var (
	transactionLineRe = regexp.MustCompile(`(?i)\b(CREDIT|DEBIT|UTR|Transaction ID)\b`)
	referenceMarkerRe = regexp.MustCompile(`(?i)\bUTR\b`)
)

// Segmenter groups statement lines into transaction strings. It holds no
// state between calls.
type Segmenter struct {
	logger logging.Logger
}

// New creates a Segmenter.
func New(logger logging.Logger) *Segmenter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Segmenter{logger: logger}
}

// IsTransactionLine reports whether a line carries a direction keyword or a
// reference marker.
func IsTransactionLine(line string) bool {
	return transactionLineRe.MatchString(line)
}

// HasReferenceMarker reports whether a line carries a UTR marker.
func HasReferenceMarker(line string) bool {
	return referenceMarkerRe.MatchString(line)
}

// Filter keeps only the lines that plausibly belong to a transaction.
func (s *Segmenter) Filter(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsTransactionLine(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// Group merges consecutive lines into transactions of two or three lines,
// joined by a single space. A single leftover line at the end is dropped.
func (s *Segmenter) Group(lines []string) []string {
	groups := make([]string, 0, len(lines)/2)

	i := 0
	for i < len(lines) {
		switch {
		case i+2 < len(lines) && HasReferenceMarker(lines[i+2]):
			groups = append(groups, strings.Join(lines[i:i+3], " "))
			i += 3
		case i+1 < len(lines):
			groups = append(groups, strings.Join(lines[i:i+2], " "))
			i += 2
		default:
			s.logger.Debug("Dropping trailing line without a partner",
				logging.F(logging.FieldLine, lines[i]))
			i++
		}
	}
	return groups
}

// Segment filters then groups.
func (s *Segmenter) Segment(lines []string) []string {
	filtered := s.Filter(lines)
	groups := s.Group(filtered)
	s.logger.Debug("Segmented statement lines",
		logging.F(logging.FieldLines, len(filtered)),
		logging.F(logging.FieldGroups, len(groups)))
	return groups
}
