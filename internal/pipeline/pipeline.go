// Package pipeline runs the statement text of one document through line
// cleaning, segmentation and parsing.
package pipeline

import (
	"strings"
	"time"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/segmenter"
	"fjacquet/txncat/internal/txparser"
)

// Options controls which lines are treated as statement boilerplate.
type Options struct {
	// SkipPrefixes drops lines starting with any of these, case-sensitive.
	SkipPrefixes []string
	// SkipPhrases drops lines containing any of these, ignoring case.
	SkipPhrases []string
	// FooterMarkers end line collection at the first line starting with any
	// of these, ignoring case.
	FooterMarkers []string
}

// DefaultOptions returns the boilerplate rules for UPI wallet statements.
func DefaultOptions() Options {
	return Options{
		SkipPrefixes:  []string{"Page", "Transaction Statement for", "Date Transaction"},
		SkipPhrases:   []string{"system generated statement"},
		FooterMarkers: []string{"disclaimer"},
	}
}

// Pipeline is safe for concurrent use; Run keeps all state on the stack.
type Pipeline struct {
	parser    *txparser.Parser
	segmenter *segmenter.Segmenter
	opts      Options
	logger    logging.Logger
}

// New creates a Pipeline.
func New(parser *txparser.Parser, seg *segmenter.Segmenter, opts Options, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if seg == nil {
		seg = segmenter.New(logger)
	}
	return &Pipeline{
		parser:    parser,
		segmenter: seg,
		opts:      normalize(opts),
		logger:    logger,
	}
}

func normalize(opts Options) Options {
	out := Options{SkipPrefixes: opts.SkipPrefixes}
	for _, p := range opts.SkipPhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out.SkipPhrases = append(out.SkipPhrases, p)
		}
	}
	for _, m := range opts.FooterMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			out.FooterMarkers = append(out.FooterMarkers, m)
		}
	}
	return out
}

// CleanLines joins the page texts, splits them into trimmed non-empty lines
// and drops boilerplate. Lines from the first footer onwards are discarded.
func (p *Pipeline) CleanLines(pages []string) []string {
	raw := strings.Split(strings.Join(pages, "\n"), "\n")
	lines := make([]string, 0, len(raw))

	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if p.isFooter(line) {
			p.logger.Debug("Footer reached, ignoring the rest of the document",
				logging.F(logging.FieldFooterLine, line))
			break
		}
		if p.isBoilerplate(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (p *Pipeline) isBoilerplate(line string) bool {
	for _, prefix := range p.opts.SkipPrefixes {
		if prefix != "" && strings.HasPrefix(line, prefix) {
			return true
		}
	}
	lower := strings.ToLower(line)
	for _, phrase := range p.opts.SkipPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func (p *Pipeline) isFooter(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range p.opts.FooterMarkers {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}

// Run turns the page texts of one document into its transaction records.
func (p *Pipeline) Run(pages []string) models.Result {
	start := time.Now()

	lines := p.CleanLines(pages)
	groups := p.segmenter.Segment(lines)
	records := p.parser.ParseAll(groups)

	p.logger.Debug("Statement processed",
		logging.F(logging.FieldPages, len(pages)),
		logging.F(logging.FieldLines, len(lines)),
		logging.F(logging.FieldGroups, len(groups)),
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	return models.NewResult(records)
}
