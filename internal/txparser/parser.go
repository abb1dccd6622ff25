// Package txparser turns one grouped statement line into a TransactionRecord.
package txparser

import (
	"strings"

	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/currencyutils"
	"fjacquet/txncat/internal/dateutils"
	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/textutils"

	"github.com/shopspring/decimal"
)

// Parser extracts the fields of a transaction. Each field is searched for
// independently and falls back to its default when missing, so Parse never
// fails.
type Parser struct {
	categorizer categorizer.Categorizer
	logger      logging.Logger
}

// NewParser creates a parser that delegates categorization to c.
func NewParser(c categorizer.Categorizer, logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{categorizer: c, logger: logger}
}

// Parse builds a record from a grouped transaction string.
func (p *Parser) Parse(line string) models.TransactionRecord {
	record := models.TransactionRecord{
		Direction:   models.DirectionUnknown,
		Description: strings.TrimSpace(line),
		Amount:      decimal.Zero,
	}

	if token, ok := textutils.ExtractDate(line); ok {
		if d, err := dateutils.ParseStatementDate(token); err == nil {
			record.Date = &d
		} else {
			p.logger.Debug("Unparsable date token", logging.F("token", token))
		}
	}

	if token, ok := textutils.ExtractClock(line); ok {
		clock := dateutils.NormalizeClock(token)
		record.Time = &clock
	}

	if record.Date != nil {
		clock := ""
		if record.Time != nil {
			clock = *record.Time
		}
		if dt, err := dateutils.Combine(*record.Date, clock); err == nil {
			record.DateTime = &dt
		} else {
			p.logger.Debug("Date and time do not combine", logging.F("time", clock))
		}
	}

	if token, ok := textutils.ExtractAmount(line); ok {
		record.Amount = currencyutils.ParseAmountOrZero(token)
	}

	if d, ok := textutils.ExtractDirection(line); ok {
		record.Direction = models.ParseDirection(d)
	}

	if narration, ok := textutils.ExtractNarration(line); ok {
		record.Description = narration
	}

	if ref, ok := textutils.ExtractReference(line); ok {
		record.ReferenceNumber = &ref
	}

	record.Category = p.categorizer.Categorize(record.Description, record.Direction)
	return record
}

// ParseAll parses every group in order.
func (p *Parser) ParseAll(groups []string) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, p.Parse(g))
	}
	return records
}
