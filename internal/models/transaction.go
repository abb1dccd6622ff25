// Package models provides the data structures used throughout the application.
package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date and time layouts used when serializing records.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Direction tells whether a transaction increases or decreases the balance.
type Direction string

const (
	DirectionCredit  Direction = "CREDIT"
	DirectionDebit   Direction = "DEBIT"
	DirectionUnknown Direction = "UNKNOWN"
)

// String returns the direction as printed on the statement.
func (d Direction) String() string {
	return string(d)
}

// ParseDirection maps a keyword to a Direction, ignoring case.
func ParseDirection(s string) Direction {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREDIT":
		return DirectionCredit
	case "DEBIT":
		return DirectionDebit
	default:
		return DirectionUnknown
	}
}

// TransactionRecord is one transaction extracted from a statement.
// Pointer fields are nil when the value was not found in the source text.
type TransactionRecord struct {
	Date            *time.Time
	Time            *string
	DateTime        *time.Time
	Description     string
	Direction       Direction
	Amount          decimal.Decimal
	Category        string
	ReferenceNumber *string
}

// IsCredit returns true if the transaction is a credit (incoming money)
func (t TransactionRecord) IsCredit() bool {
	return t.Direction == DirectionCredit
}

// IsDebit returns true if the transaction is a debit (outgoing money)
func (t TransactionRecord) IsDebit() bool {
	return t.Direction == DirectionDebit
}

// transactionJSON is the wire shape of a record. The direction is published
// as "type" and the reference number as "UTR_No".
type transactionJSON struct {
	Date            *string     `json:"date"`
	Time            *string     `json:"time"`
	DateTime        *string     `json:"datetime"`
	Description     string      `json:"description"`
	Type            string      `json:"type"`
	Amount          json.Number `json:"amount"`
	Category        string      `json:"category"`
	ReferenceNumber *string     `json:"UTR_No"`
}

// MarshalJSON encodes the record with the public field names.
func (t TransactionRecord) MarshalJSON() ([]byte, error) {
	out := transactionJSON{
		Date:            formatTime(t.Date, DateLayout),
		Time:            t.Time,
		DateTime:        formatTime(t.DateTime, DateTimeLayout),
		Description:     t.Description,
		Type:            t.Direction.String(),
		Amount:          json.Number(t.Amount.StringFixed(2)),
		Category:        t.Category,
		ReferenceNumber: t.ReferenceNumber,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.Format(layout)
	return &s
}

// TransactionRow is the flat, tabular form of a record used for CSV output.
type TransactionRow struct {
	Date            string `csv:"date"`
	Time            string `csv:"time"`
	DateTime        string `csv:"datetime"`
	Description     string `csv:"description"`
	Type            string `csv:"type"`
	Amount          string `csv:"amount"`
	Category        string `csv:"category"`
	ReferenceNumber string `csv:"UTR_No"`
}

// ToRow flattens the record; absent values become empty cells.
func (t TransactionRecord) ToRow() TransactionRow {
	return TransactionRow{
		Date:            deref(formatTime(t.Date, DateLayout)),
		Time:            deref(t.Time),
		DateTime:        deref(formatTime(t.DateTime, DateTimeLayout)),
		Description:     t.Description,
		Type:            t.Direction.String(),
		Amount:          t.Amount.StringFixed(2),
		Category:        t.Category,
		ReferenceNumber: deref(t.ReferenceNumber),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Result is the output of processing one document.
type Result struct {
	Transactions []TransactionRecord `json:"transactions"`
	Count        int                 `json:"count"`
}

// NewResult builds a Result whose Transactions is never nil, so that an empty
// document serializes as an empty array.
func NewResult(records []TransactionRecord) Result {
	if records == nil {
		records = []TransactionRecord{}
	}
	return Result{
		Transactions: records,
		Count:        len(records),
	}
}
