package common

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/txncat/internal/currencyutils"
	"fjacquet/txncat/internal/models"

	"github.com/shopspring/decimal"
)

// CategorySummary aggregates the records of one category.
type CategorySummary struct {
	Category string
	Count    int
	Debit    decimal.Decimal
	Credit   decimal.Decimal
}

// SummarizeByCategory totals records per category. Categories are listed in
// vocabulary order; labels outside the vocabulary follow in first-seen order.
func SummarizeByCategory(records []models.TransactionRecord) []CategorySummary {
	byCategory := make(map[string]*CategorySummary)
	var extra []string

	for _, r := range records {
		s, ok := byCategory[r.Category]
		if !ok {
			s = &CategorySummary{Category: r.Category}
			byCategory[r.Category] = s
			if !models.IsKnownCategory(r.Category) {
				extra = append(extra, r.Category)
			}
		}
		s.Count++
		switch r.Direction {
		case models.DirectionCredit:
			s.Credit = s.Credit.Add(r.Amount)
		case models.DirectionDebit:
			s.Debit = s.Debit.Add(r.Amount)
		}
	}

	out := make([]CategorySummary, 0, len(byCategory))
	for _, label := range append(append([]string{}, models.CategoryLabels...), extra...) {
		if s, ok := byCategory[label]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// WriteSummary prints a per-category table followed by the totals.
func WriteSummary(w io.Writer, records []models.TransactionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tDEBIT\tCREDIT")

	debit, credit := decimal.Zero, decimal.Zero
	for _, s := range SummarizeByCategory(records) {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Category, s.Count,
			currencyutils.FormatAmount(s.Debit), currencyutils.FormatAmount(s.Credit))
		debit = debit.Add(s.Debit)
		credit = credit.Add(s.Credit)
	}
	fmt.Fprintf(tw, "Total\t%d\t%s\t%s\n", len(records),
		currencyutils.FormatAmount(debit), currencyutils.FormatAmount(credit))
	return tw.Flush()
}
