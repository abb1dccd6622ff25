package pipeline

import (
	"encoding/json"
	"testing"

	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/segmenter"
	"fjacquet/txncat/internal/txparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementPage1 = `Transaction Statement for 98XXXXXX10
Jan 01, 2024 - Jan 31, 2024
Date Transaction Details Type Amount

Jan 05, 2024 Paid to Swiggy Foods DEBIT ₹450.00
10:15 am Transaction ID T240105101500
UTR No. 412345678901
Jan 06, 2024 Received from Ramesh Kumar CREDIT ₹12,345.50
11:00 am Transaction ID T240106110000
UTR No. 412345678902
Page 1 of 2`

const statementPage2 = `Jan 07, 2024 Paid to Airtel Broadband DEBIT ₹999
09:30 pm Transaction ID T240107213000
This is a system generated statement
Disclaimer: amounts are shown in INR
Jan 08, 2024 Paid to Zomato DEBIT ₹250
10:00 am UTR No. 1`

func newPipeline(t *testing.T, opts Options) (*Pipeline, *logging.MockLogger) {
	t.Helper()
	mock := logging.NewMockLogger()
	rs, err := categorizer.DefaultRuleSet()
	require.NoError(t, err)
	return New(txparser.NewParser(rs, mock), segmenter.New(mock), opts, mock), mock
}

func TestRun_Statement(t *testing.T) {
	p, _ := newPipeline(t, DefaultOptions())

	result := p.Run([]string{statementPage1, statementPage2})

	require.Equal(t, 3, result.Count)
	require.Len(t, result.Transactions, 3)

	first := result.Transactions[0]
	assert.Equal(t, "Swiggy Foods", first.Description)
	assert.Equal(t, models.CategoryFood, first.Category)
	require.NotNil(t, first.ReferenceNumber)
	assert.Equal(t, "412345678901", *first.ReferenceNumber)
	require.NotNil(t, first.Time)
	assert.Equal(t, "10:15 AM", *first.Time)

	second := result.Transactions[1]
	assert.Equal(t, models.DirectionCredit, second.Direction)
	assert.Equal(t, models.CategoryIncome, second.Category)
	assert.Equal(t, "12345.50", second.Amount.StringFixed(2))

	third := result.Transactions[2]
	assert.Equal(t, "Airtel Broadband", third.Description)
	assert.Equal(t, models.CategoryRecharge, third.Category)
	assert.Nil(t, third.ReferenceNumber)
}

func TestRun_EmptyDocument(t *testing.T) {
	p, _ := newPipeline(t, DefaultOptions())

	for _, pages := range [][]string{nil, {}, {""}, {"", "   \n\n"}} {
		result := p.Run(pages)
		assert.Equal(t, 0, result.Count)

		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.JSONEq(t, `{"transactions": [], "count": 0}`, string(data))
	}
}

func TestCleanLines(t *testing.T) {
	p, mock := newPipeline(t, DefaultOptions())

	lines := p.CleanLines([]string{statementPage1, statementPage2})

	assert.Equal(t, []string{
		"Jan 01, 2024 - Jan 31, 2024",
		"Jan 05, 2024 Paid to Swiggy Foods DEBIT ₹450.00",
		"10:15 am Transaction ID T240105101500",
		"UTR No. 412345678901",
		"Jan 06, 2024 Received from Ramesh Kumar CREDIT ₹12,345.50",
		"11:00 am Transaction ID T240106110000",
		"UTR No. 412345678902",
		"Jan 07, 2024 Paid to Airtel Broadband DEBIT ₹999",
		"09:30 pm Transaction ID T240107213000",
	}, lines)

	entries := mock.GetEntriesByLevel("DEBUG")
	require.NotEmpty(t, entries)
	v, ok := entries[0].FieldValue(logging.FieldFooterLine)
	assert.True(t, ok)
	assert.Equal(t, "Disclaimer: amounts are shown in INR", v)
}

func TestCleanLines_PagesJoinedInOrder(t *testing.T) {
	p, _ := newPipeline(t, Options{})

	lines := p.CleanLines([]string{"a\n b ", "c", "", "d"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestCleanLines_CustomOptions(t *testing.T) {
	p, _ := newPipeline(t, Options{
		SkipPrefixes:  []string{"Opening"},
		SkipPhrases:   []string{"  CLOSING BALANCE "},
		FooterMarkers: []string{"END OF STATEMENT", ""},
	})

	lines := p.CleanLines([]string{"Opening balance 10\nkeep me\nYour closing balance is 5\nPage 3\nend of statement\nafter"})
	assert.Equal(t, []string{"keep me", "Page 3"}, lines)
}

func TestCleanLines_PrefixIsCaseSensitive(t *testing.T) {
	p, _ := newPipeline(t, DefaultOptions())

	lines := p.CleanLines([]string{"page turner DEBIT", "Page 1"})
	assert.Equal(t, []string{"page turner DEBIT"}, lines)
}

func TestRun_NonTransactionLinesNeverReachParser(t *testing.T) {
	p, _ := newPipeline(t, Options{})

	result := p.Run([]string{"Opening balance ₹10\nClosing balance ₹20"})
	assert.Equal(t, 0, result.Count)
}

func TestRun_DateLineWithoutMarkerIsFiltered(t *testing.T) {
	p, _ := newPipeline(t, Options{})

	result := p.Run([]string{"Jan 05, 2024 10:15 AM\nPaid to Swiggy Foods DEBIT ₹450.00"})
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Transactions)
}

func TestCleanLines_FooterMarkerMustStartLine(t *testing.T) {
	p, _ := newPipeline(t, DefaultOptions())

	lines := p.CleanLines([]string{"Paid to Legal Co see disclaimer DEBIT\nDISCLAIMER: end\nPaid to After DEBIT"})
	assert.Equal(t, []string{"Paid to Legal Co see disclaimer DEBIT"}, lines)
}
