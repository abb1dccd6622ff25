// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"

	"fjacquet/txncat/cmd/root"
	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/models"

	"github.com/spf13/cobra"
)

var (
	description string
	direction   string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction narration",
	Long: `Categorize a transaction narration with the active rule table and show
which pattern decided the category. Credits are always income.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout(), root.GetContainer().GetRuleSet(), description, direction)
	},
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction narration to categorize")
	Cmd.Flags().StringVarP(&direction, "direction", "t", "DEBIT", "Transaction direction: DEBIT or CREDIT")
	_ = Cmd.MarkFlagRequired("description")
}

// Run prints the category of one narration and the reason it was chosen.
func Run(w io.Writer, rs *categorizer.RuleSet, desc, dir string) error {
	d := models.ParseDirection(dir)
	if d == models.DirectionUnknown && dir != "" {
		return fmt.Errorf("invalid direction %q (must be DEBIT or CREDIT)", dir)
	}

	m := rs.Match(desc, d)

	reason := "pattern " + m.Pattern
	switch {
	case d == models.DirectionCredit:
		reason = "credit"
	case m.Pattern == "":
		reason = "no pattern matched"
	}

	_, err := fmt.Fprintf(w, "Category: %s\nReason:   %s\n", m.Category, reason)
	return err
}
