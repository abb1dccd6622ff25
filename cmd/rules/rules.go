// Package rules prints or exports the active category rule table.
package rules

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/txncat/cmd/root"
	"fjacquet/txncat/internal/categorizer"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/store"

	"github.com/spf13/cobra"
)

var exportPath string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the category rule table",
	Long: `Show the active category rule table in evaluation order. The first
category with a matching pattern wins; narrations matching nothing are
categorized as "Other Expense" and credits are always income.

Use --export to write the table as YAML, as a starting point for rules.file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if exportPath != "" {
			if err := store.SaveRules(exportPath, c.GetRuleSet().Rules()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Exported %d categories to %s\n", len(c.GetRuleSet().Rules()), exportPath)
			return err
		}
		return Print(cmd.OutOrStdout(), c.GetRuleSet(), c.GetRulesSource())
	},
}

func init() {
	Cmd.Flags().StringVarP(&exportPath, "export", "e", "", "Write the rule table to this YAML file")
}

// Print writes one line per category with its patterns.
func Print(w io.Writer, rs *categorizer.RuleSet, source string) error {
	if _, err := fmt.Fprintf(w, "# source: %s\n", source); err != nil {
		return err
	}
	for i, r := range rs.Rules() {
		if _, err := fmt.Fprintf(w, "%2d. %s: %s\n", i+1, r.Name, strings.Join(r.Patterns, ", ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "    %s: (fallback)\n", models.CategoryOtherExpense)
	return err
}
