// Package categorizer assigns a spending category to a transaction narration
// using an ordered table of regular-expression rules.
package categorizer

import (
	"regexp"
	"strings"

	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/parsererror"
	"fjacquet/txncat/internal/store"
)

// Categorizer is the contract the transaction parser depends on.
type Categorizer interface {
	Categorize(description string, direction models.Direction) string
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

type compiledCategory struct {
	name     string
	patterns []compiledPattern
}

// RuleSet is an immutable, compiled category table. It is safe for
// concurrent use by any number of goroutines.
type RuleSet struct {
	categories []compiledCategory
}

// Match describes how a category was chosen. Pattern is empty when the
// category came from the credit override or the fallback.
type Match struct {
	Category string
	Pattern  string
}

// NewRuleSet compiles rules in declaration order. Every pattern is matched
// case-insensitively.
func NewRuleSet(rules []models.CategoryRule) (*RuleSet, error) {
	rs := &RuleSet{categories: make([]compiledCategory, 0, len(rules))}
	for _, rule := range rules {
		cat := compiledCategory{name: rule.Name, patterns: make([]compiledPattern, 0, len(rule.Patterns))}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, &parsererror.RuleError{Category: rule.Name, Pattern: p, Err: err}
			}
			cat.patterns = append(cat.patterns, compiledPattern{source: p, re: re})
		}
		rs.categories = append(rs.categories, cat)
	}
	return rs, nil
}

// DefaultRuleSet compiles the built-in table.
func DefaultRuleSet() (*RuleSet, error) {
	rules, err := store.DefaultRules()
	if err != nil {
		return nil, err
	}
	return NewRuleSet(rules)
}

// Categorize returns exactly one label for the narration.
func (rs *RuleSet) Categorize(description string, direction models.Direction) string {
	return rs.Match(description, direction).Category
}

// Match runs the table: credits are always income, otherwise the first
// category (then first pattern) matching the description wins, and anything
// unmatched is an "Other Expense".
func (rs *RuleSet) Match(description string, direction models.Direction) Match {
	if direction == models.DirectionCredit {
		return Match{Category: models.CategoryIncome}
	}

	desc := strings.ToLower(description)
	for _, cat := range rs.categories {
		for _, p := range cat.patterns {
			if p.re.MatchString(desc) {
				return Match{Category: cat.name, Pattern: p.source}
			}
		}
	}
	return Match{Category: models.CategoryOtherExpense}
}

// Labels returns the category labels in declaration order.
func (rs *RuleSet) Labels() []string {
	out := make([]string, len(rs.categories))
	for i, c := range rs.categories {
		out[i] = c.name
	}
	return out
}

// Rules returns the uncompiled table, in declaration order.
func (rs *RuleSet) Rules() []models.CategoryRule {
	out := make([]models.CategoryRule, len(rs.categories))
	for i, c := range rs.categories {
		patterns := make([]string, len(c.patterns))
		for j, p := range c.patterns {
			patterns[j] = p.source
		}
		out[i] = models.CategoryRule{Name: c.name, Patterns: patterns}
	}
	return out
}
