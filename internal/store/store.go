// Package store loads the category rule table. The built-in table is embedded
// in the binary; a YAML file may replace it.
package store

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/parsererror"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// DefaultSource names the embedded table in logs.
const DefaultSource = "builtin"

// RuleStore resolves and reads the category rule table.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store. An empty rulesFile selects the built-in table.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "txncat", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules returns the active rule table and the source it was read from.
// A configured file that cannot be found falls back to the built-in table.
func (s *RuleStore) LoadRules() ([]models.CategoryRule, string, error) {
	if strings.TrimSpace(s.RulesFile) == "" {
		rules, err := DefaultRules()
		return rules, DefaultSource, err
	}

	path, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Rules file not found, using built-in table",
				logging.F(logging.FieldFile, s.RulesFile))
			rules, err := DefaultRules()
			return rules, DefaultSource, err
		}
		return nil, "", fmt.Errorf("error resolving rules file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied rules path
	if err != nil {
		return nil, "", fmt.Errorf("error reading rules file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, "", fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rules)))
	return rules, path, nil
}

// DefaultRules parses the embedded table.
func DefaultRules() ([]models.CategoryRule, error) {
	return ParseRules(defaultRulesYAML)
}

// ParseRules decodes a rule table. Both the "categories:" document form and a
// bare top-level list are accepted. Every category must carry a label from the
// closed vocabulary and at least one pattern.
func ParseRules(data []byte) ([]models.CategoryRule, error) {
	var cfg models.RulesConfig
	err := yaml.Unmarshal(data, &cfg)
	rules := cfg.Categories
	if err != nil || len(rules) == 0 {
		var list []models.CategoryRule
		if listErr := yaml.Unmarshal(data, &list); listErr == nil && len(list) > 0 {
			rules = list
			err = nil
		}
	}
	if err != nil {
		return nil, &parsererror.ParseError{Parser: "rules", Field: "categories", Value: "", Err: err}
	}
	if len(rules) == 0 {
		return nil, &parsererror.ValidationError{Source: "rules", Reason: "no categories defined"}
	}

	for _, r := range rules {
		if !models.IsKnownCategory(r.Name) {
			return nil, &parsererror.ValidationError{
				Source: "rules",
				Reason: fmt.Sprintf("unknown category label %q", r.Name),
			}
		}
		if len(r.Patterns) == 0 {
			return nil, &parsererror.ValidationError{
				Source: "rules",
				Reason: fmt.Sprintf("category %q has no patterns", r.Name),
			}
		}
	}
	return rules, nil
}

// SaveRules writes a rule table in the "categories:" document form.
func SaveRules(path string, rules []models.CategoryRule) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(models.RulesConfig{Categories: rules})
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}

	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}
	return nil
}
