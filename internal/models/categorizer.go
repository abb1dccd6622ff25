package models

// CategoryRule represents one entry of the category table in the YAML file.
// Patterns are regular expressions matched case-insensitively.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// RulesConfig represents the structure of the rules YAML file
type RulesConfig struct {
	Categories []CategoryRule `yaml:"categories"`
}
