// Package parsererror defines the typed errors returned at the edges of the
// extraction pipeline. Field-level misses inside the pipeline are never errors.
package parsererror

import "fmt"

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a configuration or input validation failure
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
}

// InvalidFormatError is returned when an uploaded document is not the
// expected kind of file at all.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExtractionError is returned when a document looks like a PDF but its page
// structure cannot be read.
type ExtractionError struct {
	FilePath  string
	Extractor string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction with %s failed for '%s': %v",
		e.Extractor, e.FilePath, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// RuleError is returned when a category rule cannot be compiled.
type RuleError struct {
	Category string
	Pattern  string
	Err      error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid pattern %q for category %q: %v",
		e.Pattern, e.Category, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
