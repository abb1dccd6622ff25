package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "basic parse error",
			err: &ParseError{
				Parser: "PDF",
				Field:  "page",
				Value:  "3",
				Err:    errors.New("malformed content stream"),
			},
			expected: "PDF: failed to parse page='3': malformed content stream",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Parser: "rules",
				Field:  "categories",
				Value:  "",
				Err:    errors.New("empty table"),
			},
			expected: "rules: failed to parse categories='': empty table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Parser: "PDF", Field: "page", Value: "1", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Source: "cors", Reason: "credentials cannot be combined with wildcard origin"}
	assert.Equal(t, "validation failed for cors: credentials cannot be combined with wildcard origin", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "with content snippet",
			err: &InvalidFormatError{
				FilePath:             "upload.pdf",
				ExpectedFormat:       "PDF",
				ActualContentSnippet: "PK\x03\x04",
				Msg:                  "missing %PDF header",
			},
			expected: "invalid format in file 'upload.pdf': missing %PDF header. Expected: PDF. Content snippet: 'PK\x03\x04'",
		},
		{
			name: "without content snippet",
			err: &InvalidFormatError{
				FilePath:       "statement.txt",
				ExpectedFormat: "PDF",
				Msg:            "empty upload",
			},
			expected: "invalid format in file 'statement.txt': empty upload. Expected: PDF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("malformed xref table")
	err := &ExtractionError{FilePath: "statement.pdf", Extractor: "library", Err: cause}

	assert.Equal(t, "text extraction with library failed for 'statement.pdf': malformed xref table", err.Error())
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("processing upload: %w", err)
	var target *ExtractionError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "library", target.Extractor)
}

func TestRuleError(t *testing.T) {
	cause := errors.New("missing closing )")
	err := &RuleError{Category: "Fuel", Pattern: "(petrol", Err: cause}

	assert.Equal(t, `invalid pattern "(petrol" for category "Fuel": missing closing )`, err.Error())
	assert.Equal(t, cause, err.Unwrap())
}
