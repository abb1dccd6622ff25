// Package common holds the output writers shared by the CLI commands.
package common

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"

	"github.com/gocarina/gocsv"
)

// Output formats accepted by the output.format setting.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DefaultDelimiter separates CSV fields unless configured otherwise.
const DefaultDelimiter = ','

// WriteRecordsCSV writes records as CSV. The header row is written even when
// there are no records.
func WriteRecordsCSV(w io.Writer, records []models.TransactionRecord, delimiter rune) error {
	rows := make([]models.TransactionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.ToRow())
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteResultJSON writes the result document, indented when pretty is set.
func WriteResultJSON(w io.Writer, result models.Result, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}

// ValidateFormat reports whether format is one WriteResult can produce.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case "", FormatJSON, FormatCSV:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteResult writes result in the given format.
func WriteResult(w io.Writer, result models.Result, format string, delimiter rune) error {
	if err := ValidateFormat(format); err != nil {
		return err
	}
	if strings.ToLower(format) == FormatCSV {
		return WriteRecordsCSV(w, result.Transactions, delimiter)
	}
	return WriteResultJSON(w, result, true)
}

// WriteResultToFile writes result to path, creating parent directories. The
// file is left untouched when format is not supported.
func WriteResultToFile(path string, result models.Result, format string, delimiter rune, logger logging.Logger) (err error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if err := ValidateFormat(format); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionReportFile) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("Failed to close file",
				logging.F(logging.FieldFile, path))
			if err == nil {
				err = fmt.Errorf("error closing output file: %w", closeErr)
			}
		}
	}()

	if err := WriteResult(file, result, format, delimiter); err != nil {
		return err
	}

	logger.Info("Wrote transactions",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, result.Count))
	return nil
}
