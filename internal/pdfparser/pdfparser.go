// Package pdfparser reads uploaded statement PDFs and hands their page text
// to the extraction pipeline.
package pdfparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"
	"fjacquet/txncat/internal/parsererror"
	"fjacquet/txncat/internal/pipeline"
)

// pdfMagic must appear within the first headerWindow bytes of a PDF.
var pdfMagic = []byte("%PDF-")

const headerWindow = 1024

// Processor turns PDF bytes into transaction records. It is safe for
// concurrent use when its extractor is.
type Processor struct {
	extractor PageExtractor
	pipeline  *pipeline.Pipeline
	logger    logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(extractor PageExtractor, p *pipeline.Pipeline, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if extractor == nil {
		extractor = NewLibraryExtractor(logger)
	}
	return &Processor{extractor: extractor, pipeline: p, logger: logger}
}

// Extractor returns the page extractor in use.
func (p *Processor) Extractor() PageExtractor {
	return p.extractor
}

// ValidateFormat checks that data carries a PDF header.
func ValidateFormat(name string, data []byte) error {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if bytes.Contains(window, pdfMagic) {
		return nil
	}

	snippet := window
	if len(snippet) > 16 {
		snippet = snippet[:16]
	}
	return &parsererror.InvalidFormatError{
		FilePath:             name,
		ExpectedFormat:       "PDF",
		ActualContentSnippet: fmt.Sprintf("%q", snippet),
		Msg:                  "file is not a valid PDF",
	}
}

// Process validates, extracts and parses one document. name is only used in
// errors and logs.
func (p *Processor) Process(name string, data []byte) (models.Result, error) {
	start := time.Now()

	if err := ValidateFormat(name, data); err != nil {
		return models.Result{}, err
	}

	pages, err := p.extractor.ExtractPages(data)
	if err != nil {
		var extractErr *parsererror.ExtractionError
		if errors.As(err, &extractErr) && extractErr.FilePath == "" {
			extractErr.FilePath = name
		}
		return models.Result{}, err
	}

	result := p.pipeline.Run(pages)

	p.logger.Info("Processed statement",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldExtractor, p.extractor.Name()),
		logging.F(logging.FieldPages, len(pages)),
		logging.F(logging.FieldCount, result.Count),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// ProcessReader reads r fully and processes it.
func (p *Processor) ProcessReader(name string, r io.Reader) (models.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Result{}, fmt.Errorf("error reading %s: %w", name, err)
	}
	return p.Process(name, data)
}

// ProcessFile processes the PDF at path.
func (p *Processor) ProcessFile(path string) (models.Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return models.Result{}, fmt.Errorf("error opening input file: %w", err)
	}
	return p.Process(path, data)
}
