package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// Extractor names accepted by the pdf.extractor setting.
const (
	ExtractorLibrary   = "library"
	ExtractorPdftotext = "pdftotext"
)

// PageExtractor returns the text of every page of a PDF document, in page
// order. A page without a text layer yields an empty string.
type PageExtractor interface {
	ExtractPages(data []byte) ([]string, error)
	Name() string
}

// NewExtractor returns the extractor registered under name.
func NewExtractor(name string, logger logging.Logger) (PageExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ExtractorLibrary:
		return NewLibraryExtractor(logger), nil
	case ExtractorPdftotext:
		return NewPdftotextExtractor(logger), nil
	default:
		return nil, fmt.Errorf("unknown pdf extractor %q", name)
	}
}

// LibraryExtractor reads PDFs in-process with github.com/ledongthuc/pdf.
type LibraryExtractor struct {
	logger logging.Logger
}

// NewLibraryExtractor creates a LibraryExtractor.
func NewLibraryExtractor(logger logging.Logger) *LibraryExtractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &LibraryExtractor{logger: logger}
}

// Name implements PageExtractor.
func (e *LibraryExtractor) Name() string { return ExtractorLibrary }

// ExtractPages rebuilds each page row by row. The library panics on some
// malformed documents; that is reported as an ExtractionError.
func (e *LibraryExtractor) ExtractPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &parsererror.ExtractionError{
				Extractor: ExtractorLibrary,
				Err:       fmt.Errorf("PDF library crashed: %v", r),
			}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &parsererror.ExtractionError{Extractor: ExtractorLibrary, Err: err}
	}

	numPages := r.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, e.pageText(r.Page(i), i))
	}
	return pages, nil
}

func (e *LibraryExtractor) pageText(page pdf.Page, num int) string {
	if page.V.IsNull() {
		return ""
	}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				if s := strings.TrimSpace(word.S); s != "" {
					parts = append(parts, s)
				}
			}
			if line := strings.Join(parts, " "); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		e.logger.WithError(err).Debug("No text layer on page", logging.F("page", num))
		return ""
	}
	return strings.TrimSpace(text)
}

// PdftotextExtractor shells out to poppler's pdftotext. Pages are split on
// the form feed pdftotext writes after each page.
type PdftotextExtractor struct {
	Binary  string
	Timeout time.Duration
	logger  logging.Logger
}

// NewPdftotextExtractor creates a PdftotextExtractor using "pdftotext" from PATH.
func NewPdftotextExtractor(logger logging.Logger) *PdftotextExtractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &PdftotextExtractor{Binary: "pdftotext", Timeout: time.Minute, logger: logger}
}

// Name implements PageExtractor.
func (e *PdftotextExtractor) Name() string { return ExtractorPdftotext }

// ExtractPages writes the document to a temporary file and runs
// "pdftotext -layout <file> -".
func (e *PdftotextExtractor) ExtractPages(data []byte) ([]string, error) {
	tempFile, err := os.CreateTemp("", "txncat-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			e.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.F(logging.FieldFile, tempFile.Name()))
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return nil, fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.Timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, "-layout", tempFile.Name(), "-") // #nosec G204 -- binary comes from configuration
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &parsererror.ExtractionError{
			FilePath:  tempFile.Name(),
			Extractor: ExtractorPdftotext,
			Err:       fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String())),
		}
	}

	return splitPages(string(out)), nil
}

func splitPages(text string) []string {
	text = strings.TrimSuffix(text, "\f")
	if text == "" {
		return []string{}
	}
	pages := strings.Split(text, "\f")
	for i := range pages {
		pages[i] = strings.TrimRight(pages[i], "\n")
	}
	return pages
}

// MockExtractor returns fixed pages, for tests.
type MockExtractor struct {
	Pages []string
	Err   error
	calls atomic.Int64
}

// NewMockExtractor creates a MockExtractor returning pages or err.
func NewMockExtractor(pages []string, err error) *MockExtractor {
	return &MockExtractor{Pages: pages, Err: err}
}

// Name implements PageExtractor.
func (e *MockExtractor) Name() string { return "mock" }

// Calls returns how many times ExtractPages ran.
func (e *MockExtractor) Calls() int {
	return int(e.calls.Load())
}

// ExtractPages returns the configured pages or error.
func (e *MockExtractor) ExtractPages(data []byte) ([]string, error) {
	e.calls.Add(1)
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Pages, nil
}
