// Package batch parses several statement files in parallel.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/txncat/internal/logging"
	"fjacquet/txncat/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when no positive worker count is configured.
const DefaultWorkers = 4

// FileProcessor parses one statement file.
type FileProcessor interface {
	ProcessFile(path string) (models.Result, error)
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path   string
	Result models.Result
	Err    error
}

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format(models.DateLayout),
		dr.End.Format(models.DateLayout))
}

// Runner fans files out to a bounded number of workers.
type Runner struct {
	processor FileProcessor
	workers   int
	logger    logging.Logger
}

// NewRunner creates a Runner. A non-positive workers selects DefaultWorkers.
func NewRunner(processor FileProcessor, workers int, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{processor: processor, workers: workers, logger: logger}
}

// Workers returns the concurrency limit.
func (r *Runner) Workers() int {
	return r.workers
}

// ProcessFiles parses every path and returns one FileResult per path, in
// input order. A failing file does not stop the others. Files not yet
// started when ctx is cancelled carry ctx.Err().
func (r *Runner) ProcessFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			res, err := r.processor.ProcessFile(path)
			if err != nil {
				r.logger.WithError(err).Error("Failed to parse file",
					logging.F(logging.FieldFile, path))
				results[i].Err = err
				return nil
			}

			r.logger.Debug("Loaded transactions from file",
				logging.F(logging.FieldFile, filepath.Base(path)),
				logging.F(logging.FieldCount, res.Count))
			results[i].Result = res
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Merge concatenates the records of the successful results, preserving input
// order, and returns the number of failed files.
func Merge(results []FileResult) (models.Result, int) {
	var records []models.TransactionRecord
	failed := 0
	for _, fr := range results {
		if fr.Err != nil {
			failed++
			continue
		}
		records = append(records, fr.Result.Transactions...)
	}
	return models.NewResult(records), failed
}

// CalculateDateRange returns the span of the dated records.
func CalculateDateRange(records []models.TransactionRecord) DateRange {
	var dr DateRange
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		if dr.Start.IsZero() || r.Date.Before(dr.Start) {
			dr.Start = *r.Date
		}
		if dr.End.IsZero() || r.Date.After(dr.End) {
			dr.End = *r.Date
		}
	}
	return dr
}

// ExpandInputs replaces each directory argument with the PDF files it
// contains, sorted by name. File arguments are kept as given.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("error reading input %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read input directory: %w", err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
