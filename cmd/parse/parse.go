// Package parse implements the command that parses statement PDFs locally.
package parse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/txncat/cmd/root"
	"fjacquet/txncat/internal/batch"
	"fjacquet/txncat/internal/common"
	"fjacquet/txncat/internal/container"
	"fjacquet/txncat/internal/logging"

	"github.com/spf13/cobra"
)

// Options are the parse command flags.
type Options struct {
	Format    string
	Delimiter string
	Output    string
	Workers   int
	Summary   bool
}

var opts Options

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse <file.pdf|dir>...",
	Short: "Parse statement PDFs and print their transactions",
	Long: `Parse one or more statement PDFs and write the categorized transactions
as JSON or CSV. Directories are expanded to the PDF files they contain. Files
are parsed in parallel and their transactions are written in argument order.

Example:
  txncat parse statement.pdf
  txncat parse --format csv --output out/all.csv statements/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), root.GetContainer(), args, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json or csv (default from output.format)")
	Cmd.Flags().StringVarP(&opts.Delimiter, "delimiter", "d", "", "CSV delimiter (default from output.csv_delimiter)")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: stdout)")
	Cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Files parsed in parallel (default from batch.workers)")
	Cmd.Flags().BoolVarP(&opts.Summary, "summary", "s", false, "Print per-category totals to stderr")
}

// Run parses paths and writes the merged result to the output file or out.
// It fails when any input file could not be parsed, after writing the
// transactions of the others.
func Run(ctx context.Context, c *container.Container, paths []string, o Options, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := c.GetConfig()
	logger := c.GetLogger()

	format := o.Format
	if format == "" {
		format = cfg.Output.Format
	}
	if err := common.ValidateFormat(format); err != nil {
		return err
	}
	delimiter := cfg.Delimiter()
	if o.Delimiter != "" {
		r := []rune(o.Delimiter)
		if len(r) != 1 {
			return fmt.Errorf("CSV delimiter must be a single character, got: %s", o.Delimiter)
		}
		delimiter = r[0]
	}

	files, err := batch.ExpandInputs(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", strings.Join(paths, ", "))
	}

	results := c.NewBatchRunner(o.Workers).ProcessFiles(ctx, files)
	merged, failed := batch.Merge(results)

	logger.Info("Parsed statements",
		logging.F(logging.FieldFiles, len(files)),
		logging.F(logging.FieldFailed, failed),
		logging.F(logging.FieldCount, merged.Count),
		logging.F(logging.FieldDateRange, batch.CalculateDateRange(merged.Transactions).String()))

	if o.Output != "" {
		err = common.WriteResultToFile(o.Output, merged, format, delimiter, logger)
	} else {
		err = common.WriteResult(out, merged, format, delimiter)
	}
	if err != nil {
		return err
	}

	if o.Summary {
		if err := common.WriteSummary(errOut, merged.Transactions); err != nil {
			return err
		}
	}

	if failed > 0 {
		var names []string
		for _, r := range results {
			if r.Err != nil {
				names = append(names, r.Path)
			}
		}
		return fmt.Errorf("%d of %d files failed: %s", failed, len(files), strings.Join(names, ", "))
	}
	return nil
}
