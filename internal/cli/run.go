package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roach88/bqchain/internal/bqrunner"
	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/sqlrunner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	SQLite   string
	Project  string
	Location string
	Labels   map[string]string
	MaxBytes string
	DryRun   bool
	Timeout  time.Duration
}

// RunResult is the JSON payload of run.
type RunResult struct {
	Query   string           `json:"query"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// DryRunResult is the JSON payload of run --dry-run.
type DryRunResult struct {
	Query          string `json:"query"`
	BytesProcessed int64  `json:"bytes_processed"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Run a query document",
		Long: `Build a query document and run it against BigQuery (--project)
or a local SQLite database (--sqlite).

Text output is a markdown table; JSON output carries the query, the
column names and the rows.

Examples:
  bqchain run --project my-project queries/adults.yaml
  bqchain run --project my-project --dry-run queries/adults.yaml
  bqchain run --sqlite fixtures.db --format json queries/adults.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "path to a SQLite database to run against")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Google Cloud project to run BigQuery jobs in")
	cmd.Flags().StringVar(&opts.Location, "location", "", "BigQuery job location")
	cmd.Flags().StringToStringVar(&opts.Labels, "label", nil, "BigQuery job label (key=value, repeatable)")
	cmd.Flags().StringVar(&opts.MaxBytes, "max-bytes-billed", "", "fail BigQuery jobs that would bill more than this (e.g. 10GB)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report the bytes a BigQuery job would process")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "cancel the query after this long (0 = no limit)")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if err := opts.validate(); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	runner, closeRunner, err := opts.openRunner(ctx, formatter)
	if err != nil {
		return formatter.Fail(ErrCodeBackend, ExitCommandError, err)
	}
	defer closeRunner()

	_, q, err := loadQuery(opts.RootOptions, formatter, path, runner)
	if err != nil {
		return err
	}

	text, err := q.Build()
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, ExitFailure, err)
	}

	if opts.DryRun {
		n, err := runner.(*bqrunner.Runner).DryRun(ctx, text)
		if err != nil {
			return formatter.Fail(ErrCodeBackend, ExitFailure, err)
		}
		if opts.Format == "json" {
			return formatter.Success(DryRunResult{Query: text, BytesProcessed: n})
		}
		return formatter.Success(fmt.Sprintf("This query will process %s.", humanize.Bytes(uint64(n))))
	}

	start := time.Now()
	result, err := collect(ctx, q)
	if err != nil {
		return formatter.Fail(ErrCodeBackend, ExitFailure, err)
	}
	result.Query = text
	formatter.VerboseLog("Read %s rows in %s", humanize.Comma(int64(len(result.Rows))), time.Since(start).Round(time.Millisecond))

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	_, err = io.WriteString(formatter.Writer, formatTable(result))
	return err
}

func (o *RunOptions) validate() error {
	switch {
	case o.SQLite == "" && o.Project == "":
		return errors.New("one of --sqlite or --project is required")
	case o.SQLite != "" && o.Project != "":
		return errors.New("--sqlite and --project are mutually exclusive")
	case o.DryRun && o.Project == "":
		return errors.New("--dry-run requires --project")
	case o.SQLite != "" && (o.Location != "" || len(o.Labels) > 0 || o.MaxBytes != ""):
		return errors.New("--location, --label and --max-bytes-billed require --project")
	}
	if _, err := o.maxBytesBilled(); err != nil {
		return err
	}
	return nil
}

// maxBytesBilled parses --max-bytes-billed ("10GB", "500 MiB"); empty
// means no cap.
func (o *RunOptions) maxBytesBilled() (int64, error) {
	if o.MaxBytes == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(o.MaxBytes)
	if err != nil {
		return 0, fmt.Errorf("invalid --max-bytes-billed: %w", err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid --max-bytes-billed: %s is too large", o.MaxBytes)
	}
	return int64(n), nil
}

// openRunner opens the selected backend. The returned func releases it.
func (o *RunOptions) openRunner(ctx context.Context, formatter *OutputFormatter) (query.Runner, func(), error) {
	logger := o.logger(formatter.GetErrWriter())

	if o.SQLite != "" {
		formatter.VerboseLog("Opening SQLite database %s", o.SQLite)
		r, err := sqlrunner.Open(o.SQLite, sqlrunner.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	}

	formatter.VerboseLog("Connecting to BigQuery project %s", o.Project)
	maxBytes, err := o.maxBytesBilled()
	if err != nil {
		return nil, nil, err
	}
	bqOpts := []bqrunner.Option{
		bqrunner.WithLogger(logger),
		bqrunner.WithLabels(o.Labels),
		bqrunner.WithMaxBytesBilled(maxBytes),
	}
	if o.Location != "" {
		bqOpts = append(bqOpts, bqrunner.WithLocation(o.Location))
	}
	r, err := bqrunner.New(ctx, o.Project, bqOpts...)
	if err != nil {
		return nil, nil, err
	}
	return r, func() { _ = r.Close() }, nil
}

// columnLister is implemented by rows that know their select order.
type columnLister interface {
	Columns() []string
}

// collect runs q and reads every row as a map.
func collect(ctx context.Context, q query.Executable) (*RunResult, error) {
	rows, err := q.Run(ctx)
	if err != nil {
		return nil, err
	}
	if c, ok := rows.(io.Closer); ok {
		defer c.Close()
	}

	result := &RunResult{Rows: []map[string]any{}}
	for {
		var row map[string]any
		err := rows.Next(&row)
		if errors.Is(err, query.ErrDone) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, row)
	}

	if cl, ok := rows.(columnLister); ok {
		result.Columns = cl.Columns()
	}
	if len(result.Columns) == 0 && len(result.Rows) > 0 {
		for k := range result.Rows[0] {
			result.Columns = append(result.Columns, k)
		}
		slices.Sort(result.Columns)
	}
	return result, nil
}

// formatTable renders a result as a markdown table followed by a row
// count.
func formatTable(r *RunResult) string {
	if len(r.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_\n", r.Columns)
	}

	out := &strings.Builder{}

	alignment := make([]tw.Align, len(r.Columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(r.Columns)

	for _, row := range r.Rows {
		cells := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			cells[i] = formatValue(row[col])
		}
		table.Append(cells)
	}
	table.Render()

	fmt.Fprintf(out, "\n_%s rows_\n", humanize.Comma(int64(len(r.Rows))))
	return out.String()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05.000000 UTC")
	default:
		return fmt.Sprint(v)
	}
}
