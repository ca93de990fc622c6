package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/querydoc"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Color bool
}

// RenderResult is the JSON payload of render.
type RenderResult struct {
	Name  string `json:"name,omitempty"`
	Query string `json:"query"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Print the legacy SQL for a query document",
		Long: `Build a query document and print the SQL text it produces.

Examples:
  bqchain render queries/adults.yaml
  bqchain render --flat queries/adults.yaml
  bqchain render --format json queries/adults.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolVar(&opts.Color, "color", false, "highlight SQL keywords")

	return cmd
}

func runRender(cmd *cobra.Command, opts *RenderOptions, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, q, err := loadQuery(opts.RootOptions, formatter, path, nil)
	if err != nil {
		return err
	}

	text, err := q.Build()
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, ExitFailure, err)
	}

	if opts.Format == "json" {
		return formatter.Success(RenderResult{Name: doc.Name, Query: text})
	}
	return formatter.Success(highlight(text, opts.Color))
}

// loadQuery reads the config and the document at path and replays it
// through a client backed by runner (nil for render-only use).
func loadQuery(opts *RootOptions, formatter *OutputFormatter, path string, runner query.Runner) (*querydoc.Document, query.Executable, error) {
	cfg, err := opts.clientConfig()
	if err != nil {
		return nil, nil, formatter.Fail(ErrCodeConfig, ExitCommandError, err)
	}

	formatter.VerboseLog("Loading %s", path)
	doc, err := querydoc.Load(path)
	if err != nil {
		return nil, nil, formatter.Fail(ErrCodeDocument, ExitCommandError, err)
	}

	clientOpts := []query.ClientOption{
		query.WithConfig(cfg),
		query.WithLogger(opts.logger(formatter.GetErrWriter())),
	}
	if runner != nil {
		clientOpts = append(clientOpts, query.WithRunner(runner))
	}

	q, err := querydoc.Build(query.NewClient(clientOpts...), doc)
	if err != nil {
		return nil, nil, formatter.Fail(ErrCodeDocument, ExitCommandError, err)
	}
	return doc, q, nil
}
