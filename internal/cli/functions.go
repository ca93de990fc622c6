package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/roach88/bqchain/internal/funcs"
)

// FunctionsOptions holds flags for the functions command.
type FunctionsOptions struct {
	*RootOptions
	Namespace string
}

// FunctionInfo describes one registered function.
type FunctionInfo struct {
	Symbol string `json:"symbol"`
	SQL    string `json:"sql"`
	Args   string `json:"args"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FunctionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the functions query documents can call",
		Long: `List the function catalog: the symbol a document calls, the SQL it
renders to and the accepted argument count.

Examples:
  bqchain functions
  bqchain functions --namespace String`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunctions(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "only list this namespace (case-insensitive)")

	return cmd
}

func runFunctions(cmd *cobra.Command, opts *FunctionsOptions) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	infos := listFunctions(funcs.Default(), opts.Namespace)
	if len(infos) == 0 && opts.Namespace != "" {
		err := fmt.Errorf("no functions in namespace %q", opts.Namespace)
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	out := &strings.Builder{}
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment([]tw.Align{tw.AlignNone, tw.AlignNone, tw.AlignNone}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header([]string{"Symbol", "SQL", "Args"})
	for _, info := range infos {
		table.Append([]string{info.Symbol, info.SQL, info.Args})
	}
	table.Render()
	fmt.Fprintf(out, "\n_%s functions_\n", humanize.Comma(int64(len(infos))))

	_, err := fmt.Fprint(formatter.Writer, out.String())
	return err
}

// listFunctions returns reg's functions sorted by symbol, optionally
// restricted to one namespace.
func listFunctions(reg *funcs.Registry, namespace string) []FunctionInfo {
	infos := []FunctionInfo{}
	for _, sym := range reg.Symbols() {
		if namespace != "" && !strings.EqualFold(sym.Namespace, namespace) {
			continue
		}
		rule, _ := reg.Lookup(sym)
		infos = append(infos, FunctionInfo{
			Symbol: sym.String(),
			SQL:    rule.Describe(),
			Args:   rule.ArityString(),
		})
	}
	return infos
}
