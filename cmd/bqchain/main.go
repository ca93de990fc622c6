// Command bqchain renders and runs BigQuery legacy SQL query documents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/bqchain/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own failures; anything else (flag parsing,
		// an invalid --format) is printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
