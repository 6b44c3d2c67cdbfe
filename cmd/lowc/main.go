// Command lowc lowers AST files into CFG IR listings.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lowc/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lowc",
		Short:         "Lower AST files to control-flow-graph IR",
		Long:          `lowc folds constants in a type-checked AST and lowers it into basic-block IR`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("dir", "C", ".", "run as if lowc was started in this directory")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("trace", "", "trace output file (- for stderr, *.ndjson for JSON)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug), default from lowc.toml")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in memory at --trace-level=error")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newASTCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// main exits with status 1 when the command fails.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
