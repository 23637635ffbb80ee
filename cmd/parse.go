package cmd

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kaleidoscope/internal/compiler"
)

var dumpAST bool

// dumpConfig prints node fields rather than their String forms.
var dumpConfig = &spew.ConfigState{
	Indent:                  " ",
	DisableMethods:          true,
	DisablePointerAddresses: true,
}

// parse: print the syntax tree of a source file
var ParseCmd = &cobra.Command{
	Use:   "parse <source.kal | ->",
	Short: "Print the syntax tree of a source file",
	Long: `Print the syntax tree of a source file, one top-level construct per line,
with every binary operation parenthesized. Use - to read from stdin.

Constructs that fail to parse are reported and skipped; the rest are still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: parseRun,
}

func init() {
	ParseCmd.Flags().BoolVar(&dumpAST, "dump", false, "dump the raw node structure instead of source form")
}

func parseRun(cmd *cobra.Command, args []string) error {
	opts, err := options()
	if err != nil {
		return err
	}

	prog, parseErr := compiler.ParseFile(args[0], opts)
	if prog == nil {
		return parseErr
	}

	out := cmd.OutOrStdout()
	if dumpAST {
		dumpConfig.Fdump(out, prog.Items)
	} else {
		fmt.Fprint(out, prog.String())
	}
	return reportSyntaxErrors(parseErr)
}
