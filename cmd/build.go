package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/kaleidoscope/internal/compiler"
)

// build: parse .kal -> .ast
var BuildCmd = &cobra.Command{
	Use:   "build <source.kal>",
	Short: "Write the syntax tree of a Kaleidoscope source file to the output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  buildRun,
}

func buildRun(cmd *cobra.Command, args []string) error {
	src := args[0]
	opts, err := options()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "↪ building %q → %q ...\n", src, outDir+"/")

	outFile, err := compiler.ParseAndWrite(src, outDir, opts)
	if err != nil {
		return reportSyntaxErrors(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✔︎ wrote syntax tree to %s\n", outFile)
	return nil
}
