package cmd

import (
	"os"

	"github.com/fatih/color"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kaleidoscope/internal/compiler"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/precedence"
)

var (
	outDir   string
	precFile string
	maxDepth int
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "kal",
	Short: "Kal - front end for the Kaleidoscope toy language",
	Long: `Kal lexes and parses Kaleidoscope source into an abstract syntax tree.

Commands:
  init    Scaffold a new Kaleidoscope project
  parse   Print the syntax tree of a source file
  build   Write the syntax tree of a (.kal) source file to the output directory
  tokens  Print the token stream of a source file
  ops     List the binary operator precedence table
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory for build artifacts")
	rootCmd.PersistentFlags().StringVarP(&precFile, "prec", "p", "", "YAML file with the binary operator precedence table (default: built-in table)")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 0, "maximum expression nesting depth, 0 for unlimited")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every parsed construct")

	rootCmd.AddCommand(InitCmd, ParseCmd, BuildCmd, TokensCmd, OpsCmd)
}

// loadTable returns the table named by --prec, or the built-in one.
func loadTable() (*precedence.Table, error) {
	if precFile == "" {
		return precedence.Default(), nil
	}
	return precedence.LoadFile(precFile)
}

// options builds the driver options from the persistent flags.
func options() (compiler.Options, error) {
	tbl, err := loadTable()
	if err != nil {
		return compiler.Options{}, err
	}
	if maxDepth < 0 {
		return compiler.Options{}, errors.Errorf("--max-depth must not be negative, got %d", maxDepth)
	}
	return compiler.Options{
		Precedence: tbl,
		MaxDepth:   maxDepth,
		Logger: logger.NewFromOptions(&logger.Options{
			SyncWriter:   os.Stderr,
			IncludeDebug: verbose,
		}),
	}, nil
}

// reportSyntaxErrors prints each collected error in red and returns a
// summary error, or nil if err is nil.
func reportSyntaxErrors(err error) error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err
	}
	red := color.New(color.FgRed)
	for _, e := range merr.Errors {
		red.Fprintln(os.Stderr, e)
	}
	return errors.Errorf("%d error(s)", len(merr.Errors))
}
