package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/lexer"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// tokens: print the token stream of a source file
var TokensCmd = &cobra.Command{
	Use:   "tokens <source.kal | ->",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokensRun,
}

func tokensRun(cmd *cobra.Command, args []string) error {
	var src io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "opening %s", args[0])
		}
		defer f.Close()
		src = f
	}
	return printTokens(cmd.OutOrStdout(), lexer.New(src))
}

// printTokens writes line:col, kind and the token itself, one token per line.
func printTokens(w io.Writer, l *lexer.Lexer) error {
	for {
		tok := l.NextToken()
		fmt.Fprintf(w, "%d:%d\t%s\t%s\n", tok.Line, tok.Column, tok.Kind, tok)
		if tok.Kind == token.EOF {
			return errors.Wrap(l.Err(), "reading source")
		}
	}
}
