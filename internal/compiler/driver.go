package compiler

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/jcgregorio/logger"
	"github.com/pkg/errors"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/ast"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/lexer"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/parser"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/precedence"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// SourceExt is the extension ParseAndWrite expects on source files.
const SourceExt = ".kal"

// Logger is the subset of github.com/jcgregorio/logger used by the driver.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

type Options struct {
	// Precedence is the binary operator table; nil means precedence.Default().
	Precedence *precedence.Table
	// MaxDepth bounds expression nesting; 0 means unlimited.
	MaxDepth int
	Logger   Logger
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return logger.NewNopLogger()
	}
	return o.Logger
}

// Parse reads top-level constructs from src until end of input.
//
//	top ::= definition | external | expression | ';'
//
// A construct that fails to parse is dropped, one token is discarded and
// parsing resumes, so the returned program holds only complete trees. All
// syntax errors are returned together as a *multierror.Error.
func Parse(src io.Reader, opts Options) (*ast.Program, error) {
	log := opts.logger()
	lex := lexer.New(src)
	p := parser.New(lex, opts.Precedence, parser.WithMaxDepth(opts.MaxDepth))

	prog := &ast.Program{}
	var errs *multierror.Error

	for {
		tok := p.Current()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Is(';') {
			p.Advance() // Top-level separators are no-ops
			continue
		}

		item, err := p.ParseTopLevel()
		if err != nil {
			err = describe(err)
			log.Debugf("%s", err) // Callers report the returned errors
			errs = multierror.Append(errs, err)
			p.Advance() // Skip token for error recovery
			continue
		}

		log.Debugf("%s", parsedMessage(item))
		prog.Items = append(prog.Items, item)
	}

	if err := lex.Err(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "reading source"))
	}
	return prog, errs.ErrorOrNil()
}

// ParseString is Parse over an in-memory source.
func ParseString(src string, opts Options) (*ast.Program, error) {
	return Parse(strings.NewReader(src), opts)
}

// ParseFile parses the source file at path. Use "-" for stdin.
func ParseFile(path string, opts Options) (*ast.Program, error) {
	if path == "-" {
		return Parse(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return Parse(f, opts)
}

// ParseAndWrite parses srcPath and writes the rendered program to
// outDir/<name>.ast, returning the path written.
func ParseAndWrite(srcPath, outDir string, opts Options) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	prog, err := ParseFile(srcPath, opts)
	if err != nil {
		return "", err
	}

	outFile, err := writeOutput(prog.String(), srcPath, outDir)
	if err != nil {
		return "", err
	}
	opts.logger().Infof("wrote %d top-level items to %s", len(prog.Items), outFile)
	return outFile, nil
}

// describe prefixes syntax errors with their source position.
func describe(err error) error {
	var serr *parser.SyntaxError
	if errors.As(err, &serr) {
		return errors.Wrapf(err, "%s: Syntax Error", serr.Pos())
	}
	return err
}

func parsedMessage(item ast.TopLevel) string {
	switch n := item.(type) {
	case *ast.Prototype:
		return "Parsed an extern"
	case *ast.Function:
		if n.IsAnonymous() {
			return "Parsed a top-level expr"
		}
		return "Parsed a function definition."
	}
	return "Parsed an unknown construct"
}

func validateExtension(path string) error {
	if filepath.Ext(path) != SourceExt {
		return errors.Errorf("source must have %s extension", SourceExt)
	}
	return nil
}

func writeOutput(out, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outDir)
	}
	outFile := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(srcPath), SourceExt)+".ast")
	if err := os.WriteFile(outFile, []byte(out), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", outFile)
	}
	return outFile, nil
}
