// Package precedence holds the binary operator table consulted by the parser.
//
// A table is plain configuration: the parser treats any symbol with an entry
// as a binary operator, and any symbol without one as the end of an
// expression.
package precedence

import (
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// None is returned for tokens that are not binary operators.
const None = -1

type Table struct {
	ops map[rune]int
}

func New() *Table {
	return &Table{ops: make(map[rune]int)}
}

// Default returns the reference table: < 10, - 20, + 20, * 40.
func Default() *Table {
	t := New()
	t.ops['<'] = 10
	t.ops['-'] = 20
	t.ops['+'] = 20
	t.ops['*'] = 40
	return t
}

// Define registers op with the given precedence, replacing any existing entry.
// Higher numbers bind tighter. The precedence must be positive, and op must be
// a character the lexer emits as a standalone symbol.
func (t *Table) Define(op rune, prec int) error {
	if prec <= 0 {
		return errors.Errorf("precedence for %q must be positive, got %d", op, prec)
	}
	if !isOperatorRune(op) {
		return errors.Errorf("%q cannot be used as a binary operator", op)
	}
	t.ops[op] = prec
	return nil
}

// Lookup returns the precedence of op, if registered.
func (t *Table) Lookup(op rune) (int, bool) {
	prec, ok := t.ops[op]
	return prec, ok
}

// Precedence returns the precedence of tok as a binary operator, or None.
func (t *Table) Precedence(tok token.Token) int {
	if tok.Kind != token.Symbol {
		return None
	}
	if prec, ok := t.ops[tok.Sym]; ok {
		return prec
	}
	return None
}

// Operators returns the registered operators ordered by precedence, then by
// character.
func (t *Table) Operators() []rune {
	ops := make([]rune, 0, len(t.ops))
	for op := range t.ops {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if t.ops[ops[i]] != t.ops[ops[j]] {
			return t.ops[ops[i]] < t.ops[ops[j]]
		}
		return ops[i] < ops[j]
	})
	return ops
}

func (t *Table) Len() int { return len(t.ops) }

// isOperatorRune rejects characters the lexer folds into identifiers, numbers,
// comments or whitespace; those never reach the parser as a lone symbol.
func isOperatorRune(op rune) bool {
	switch {
	case op == utf8.RuneError || op < 0:
		return false
	case 'a' <= op && op <= 'z', 'A' <= op && op <= 'Z', '0' <= op && op <= '9':
		return false
	}
	switch op {
	case '.', '#', ' ', '\t', '\n', '\v', '\f', '\r':
		return false
	}
	return true
}

// --- Configuration ---

// fileConfig is the on-disk shape of a precedence table:
//
//	binops:
//	  "<": 10
//	  "+": 20
type fileConfig struct {
	BinOps map[string]int `json:"binops"`
}

// Load reads a YAML precedence table from r.
func Load(r io.Reader) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading precedence table")
	}
	var cfg fileConfig
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding precedence table")
	}

	t := New()
	for key, prec := range cfg.BinOps {
		op, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, errors.Errorf("operator %q must be a single character", key)
		}
		if err := t.Define(op, prec); err != nil {
			return nil, errors.Wrapf(err, "operator %q", key)
		}
	}
	return t, nil
}

// LoadFile reads a YAML precedence table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return t, nil
}

// Marshal encodes t in the format read by Load.
func Marshal(t *Table) ([]byte, error) {
	cfg := fileConfig{BinOps: make(map[string]int, len(t.ops))}
	for op, prec := range t.ops {
		cfg.BinOps[string(op)] = prec
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "encoding precedence table")
	}
	return b, nil
}

// Write encodes t to w in the format read by Load.
func Write(w io.Writer, t *Table) error {
	b, err := Marshal(t)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "writing precedence table")
}
