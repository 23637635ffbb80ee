package token

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	// Special
	EOF Kind = iota

	// Keywords
	Def    // def
	Extern // extern

	// Primary
	Ident  // Identifier (e.g. variable or function name)
	Number // 4, 1.5, .5

	// Any other single character: operators, punctuation, unknown bytes
	Symbol
)

var kindNames = map[Kind]string{
	EOF:    "EOF",
	Def:    "DEF",
	Extern: "EXTERN",
	Ident:  "IDENT",
	Number: "NUMBER",
	Symbol: "SYMBOL",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Token struct {
	Kind   Kind
	Text   string  // identifier/keyword text, or the raw numeric literal
	Value  float64 // converted value of a Number
	Sym    rune    // raw character of a Symbol
	Line   int     // 1-indexed
	Column int     // 1-indexed
}

// Is reports whether t is the symbol sym.
func (t Token) Is(sym rune) bool {
	return t.Kind == Symbol && t.Sym == sym
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Def, Extern:
		return "keyword " + strconv.Quote(t.Text)
	case Ident:
		return "identifier " + strconv.Quote(t.Text)
	case Number:
		return "number " + t.Text
	case Symbol:
		return strconv.QuoteRune(t.Sym)
	}
	return t.Kind.String()
}

// keywords maps identifier strings to their corresponding token kinds.
var keywords = map[string]Kind{
	"def":    Def,
	"extern": Extern,
}

// Lookup returns the keyword kind for ident, or Ident if it is not a keyword.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}
