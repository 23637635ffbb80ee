package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// eof is the lookahead value once the source is exhausted.
const eof rune = -1

type Lexer struct {
	src io.RuneReader
	ch  rune  // lookahead char, not yet part of any token
	err error // first non-EOF read error

	line   int // line of ch (1-indexed)
	column int // column of ch (1-indexed)
}

// New returns a Lexer pulling characters from src one rune at a time.
func New(src io.Reader) *Lexer {
	rr, ok := src.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(src)
	}
	// The lookahead starts out as a space so the first call to NextToken
	// skips it like any other whitespace.
	return &Lexer{src: rr, ch: ' ', line: 1, column: 0}
}

func NewString(input string) *Lexer {
	return New(strings.NewReader(input))
}

// Err returns the first read error other than io.EOF, if any. A read error
// ends the input the same way io.EOF does.
func (l *Lexer) Err() error {
	return l.err
}

// readChar replaces the lookahead with the next char from the source and
// keeps line/column numbers in step with it.
func (l *Lexer) readChar() {
	if l.ch == eof {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	r, _, err := l.src.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		l.ch = eof
		return
	}
	l.ch = r
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column

	// def, extern, identifiers
	if isLetter(l.ch) {
		ident := l.readIdentifier()
		return token.Token{Kind: token.Lookup(ident), Text: ident, Line: line, Column: col}
	}

	// Numbers. Malformed literals such as 1.2.3 are accepted as one token.
	if isDigit(l.ch) || l.ch == '.' {
		lit := l.readNumber()
		return token.Token{Kind: token.Number, Text: lit, Value: parseNumber(lit), Line: line, Column: col}
	}

	if l.ch == '#' {
		l.skipComment()
		if l.ch != eof {
			return l.NextToken()
		}
		line, col = l.line, l.column
	}

	if l.ch == eof {
		return token.Token{Kind: token.EOF, Line: line, Column: col}
	}

	tok := token.Token{Kind: token.Symbol, Sym: l.ch, Text: string(l.ch), Line: line, Column: col}
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

// skipComment discards everything up to, but not including, the end of the line.
func (l *Lexer) skipComment() {
	for l.ch != eof && l.ch != '\n' && l.ch != '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for isLetter(l.ch) || isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readNumber() string {
	var sb strings.Builder
	for isDigit(l.ch) || l.ch == '.' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

// parseNumber converts a [0-9.]+ literal the way strtod would: the longest
// valid prefix wins, and a literal with no valid prefix is 0.
func parseNumber(lit string) float64 {
	v, err := strconv.ParseFloat(lit, 64)
	if err == nil || isRangeErr(err) {
		return v
	}

	// Only a second '.' can make a [0-9.]+ literal invalid, so cut there.
	if first := strings.IndexByte(lit, '.'); first >= 0 {
		if second := strings.IndexByte(lit[first+1:], '.'); second >= 0 {
			lit = lit[:first+1+second]
		}
	}
	v, err = strconv.ParseFloat(lit, 64)
	if err == nil || isRangeErr(err) {
		return v
	}
	return 0
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// isSpace matches the C locale's isspace.
func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
