package parser

import (
	"fmt"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/ast"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/precedence"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// TokenSource is anything that hands out tokens one at a time, such as a
// *lexer.Lexer.
type TokenSource interface {
	NextToken() token.Token
}

// SyntaxError reports the grammar expectation that the token at Tok violated.
type SyntaxError struct {
	Msg string
	Tok token.Token
}

func (e *SyntaxError) Error() string { return e.Msg }

// Pos returns the line:column of the offending token.
func (e *SyntaxError) Pos() string {
	return fmt.Sprintf("%d:%d", e.Tok.Line, e.Tok.Column)
}

// Parser is a recursive descent parser with one token of lookahead. Every
// parse method expects the current token to be the first token of its
// construct and, on success, leaves it on the first token after it.
type Parser struct {
	l      TokenSource
	curTok token.Token
	prec   *precedence.Table

	maxDepth int // 0 means unlimited
	depth    int
}

type Option func(*Parser)

// WithMaxDepth bounds how deeply expressions may nest through parentheses,
// call arguments and tighter-binding operator runs. n <= 0 means no limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) { p.maxDepth = n }
}

// New returns a parser reading from l, with the first token already loaded.
// A nil table means precedence.Default().
func New(l TokenSource, prec *precedence.Table, opts ...Option) *Parser {
	if prec == nil {
		prec = precedence.Default()
	}
	p := &Parser{l: l, prec: prec}
	for _, opt := range opts {
		opt(p)
	}
	p.nextToken()
	return p
}

// --- Token Handling ---
func (p *Parser) nextToken() {
	p.curTok = p.l.NextToken()
}

// Current returns the token the parser is positioned on.
func (p *Parser) Current() token.Token {
	return p.curTok
}

// Advance discards the current token and returns the next one.
func (p *Parser) Advance() token.Token {
	p.nextToken()
	return p.curTok
}

// --- Error Handling ---
func (p *Parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Tok: p.curTok}
}

func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorf("expression nested too deeply")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// --- Primary Expressions ---

// ParsePrimary parses a number, variable reference, call or parenthesized
// expression.
func (p *Parser) ParsePrimary() (ast.Expr, error) {
	switch {
	case p.curTok.Kind == token.Ident:
		return p.parseIdentifierExpr()
	case p.curTok.Kind == token.Number:
		return p.parseNumberExpr(), nil
	case p.curTok.Is('('):
		return p.parseParenExpr()
	default:
		return nil, p.errorf("unknown token when expecting an expression")
	}
}

// numberexpr ::= number
func (p *Parser) parseNumberExpr() ast.Expr {
	lit := &ast.NumberLiteral{Value: p.curTok.Value}
	p.nextToken() // Consume the number
	return lit
}

// parenexpr ::= '(' expression ')'
//
// Parentheses only group; they produce no node of their own.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	p.nextToken() // Consume '('
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.curTok.Is(')') {
		return nil, p.errorf("expected ')'")
	}
	p.nextToken() // Consume ')'
	return expr, nil
}

// identifierexpr
//
//	::= identifier
//	::= identifier '(' (expression (',' expression)*)? ')'
func (p *Parser) parseIdentifierExpr() (ast.Expr, error) {
	name := p.curTok.Text
	p.nextToken() // Consume the identifier

	if !p.curTok.Is('(') {
		return &ast.VariableRef{Name: name}, nil
	}

	p.nextToken() // Consume '('
	var args []ast.Expr
	if !p.curTok.Is(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.curTok.Is(')') {
				break
			}
			if !p.curTok.Is(',') {
				return nil, p.errorf("expected ')' or ',' in argument list")
			}
			p.nextToken() // Consume ','
		}
	}
	p.nextToken() // Consume ')'

	return &ast.Call{Callee: name, Args: args}, nil
}

// --- Binary Expressions ---

// ParseExpression parses a primary expression followed by any run of binary
// operators.
//
//	expression ::= primary binoprhs
func (p *Parser) ParseExpression() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinOpRHS(0, lhs)
}

// parseBinOpRHS folds [operator, primary] pairs onto lhs for as long as the
// operators bind at least as tightly as minPrec.
//
//	binoprhs ::= (binop primary)*
//
// When the operator after a right-hand side binds tighter than the current
// one, that suffix is parsed first with a floor one above the current
// operator's precedence, so equal precedence still folds to the left.
func (p *Parser) parseBinOpRHS(minPrec int, lhs ast.Expr) (ast.Expr, error) {
	for {
		tokPrec := p.prec.Precedence(p.curTok)
		if tokPrec < minPrec {
			return lhs, nil
		}

		op := p.curTok.Sym
		p.nextToken() // Consume the operator

		rhs, err := p.ParsePrimary()
		if err != nil {
			return nil, err
		}

		if nextPrec := p.prec.Precedence(p.curTok); tokPrec < nextPrec {
			rhs, err = p.parseTighterRHS(tokPrec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &ast.BinaryOp{Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseTighterRHS(minPrec int, rhs ast.Expr) (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseBinOpRHS(minPrec, rhs)
}

// --- Top Level Constructs ---

// ParsePrototype parses a function signature.
//
//	prototype ::= identifier '(' identifier* ')'
func (p *Parser) ParsePrototype() (*ast.Prototype, error) {
	if p.curTok.Kind != token.Ident {
		return nil, p.errorf("Expected function name in prototype")
	}
	name := p.curTok.Text
	p.nextToken() // Consume the name

	if !p.curTok.Is('(') {
		return nil, p.errorf("Expected '(' in function prototype")
	}

	var params []string
	for p.nextToken(); p.curTok.Kind == token.Ident; p.nextToken() {
		params = append(params, p.curTok.Text)
	}

	if !p.curTok.Is(')') {
		return nil, p.errorf("expected ')'")
	}
	p.nextToken() // Consume ')'

	return &ast.Prototype{Name: name, Params: params}, nil
}

// ParseDefinition parses a function definition. The body is a single
// expression.
//
//	definition ::= 'def' prototype expression
func (p *Parser) ParseDefinition() (*ast.Function, error) {
	if p.curTok.Kind != token.Def {
		return nil, p.errorf("expected 'def'")
	}
	p.nextToken() // Consume 'def'

	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Proto: proto, Body: body}, nil
}

// ParseExtern parses an external declaration.
//
//	external ::= 'extern' prototype
func (p *Parser) ParseExtern() (*ast.Prototype, error) {
	if p.curTok.Kind != token.Extern {
		return nil, p.errorf("expected 'extern'")
	}
	p.nextToken() // Consume 'extern'
	return p.ParsePrototype()
}

// ParseTopLevelExpr parses a bare expression and wraps it in a nullary
// function named ast.AnonName.
//
//	toplevelexpr ::= expression
func (p *Parser) ParseTopLevelExpr() (*ast.Function, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Proto: &ast.Prototype{Name: ast.AnonName}, Body: body}, nil
}

// ParseTopLevel dispatches on the current token to a definition, an extern
// or a top-level expression. It does not handle EOF or ';'.
func (p *Parser) ParseTopLevel() (ast.TopLevel, error) {
	switch p.curTok.Kind {
	case token.Def:
		return nilIfErr(p.ParseDefinition())
	case token.Extern:
		return nilIfErr(p.ParseExtern())
	default:
		return nilIfErr(p.ParseTopLevelExpr())
	}
}

// nilIfErr keeps a typed nil pointer from turning into a non-nil interface.
func nilIfErr[T ast.TopLevel](node T, err error) (ast.TopLevel, error) {
	if err != nil {
		return nil, err
	}
	return node, nil
}
