package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavsurve/kaleidoscope/internal/compiler/ast"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/lexer"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/precedence"
	"github.com/arnavsurve/kaleidoscope/internal/compiler/token"
)

// --- Test Helper Functions ---

func newParser(input string, opts ...Option) *Parser {
	return New(lexer.NewString(input), nil, opts...)
}

func num(v float64) ast.Expr   { return &ast.NumberLiteral{Value: v} }
func ref(name string) ast.Expr { return &ast.VariableRef{Name: name} }
func bin(op rune, lhs, rhs ast.Expr) ast.Expr {
	return &ast.BinaryOp{Op: op, LHS: lhs, RHS: rhs}
}
func call(callee string, args ...ast.Expr) ast.Expr {
	return &ast.Call{Callee: callee, Args: args}
}

// requireTree fails unless got is structurally identical to want. Nil and
// empty slices compare equal.
func requireTree(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

// requireSyntaxError checks err is a *SyntaxError with the given message.
func requireSyntaxError(t *testing.T, err error, msg string) *SyntaxError {
	t.Helper()
	require.Error(t, err)
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, msg, serr.Msg)
	assert.Equal(t, msg, serr.Error())
	return serr
}

// --- Expressions ---

func TestParseExpression_Precedence(t *testing.T) {
	testCases := []struct {
		input string
		want  ast.Expr
	}{
		{"a + b * c", bin('+', ref("a"), bin('*', ref("b"), ref("c")))},
		{"a * b + c", bin('+', bin('*', ref("a"), ref("b")), ref("c"))},
		{"a + b + c", bin('+', bin('+', ref("a"), ref("b")), ref("c"))},
		{"a - b + c", bin('+', bin('-', ref("a"), ref("b")), ref("c"))},
		{"a * b * c", bin('*', bin('*', ref("a"), ref("b")), ref("c"))},
		{"(a + b) * c", bin('*', bin('+', ref("a"), ref("b")), ref("c"))},
		{"a * (b + c)", bin('*', ref("a"), bin('+', ref("b"), ref("c")))},
		{
			"a + b * c + d * e",
			bin('+', bin('+', ref("a"), bin('*', ref("b"), ref("c"))), bin('*', ref("d"), ref("e"))),
		},
		{
			"a < b + c * d - e",
			bin('<', ref("a"), bin('-', bin('+', ref("b"), bin('*', ref("c"), ref("d"))), ref("e"))),
		},
		{"x < y < z", bin('<', bin('<', ref("x"), ref("y")), ref("z"))},
		{"4 + 5", bin('+', num(4), num(5))},
		{"((((x))))", ref("x")},
		{"f(a) * 2", bin('*', call("f", ref("a")), num(2))},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			p := newParser(tc.input)
			got, err := p.ParseExpression()
			require.NoError(t, err)
			requireTree(t, tc.want, got)
			assert.Equal(t, tc.want.String(), got.String())
			assert.Equal(t, token.EOF, p.Current().Kind)
		})
	}
}

func TestParseExpression_CustomTable(t *testing.T) {
	tbl := precedence.New()
	require.NoError(t, tbl.Define('+', 5))
	require.NoError(t, tbl.Define('*', 1))
	require.NoError(t, tbl.Define('^', 90))

	// With '+' above '*' the usual grouping flips.
	p := New(lexer.NewString("a + b * c ^ d"), tbl)
	got, err := p.ParseExpression()
	require.NoError(t, err)
	requireTree(t, bin('*', bin('+', ref("a"), ref("b")), bin('^', ref("c"), ref("d"))), got)
}

func TestParseExpression_StopsAtUnknownOperator(t *testing.T) {
	p := newParser("a + b / c")
	got, err := p.ParseExpression()
	require.NoError(t, err)
	requireTree(t, bin('+', ref("a"), ref("b")), got)
	assert.True(t, p.Current().Is('/'))
}

func TestParseIdentifierExpr_Calls(t *testing.T) {
	testCases := []struct {
		input string
		want  ast.Expr
	}{
		{"f()", &ast.Call{Callee: "f", Args: []ast.Expr{}}},
		{"f(1, 2, 3)", call("f", num(1), num(2), num(3))},
		{"f(a + 1, g(b), (c))", call("f", bin('+', ref("a"), num(1)), call("g", ref("b")), ref("c"))},
		{"foo", ref("foo")},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := newParser(tc.input).ParsePrimary()
			require.NoError(t, err)
			requireTree(t, tc.want, got)
		})
	}
}

func TestParseExpression_Errors(t *testing.T) {
	testCases := []struct {
		input string
		msg   string
	}{
		{"(1 + 2", "expected ')'"},
		{"(1 + 2;", "expected ')'"},
		{"f(1 2)", "expected ')' or ',' in argument list"},
		{"f(1,", "unknown token when expecting an expression"},
		{"f(", "unknown token when expecting an expression"},
		{")", "unknown token when expecting an expression"},
		{"1 +", "unknown token when expecting an expression"},
		{"1 + * 2", "unknown token when expecting an expression"},
		{"", "unknown token when expecting an expression"},
		{"def", "unknown token when expecting an expression"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := newParser(tc.input).ParseExpression()
			assert.Nil(t, got)
			requireSyntaxError(t, err, tc.msg)
		})
	}
}

func TestSyntaxError_Pos(t *testing.T) {
	_, err := newParser("f(1\n  2)").ParseExpression()
	serr := requireSyntaxError(t, err, "expected ')' or ',' in argument list")
	assert.Equal(t, "2:3", serr.Pos())
	assert.Equal(t, token.Number, serr.Tok.Kind)
}

func TestWithMaxDepth(t *testing.T) {
	got, err := newParser("((1))", WithMaxDepth(3)).ParseExpression()
	require.NoError(t, err)
	requireTree(t, num(1), got)

	_, err = newParser("(((1)))", WithMaxDepth(3)).ParseExpression()
	requireSyntaxError(t, err, "expression nested too deeply")

	_, err = newParser("a + b * c", WithMaxDepth(1)).ParseExpression()
	requireSyntaxError(t, err, "expression nested too deeply")

	_, err = newParser("a + b * c", WithMaxDepth(2)).ParseExpression()
	require.NoError(t, err)

	// Unlimited by default.
	deep := strings.Repeat("(", 500) + "x" + strings.Repeat(")", 500)
	got, err = newParser(deep).ParseExpression()
	require.NoError(t, err)
	requireTree(t, ref("x"), got)
}

// --- Top Level Constructs ---

func TestParseDefinition(t *testing.T) {
	p := newParser("def f(a b) a + b ; next")
	fn, err := p.ParseDefinition()
	require.NoError(t, err)
	requireTree(t, &ast.Function{
		Proto: &ast.Prototype{Name: "f", Params: []string{"a", "b"}},
		Body:  bin('+', ref("a"), ref("b")),
	}, fn)
	assert.False(t, fn.IsAnonymous())
	assert.True(t, p.Current().Is(';'))
}

func TestParseDefinition_DuplicateAndEmptyParams(t *testing.T) {
	fn, err := newParser("def g(x x) x").ParseDefinition()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x"}, fn.Proto.Params)

	fn, err = newParser("def one() 1").ParseDefinition()
	require.NoError(t, err)
	assert.Empty(t, fn.Proto.Params)
	requireTree(t, num(1), fn.Body)
}

func TestParseDefinition_Errors(t *testing.T) {
	testCases := []struct {
		input string
		msg   string
	}{
		{"def 1", "Expected function name in prototype"},
		{"def (x) x", "Expected function name in prototype"},
		{"def f x", "Expected '(' in function prototype"},
		{"def f(a, b) a", "expected ')'"},
		{"def f(a", "expected ')'"},
		{"def f(x)", "unknown token when expecting an expression"},
		{"def f(x) (x", "expected ')'"},
		{"f(x) x", "expected 'def'"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			fn, err := newParser(tc.input).ParseDefinition()
			assert.Nil(t, fn)
			requireSyntaxError(t, err, tc.msg)
		})
	}
}

func TestParseExtern(t *testing.T) {
	proto, err := newParser("extern sin(x)").ParseExtern()
	require.NoError(t, err)
	requireTree(t, &ast.Prototype{Name: "sin", Params: []string{"x"}}, proto)

	_, err = newParser("extern 3(x)").ParseExtern()
	requireSyntaxError(t, err, "Expected function name in prototype")

	_, err = newParser("sin(x)").ParseExtern()
	requireSyntaxError(t, err, "expected 'extern'")
}

func TestParseTopLevelExpr(t *testing.T) {
	fn, err := newParser("4 + 5").ParseTopLevelExpr()
	require.NoError(t, err)
	requireTree(t, &ast.Function{
		Proto: &ast.Prototype{Name: ast.AnonName},
		Body:  bin('+', num(4), num(5)),
	}, fn)
	assert.True(t, fn.IsAnonymous())
}

func TestParseTopLevel(t *testing.T) {
	testCases := []struct {
		input string
		want  ast.TopLevel
	}{
		{"def id(x) x", &ast.Function{Proto: &ast.Prototype{Name: "id", Params: []string{"x"}}, Body: ref("x")}},
		{"extern cos(y)", &ast.Prototype{Name: "cos", Params: []string{"y"}}},
		{"cos(1)", &ast.Function{Proto: &ast.Prototype{Name: ast.AnonName}, Body: call("cos", num(1))}},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := newParser(tc.input).ParseTopLevel()
			require.NoError(t, err)
			requireTree(t, tc.want, got)
		})
	}

	// A failed parse returns an untyped nil.
	got, err := newParser("def f(").ParseTopLevel()
	require.Error(t, err)
	assert.True(t, got == nil)
}

func TestAdvance(t *testing.T) {
	p := newParser("a ; b")
	assert.Equal(t, token.Ident, p.Current().Kind)
	assert.True(t, p.Advance().Is(';'))
	assert.Equal(t, "b", p.Advance().Text)
	assert.Equal(t, token.EOF, p.Advance().Kind)
}
