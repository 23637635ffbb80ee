package ast

import (
	"bytes"
	"strconv"
	"strings"
)

// AnonName is the prototype name given to a bare top-level expression.
const AnonName = "__anon_expr"

// --- Interfaces ---

// Expr is one of *NumberLiteral, *VariableRef, *BinaryOp or *Call.
type Expr interface {
	String() string
	exprNode()
}

// TopLevel is one of *Function or *Prototype (an extern declaration).
type TopLevel interface {
	String() string
	topLevelNode()
}

// --- Program ---

// Program holds every top-level construct that parsed cleanly, in source order.
type Program struct {
	Items []TopLevel
}

// Functions returns the definitions and anonymous expressions in p.
func (p *Program) Functions() []*Function {
	var fns []*Function
	for _, item := range p.Items {
		if fn, ok := item.(*Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Externs returns the extern declarations in p.
func (p *Program) Externs() []*Prototype {
	var protos []*Prototype
	for _, item := range p.Items {
		if proto, ok := item.(*Prototype); ok {
			protos = append(protos, proto)
		}
	}
	return protos
}

// String writes one item per line.
func (p *Program) String() string {
	var out bytes.Buffer
	for _, item := range p.Items {
		out.WriteString(item.String())
		out.WriteString("\n")
	}
	return out.String()
}

// --- Expressions ---

// NumberLiteral -> 1.5
type NumberLiteral struct {
	Value float64
}

func (n *NumberLiteral) exprNode() {}
func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// VariableRef -> x
type VariableRef struct {
	Name string
}

func (v *VariableRef) exprNode()      {}
func (v *VariableRef) String() string { return v.Name }

// BinaryOp -> a + b
type BinaryOp struct {
	Op  rune
	LHS Expr
	RHS Expr
}

func (b *BinaryOp) exprNode() {}

// String fully parenthesizes the operation so grouping is visible.
func (b *BinaryOp) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.LHS.String())
	out.WriteString(" ")
	out.WriteRune(b.Op)
	out.WriteString(" ")
	out.WriteString(b.RHS.String())
	out.WriteString(")")
	return out.String()
}

// Call -> f(1, x)
type Call struct {
	Callee string
	Args   []Expr
}

func (c *Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return c.Callee + "(" + strings.Join(args, ", ") + ")"
}

// --- Top level ---

// Prototype is a callable's name and parameter names. Duplicate parameter
// names are kept as written.
type Prototype struct {
	Name   string
	Params []string
}

func (p *Prototype) topLevelNode() {}

// Signature renders the prototype as written in source: name(a b).
func (p *Prototype) Signature() string {
	return p.Name + "(" + strings.Join(p.Params, " ") + ")"
}

// String renders p as an extern declaration.
func (p *Prototype) String() string { return "extern " + p.Signature() }

// Function -> def f(a b) a + b, or an anonymous wrapper around a bare expression
type Function struct {
	Proto *Prototype
	Body  Expr
}

func (f *Function) topLevelNode() {}

// IsAnonymous reports whether f wraps a bare top-level expression.
func (f *Function) IsAnonymous() bool {
	return f.Proto.Name == AnonName && len(f.Proto.Params) == 0
}

func (f *Function) String() string {
	if f.IsAnonymous() {
		return f.Body.String()
	}
	return "def " + f.Proto.Signature() + " " + f.Body.String()
}

// --- Traversal ---

// Walk visits e and its children in pre-order. Children of a node are
// skipped when fn returns false for it.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *NumberLiteral, *VariableRef:
	case *BinaryOp:
		Walk(n.LHS, fn)
		Walk(n.RHS, fn)
	case *Call:
		for _, a := range n.Args {
			Walk(a, fn)
		}
	}
}
