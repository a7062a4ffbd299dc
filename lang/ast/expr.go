package ast

import (
	"fmt"

	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	Span_ source.Span
	Value uint64
	Type  TypeQualified
}

func (n *IntegerLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("int %d", n.Value), nil)
}
func (n *IntegerLiteral) Span() source.Span { return n.Span_ }
func (n *IntegerLiteral) Walk(Visitor)      {}
func (n *IntegerLiteral) expr()             {}

// Variable is an identifier used as an expression; it resolves to the
// Declaration found in the innermost declarations scope at parse time.
type Variable struct {
	Span_ source.Span
	Name  string
	Decl  *Declaration
}

func (n *Variable) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *Variable) Span() source.Span             { return n.Span_ }
func (n *Variable) Walk(Visitor)                  {}
func (n *Variable) expr()                         {}

// Binary is a binary operator expression, e.g. x + y or x = y.
type Binary struct {
	Left  Expr
	Op    token.Kind
	OpPos source.Location
	Right Expr
}

func (n *Binary) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.Op.GoString(), nil)
}
func (n *Binary) Span() source.Span { return source.Join(n.Left.Span(), n.Right.Span()) }
func (n *Binary) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *Binary) expr() {}

// Ternary is the `cond ? then : else` conditional expression.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (n *Ternary) Format(f fmt.State, verb rune) { format(f, verb, n, "cond ? : ", nil) }
func (n *Ternary) Span() source.Span             { return source.Join(n.Cond.Span(), n.Else.Span()) }
func (n *Ternary) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	Walk(v, n.Else)
}
func (n *Ternary) expr() {}

// Cast is an explicit `(type)expr` conversion.
type Cast struct {
	Span_  source.Span
	Target TypeQualified
	Value  Expr
}

func (n *Cast) Format(f fmt.State, verb rune) {
	format(f, verb, n, "cast ("+n.Target.String()+")", nil)
}
func (n *Cast) Span() source.Span { return n.Span_ }
func (n *Cast) Walk(v Visitor)    { Walk(v, n.Value) }
func (n *Cast) expr()             {}
