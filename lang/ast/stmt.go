package ast

import (
	"fmt"

	"github.com/mna/redcc/lang/source"
)

// ExprStmt is an expression used as a statement, e.g. `x = y;`.
type ExprStmt struct {
	Expr Expr
	Semi source.Location
}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr-stmt", nil) }
func (n *ExprStmt) Span() source.Span {
	return source.Span{Start: n.Expr.Span().Start, End: n.Semi}
}
func (n *ExprStmt) Walk(v Visitor)     { Walk(v, n.Expr) }
func (n *ExprStmt) BlockEnding() bool  { return false }

// Block is a brace-delimited statement list; entering one pushes a new
// level onto all three scoped maps and exiting pops them.
type Block struct {
	Start source.Location
	End   source.Location
	Stmts []Stmt
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() source.Span { return source.Span{Start: n.Start, End: n.End} }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
func (n *Block) BlockEnding() bool { return false }

// For is a `for (init; cond; incr) body` statement. Init and Cond may be
// nil (an empty clause); Incr may be nil as well.
type For struct {
	Start source.Location
	Init  Stmt
	Cond  Expr
	Incr  Expr
	Body  Stmt
}

func (n *For) Format(f fmt.State, verb rune) { format(f, verb, n, "for", nil) }
func (n *For) Span() source.Span             { return source.Join(source.Span{Start: n.Start, End: n.Start}, n.Body.Span()) }
func (n *For) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Incr != nil {
		Walk(v, n.Incr)
	}
	Walk(v, n.Body)
}
func (n *For) BlockEnding() bool { return false }

// While is a `while (cond) body` statement.
type While struct {
	Start source.Location
	Cond  Expr
	Body  Stmt
}

func (n *While) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *While) Span() source.Span             { return source.Join(source.Span{Start: n.Start, End: n.Start}, n.Body.Span()) }
func (n *While) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *While) BlockEnding() bool { return false }

// Return is a `return;` or `return expr;` statement.
type Return struct {
	Start source.Location
	End   source.Location
	Value Expr // nil if bare `return;`
}

func (n *Return) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *Return) Span() source.Span             { return source.Span{Start: n.Start, End: n.End} }
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}
func (n *Return) BlockEnding() bool { return true }

// InitializerDefault is a block-scope declarator with no initializer,
// e.g. the `x` in `int x;`.
type InitializerDefault struct {
	Decl *Declaration
}

func (n *InitializerDefault) Format(f fmt.State, verb rune) {
	format(f, verb, n, "init-default "+n.Decl.Name, nil)
}
func (n *InitializerDefault) Span() source.Span { return n.Decl.Span() }
func (n *InitializerDefault) Walk(Visitor)      {}
func (n *InitializerDefault) BlockEnding() bool { return false }

// InitializerCopy is a block-scope declarator with a `= expr`
// initializer, e.g. `int x = 1;`.
type InitializerCopy struct {
	Decl  *Declaration
	Value Expr
}

func (n *InitializerCopy) Format(f fmt.State, verb rune) {
	format(f, verb, n, "init-copy "+n.Decl.Name, nil)
}
func (n *InitializerCopy) Span() source.Span {
	return source.Join(n.Decl.Span(), n.Value.Span())
}
func (n *InitializerCopy) Walk(v Visitor)      { Walk(v, n.Value) }
func (n *InitializerCopy) BlockEnding() bool   { return false }
