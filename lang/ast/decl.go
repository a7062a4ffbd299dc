package ast

import (
	"fmt"

	"github.com/mna/redcc/lang/source"
)

// DeclFlags is a bitset of storage-class and role markers attached to a
// Declaration.
type DeclFlags uint8

const (
	DeclExtern DeclFlags = 1 << iota
	DeclStatic
	DeclEnumConstant
	DeclTypedef // present only so the typedef-alias map and the ordinary
	// declarations map can share the Declaration shape; a typedef name is
	// never itself inserted as an ordinary declaration.
)

func (f DeclFlags) Has(bit DeclFlags) bool { return f&bit != 0 }

// Declaration is one named entity: a variable, parameter, function, or
// enum constant, together with its fully qualified type. A struct or
// union member is also a Declaration, held in the owning Type's Members.
type Declaration struct {
	Loc   source.Span
	Name  string
	Type  TypeQualified
	Flags DeclFlags

	// Init is the top-level initializer expression, if any (for a
	// file-scope variable declarator with `= expr`).
	Init Expr

	// Body is non-nil when this Declaration is a function definition (as
	// opposed to a prototype or an ordinary variable).
	Body *Block
}

func (n *Declaration) Format(f fmt.State, verb rune) {
	format(f, verb, n, "decl "+n.Name+" : "+n.Type.String(), nil)
}
func (n *Declaration) Span() source.Span { return n.Loc }
func (n *Declaration) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Body != nil {
		Walk(v, n.Body)
	}
}
