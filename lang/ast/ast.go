// Package ast defines the typed abstract syntax tree produced by the
// parser: types, declarations, expressions and statements. Every node
// carries its source span so later passes and diagnostics can point back
// into the original text, including through macro expansion.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/redcc/lang/source"
)

// Node is implemented by every AST node.
type Node interface {
	// Every Node implements fmt.Formatter to print a short description of
	// itself. Only 'v' and 's' verbs are supported; '#' additionally prints
	// child counts, mirroring go/ast-adjacent pretty-printers.
	fmt.Formatter

	// Span reports the node's source range.
	Span() source.Span

	// Walk visits this node's direct children with v.
	Walk(v Visitor)
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement node.
type Stmt interface {
	Node

	// BlockEnding reports whether this statement may only appear last in a
	// block (return).
	BlockEnding() bool
}

// TranslationUnit is the root node: the ordered sequence of top-level
// declarations parsed from one file, after preprocessing.
type TranslationUnit struct {
	Name  string
	Decls []*Declaration
	EOF   source.Location
}

func (n *TranslationUnit) Format(f fmt.State, verb rune) {
	format(f, verb, n, "translation-unit", map[string]int{"decls": len(n.Decls)})
}

func (n *TranslationUnit) Span() source.Span {
	if len(n.Decls) > 0 {
		return source.Join(n.Decls[0].Span(), n.Decls[len(n.Decls)-1].Span())
	}
	return source.Span{Start: n.EOF, End: n.EOF}
}

func (n *TranslationUnit) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d)
	}
}

// format is shared rendering logic for every node's Format method, adapted
// from the single-file label-plus-counts pretty-printer this front end's
// AST package has always used.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
