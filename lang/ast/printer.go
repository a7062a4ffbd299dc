package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of AST nodes.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// ShowPos includes each node's source span in the output when true.
	ShowPos bool

	// NodeFmt is the format string used to print each node. The verb must
	// be either `s` or `v`; a width can be set, and the `#` and `-` flags
	// are supported. Defaults to "%v".
	NodeFmt string

	// FileName is used to render positions when ShowPos is true.
	FileName string
}

// Print pretty-prints n, indenting children under their parent the way a
// depth-first walk naturally nests them.
func (p *Printer) Print(n Node) error {
	pp := &printer{
		w:        p.Output,
		showPos:  p.ShowPos,
		nodeFmt:  p.NodeFmt,
		fileName: p.FileName,
	}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w        io.Writer
	showPos  bool
	nodeFmt  string
	fileName string
	depth    int
	err      error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.showPos {
		span := n.Span()
		format += "[%s:%s] "
		args = append(args, span.Start.Render(p.fileName), span.End.Render(p.fileName))
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
