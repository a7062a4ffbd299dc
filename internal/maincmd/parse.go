package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, c, args...)
}

// ParseFiles runs the parser over each file and prints the resulting
// translation unit, depth-indented one node per line.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, c *Cmd, files ...string) error {
	pl := newPipeline(c)
	list := diag.NewList(pl.files)

	printer := ast.Printer{
		Output:  stdio.Stdout,
		ShowPos: c.WithPositions,
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		file, err := pl.loadFile(path)
		if err != nil {
			return printError(stdio, err)
		}

		printer.FileName = path
		tu := parser.ParseFile(pl.files, pl.intrn, list, pl.search, file)
		if err := printer.Print(tu); err != nil {
			return printError(stdio, err)
		}
	}

	return reportDiagnostics(stdio, list)
}
