package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/parser"
)

// Check runs the parser over each file for its diagnostics alone, with no
// tree output: the closest equivalent to "run one more pass and report"
// once there is no separate resolver stage to drive.
func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CheckFiles(ctx, stdio, c, args...)
}

func CheckFiles(ctx context.Context, stdio mainer.Stdio, c *Cmd, files ...string) error {
	pl := newPipeline(c)
	list := diag.NewList(pl.files)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}

		file, err := pl.loadFile(path)
		if err != nil {
			return printError(stdio, err)
		}

		parser.ParseFile(pl.files, pl.intrn, list, pl.search, file)
	}

	return reportDiagnostics(stdio, list)
}
