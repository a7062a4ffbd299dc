package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/redcc/lang/cpp"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, c, args...)
}

// TokenizeFiles runs the lexer+preprocessor pipeline over each file in
// turn and prints its fully macro-expanded token stream.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, c *Cmd, files ...string) error {
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

		pp := cpp.New(pl.files, pl.intrn, list, pl.search)
		pp.PushFile(file)
		for {
			tok, ok := pp.Next()
			if !ok {
				break
			}
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Span.Start.Render(path), tok.Kind)
			if lit := tokenLiteral(tok); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
			if tok.Kind == token.EOF {
				break
			}
		}
	}

	return reportDiagnostics(stdio, list)
}

// tokenLiteral returns the text worth printing alongside a token's kind,
// empty for tokens whose kind already says everything (punctuators,
// keywords).
func tokenLiteral(tok token.Token) string {
	switch tok.Kind {
	case token.IDENT, token.INT, token.CHAR, token.STRING:
		return tok.Value.Raw
	default:
		return ""
	}
}
