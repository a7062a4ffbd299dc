// Package cpp implements the unified lexer+preprocessor layer: it drives
// one lang/lexer per active file, executes preprocessor directives, and
// performs macro expansion, handing the parser a stream of fully
// processed C tokens with keywords already recognized.
package cpp

import (
	"fmt"

	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/lexer"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// pendingTok is one token sitting in the preprocessor's pending buffer,
// tagged with the set of macros currently blocked from re-expanding
// while it is rescanned (the expansion of macro M pushes its output
// tokens with M added to their blocked set, implementing the
// self-reference guard of spec.md §4.3.1).
type pendingTok struct {
	Tok       token.Token
	Blocked   map[intern.ID]bool
	FromLexer bool
}

// Preprocessor is the pull-based token producer described in spec.md
// §4.3: it owns the IncludeStack, MacroTable, ConditionalStack, and
// PragmaOnceSet, and pulls raw tokens from the lexer on top of the
// include stack.
type Preprocessor struct {
	files  *source.Store
	intrn  *intern.Table
	diag   diag.Sink
	search SearchPath

	stack      []*IncludeFrame
	Macros     *MacroTable
	cond       *ConditionalStack
	pragmaOnce map[source.FileID]bool

	pending []pendingTok
}

// New returns a Preprocessor reading nothing yet; call PushFile to begin
// reading a translation unit's primary source file.
func New(files *source.Store, intrn *intern.Table, sink diag.Sink, search SearchPath) *Preprocessor {
	return &Preprocessor{
		files:      files,
		intrn:      intrn,
		diag:       sink,
		search:     search,
		Macros:     NewMacroTable(),
		cond:       &ConditionalStack{},
		pragmaOnce: make(map[source.FileID]bool),
	}
}

// PushFile opens file for reading, pushing a new IncludeFrame on top of
// the include stack. Used both for the top-level source file and for
// each `#include`.
func (pp *Preprocessor) PushFile(file *source.File) {
	cur := source.NewCursor(file)
	lx := lexer.New(cur, pp.intrn, pp.diag)
	pp.stack = append(pp.stack, &IncludeFrame{
		File:             file,
		Cursor:           cur,
		Lexer:            lx,
		ConditionalDepth: pp.cond.Depth(),
		BOL:              true,
	})
}

func (pp *Preprocessor) top() *IncludeFrame {
	if len(pp.stack) == 0 {
		return nil
	}
	return pp.stack[len(pp.stack)-1]
}

func (pp *Preprocessor) errorAt(span source.Span, format string, args ...any) {
	if pp.diag == nil {
		return
	}
	pp.diag.Report(diag.Error, span, nil, fmt.Sprintf(format, args...))
}

// Next returns the next fully processed token, or ok=false once the
// include stack has drained. It implements the per-call algorithm of
// spec.md §4.3.
func (pp *Preprocessor) Next() (token.Token, bool) {
	for {
		raw, blocked, fromLexer, ok := pp.rawNext()
		if !ok {
			return token.Token{}, false
		}

		if fromLexer && raw.AtBOL && raw.Kind == token.HASH {
			pp.handleDirective()
			continue
		}

		if pp.cond.Skipping() {
			continue
		}

		if raw.Kind == token.IDENT && !blocked[intern.ID(raw.Value.IdentID)] {
			if pp.tryExpand(raw, blocked) {
				continue
			}
		}

		return finalize(raw), true
	}
}

// finalize converts an identifier token's Kind to its keyword Kind if the
// spelling is a C89 reserved word. The lexer already does this for
// tokens it reads directly, but a token rebuilt by macro substitution or
// `##` pasting needs the same check applied once more before it reaches
// the parser.
func finalize(t token.Token) token.Token {
	if t.Kind != token.IDENT {
		return t
	}
	if kw := token.LookupKeyword(t.Value.Raw); kw != token.IDENT {
		t.Kind = kw
	}
	return t
}

// rawNext pulls the next token either from the pending buffer (subject to
// the self-reference blocked set attached to it) or, if empty, directly
// from the lexer on top of the include stack, popping exhausted frames
// and diagnosing any conditional left open at end of file. fromLexer
// reports which source it came from, since only a token read straight
// from a file (never a macro-expansion result) can start a directive.
func (pp *Preprocessor) rawNext() (tok token.Token, blocked map[intern.ID]bool, fromLexer, ok bool) {
	if len(pp.pending) > 0 {
		pt := pp.pending[0]
		pp.pending = pp.pending[1:]
		return pt.Tok, pt.Blocked, pt.FromLexer, true
	}

	for {
		top := pp.top()
		if top == nil {
			return token.Token{}, nil, false, false
		}

		kind, val, span, atBOL := top.Lexer.Next()
		if kind != token.EOF {
			return token.Token{Kind: kind, Value: val, Span: span, AtBOL: atBOL}, nil, true, true
		}

		if pp.cond.Depth() > top.ConditionalDepth {
			pp.errorAt(span, "unterminated #if")
			for pp.cond.Depth() > top.ConditionalDepth {
				pp.cond.Pop()
			}
		}
		pp.stack = pp.stack[:len(pp.stack)-1]
	}
}

// readRawFromTop reads the next token of the current file: a file token
// given back by pushbackDir is returned first, otherwise the token comes
// straight from the lexer; macro-expansion output is never returned. Used
// while parsing a directive line, which is never itself subject to macro
// expansion token-by-token (only `#if`/`#elif` conditions and
// `#include "..."` ask for expansion explicitly).
func (pp *Preprocessor) readRawFromTop() token.Token {
	if len(pp.pending) > 0 && pp.pending[0].FromLexer {
		pt := pp.pending[0]
		pp.pending = pp.pending[1:]
		return pt.Tok
	}
	top := pp.top()
	if top == nil {
		return token.Token{Kind: token.EOF, AtBOL: true}
	}
	kind, val, span, atBOL := top.Lexer.Next()
	return token.Token{Kind: kind, Value: val, Span: span, AtBOL: atBOL}
}

// readLineRaw reads tokens directly from the current file up to (but not
// including) the token that starts the next logical line, or EOF.
func (pp *Preprocessor) readLineRaw() []token.Token {
	var out []token.Token
	for {
		t := pp.readRawFromTop()
		if t.Kind == token.EOF {
			return out
		}
		if t.AtBOL {
			pp.pushback(t)
			return out
		}
		out = append(out, t)
	}
}

// pushback is used when readLineRaw over-reads by one token (the first
// token of the following line); it goes back through the pending buffer
// so the next rawNext call returns it, as a token read straight from the
// file.
func (pp *Preprocessor) pushback(t token.Token) {
	pp.pushbackFull(t, nil, true)
}

// pushbackDir is pushback's counterpart for directive parsing: a token read
// via readRawFromTop that a directive handler peeked at and did not
// consume (e.g. the lookahead for a function-like macro's parameter-list
// '(', or readLineRaw's one-line-too-far read) goes back the same way, as
// a token read straight from the file.
func (pp *Preprocessor) pushbackDir(t token.Token) {
	pp.pushback(t)
}

// pushbackFull re-queues a token exactly as rawNext produced it (same
// blocked set and source), used by macro-invocation lookahead that peeks
// one token for a following '(' and must restore it unchanged when that
// lookahead fails.
func (pp *Preprocessor) pushbackFull(t token.Token, blocked map[intern.ID]bool, fromLexer bool) {
	pp.pending = append([]pendingTok{{Tok: t, Blocked: blocked, FromLexer: fromLexer}}, pp.pending...)
}
