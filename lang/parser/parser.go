// Package parser implements the recursive-descent parser over the
// post-preprocessor token stream: it builds typed declarations,
// expressions and statements, resolving the classic C "typedef problem"
// with three scoped symbol tables (type tags, typedef aliases, ordinary
// declarations) that are pushed and popped together on block entry/exit.
package parser

import (
	"fmt"
	"strings"

	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/cpp"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// Parser holds the mutable state of one translation-unit parse: the
// preprocessor it pulls tokens from, the one-token lookahead buffer, the
// three scoped maps, and the canonical built-in type singletons every
// primitive-type reference shares.
type Parser struct {
	pp   *cpp.Preprocessor
	diag diag.Sink
	file *source.File

	tok    token.Token
	peeked *token.Token

	types     scopedMap[ast.Type]
	typedefs  scopedMap[ast.TypeQualified]
	decls     scopedMap[*ast.Declaration]
	builtins  [ast.LongDoubleType + 1]*ast.Builtin
}

// New returns a Parser reading tokens from pp, reporting diagnostics to
// sink. file names the translation unit's primary source file, used only
// for the TranslationUnit's Name.
func New(pp *cpp.Preprocessor, sink diag.Sink, file *source.File) *Parser {
	p := &Parser{pp: pp, diag: sink, file: file}
	for k := ast.BuiltinKind(0); int(k) < len(p.builtins); k++ {
		p.builtins[k] = &ast.Builtin{Kind: k}
	}
	p.pushScope()
	p.advance()
	return p
}

// ParseFile drives a full parse of file, returning its TranslationUnit.
// It owns the construction of the Preprocessor feeding the Parser, the
// shape used by every external caller (internal/maincmd and tests).
func ParseFile(files *source.Store, intrn *intern.Table, sink diag.Sink, search cpp.SearchPath, file *source.File) *ast.TranslationUnit {
	pp := cpp.New(files, intrn, sink, search)
	pp.PushFile(file)
	p := New(pp, sink, file)
	return p.ParseTranslationUnit()
}

func (p *Parser) builtin(k ast.BuiltinKind) *ast.Builtin { return p.builtins[k] }

func (p *Parser) errorType() ast.TypeQualified {
	return ast.TypeQualified{Type: p.builtin(ast.ErrorType)}
}

// pushScope opens a new innermost level on all three scoped maps together,
// the invariant spec.md §3 requires them to always share the same depth.
func (p *Parser) pushScope() {
	p.types.push()
	p.typedefs.push()
	p.decls.push()
}

// popScope closes the innermost level on all three scoped maps together.
func (p *Parser) popScope() {
	p.types.pop()
	p.typedefs.pop()
	p.decls.pop()
}

// next pulls the next token either from the one-slot pushback buffer or
// straight from the preprocessor.
func (p *Parser) next() token.Token {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t
	}
	t, ok := p.pp.Next()
	if !ok {
		t = token.Token{Kind: token.EOF}
	}
	return t
}

// advance consumes the current token and makes the following one current.
func (p *Parser) advance() { p.tok = p.next() }

// peek returns the token following the current one without consuming it,
// the single token of lookahead §4.4.4 calls "back".
func (p *Parser) peek() token.Token {
	if p.peeked == nil {
		t := p.next()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *Parser) errorAt(span source.Span, format string, args ...any) {
	if p.diag == nil {
		return
	}
	p.diag.Report(diag.Error, span, nil, fmt.Sprintf(format, args...))
}

// errorExpected reports a "expected X, found Y" diagnostic at the current
// token's position, mirroring the teacher's errorExpected.
func (p *Parser) errorExpected(label string) {
	lit := p.tok.Kind.GoString()
	if p.tok.Kind == token.IDENT || p.tok.Kind == token.INT {
		lit = p.tok.Value.Raw
	}
	p.errorAt(p.tok.Span, "expected %s, found %s", label, lit)
}

// errPanicMode unwinds to the nearest statement/declaration synchronization
// point after a hard parse error, the panic-and-recover pattern spec.md §7
// calls "synchronize to ';' or matching '}'".
type errPanicMode struct{}

// expect consumes the current token if its Kind is one of want, otherwise
// reports an error and panics with errPanicMode so the caller's recover
// can synchronize.
func (p *Parser) expect(want ...token.Kind) source.Span {
	span := p.tok.Span
	for _, k := range want {
		if p.tok.Kind == k {
			p.advance()
			return span
		}
	}

	var b strings.Builder
	for i, k := range want {
		if i > 0 {
			b.WriteString(" or ")
		}
		b.WriteString(k.GoString())
	}
	p.errorExpected(b.String())
	panic(errPanicMode{})
}

// syncToStmt discards tokens until just after a ';' seen at brace depth
// zero, or until a '}' at depth zero (left unconsumed, for the enclosing
// block parser to close), the recovery point spec.md §7 specifies for
// parser errors.
func (p *Parser) syncToStmt() {
	depth := 0
	for {
		switch p.tok.Kind {
		case token.EOF:
			return
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case token.LBRACE:
			depth++
		case token.SEMI:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// ParseTranslationUnit parses the whole processed token stream as a
// sequence of top-level declarations.
func (p *Parser) ParseTranslationUnit() *ast.TranslationUnit {
	tu := &ast.TranslationUnit{Name: p.fileName()}
	for p.tok.Kind != token.EOF {
		tu.Decls = append(tu.Decls, p.parseExternalDeclarationSync()...)
	}
	tu.EOF = p.tok.Span.Start
	return tu
}

func (p *Parser) fileName() string {
	if p.file == nil {
		return ""
	}
	return p.file.Name
}

// parseExternalDeclarationSync wraps parseExternalDeclaration with the
// panic/recover synchronization every top-level construct needs.
func (p *Parser) parseExternalDeclarationSync() (decls []*ast.Declaration) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errPanicMode); !ok {
				panic(r)
			}
			p.syncToStmt()
		}
	}()
	return p.parseExternalDeclaration()
}
