package parser

import (
	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/token"
)

// parseStatement dispatches on the current token per spec.md §4.4.3:
// "{" starts a block, "for"/"while"/"return" their own constructs, and
// anything else is either a declaration or an expression statement.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.tok.Kind {
	case token.LBRACE:
		return p.parseBlock()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		return p.parseReturn()
	default:
		stmts := p.parseDeclarationOrStatement()
		return p.expectSingleStmt(stmts)
	}
}

// expectSingleStmt collapses a statement list down to one Stmt, wrapping
// more than one in an (unscoped) Block so a single caller slot (e.g. a
// for-loop's init clause) can still hold a multi-declarator declaration.
func (p *Parser) expectSingleStmt(stmts []ast.Stmt) ast.Stmt {
	switch len(stmts) {
	case 0:
		return nil
	case 1:
		return stmts[0]
	default:
		return &ast.Block{Stmts: stmts}
	}
}

// parseDeclarationOrStatement implements spec.md §4.4.3's
// parse_declaration_or_statement: peek the first token; if it is a type
// keyword or resolves via the typedef map, it is a declaration (returning
// one InitializerDefault/InitializerCopy statement per declarator),
// otherwise a single expression statement.
func (p *Parser) parseDeclarationOrStatement() []ast.Stmt {
	if p.startsDeclSpecifier() {
		return p.parseBlockDeclaration()
	}
	expr := p.parseExpr()
	semi := p.expect(token.SEMI)
	return []ast.Stmt{&ast.ExprStmt{Expr: expr, Semi: semi.End}}
}

// parseBlockDeclaration parses a block-scope declaration: a base type
// followed by a comma-separated declarator list, each becoming an
// InitializerDefault or InitializerCopy statement (or, for a typedef
// declaration, a typedef-alias scope entry with no statement at all).
func (p *Parser) parseBlockDeclaration() []ast.Stmt {
	base, isTypedef, storage, ok := p.parseDeclSpecifiers()
	if !ok {
		p.errorExpected("declaration")
		panic(errPanicMode{})
	}

	var stmts []ast.Stmt
	for {
		name, ty, _, _, _, span := p.parseDeclarator(base)
		if isTypedef {
			if name != "" {
				p.typedefs.set(name, ty)
			}
		} else {
			decl := &ast.Declaration{Loc: span, Name: name, Type: ty, Flags: storage}
			if !p.decls.insert(name, decl) {
				p.errorAt(span, "redeclaration of %q in this scope", name)
			}
			if p.tok.Kind == token.ASSIGN {
				p.advance()
				decl.Init = p.parseAssignExpr()
				stmts = append(stmts, &ast.InitializerCopy{Decl: decl, Value: decl.Init})
			} else {
				stmts = append(stmts, &ast.InitializerDefault{Decl: decl})
			}
		}
		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.SEMI)
	return stmts
}

// parseBlock parses a brace-delimited statement list, pushing a new level
// on all three scoped maps on entry and popping them on exit.
func (p *Parser) parseBlock() *ast.Block {
	start := p.tok.Span.Start
	p.advance() // consume '{'
	p.pushScope()
	defer p.popScope()

	blk := &ast.Block{Start: start}
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		blk.Stmts = append(blk.Stmts, p.parseStatementSync())
	}
	end := p.tok.Span.End
	p.expect(token.RBRACE)
	blk.End = end
	return blk
}

// parseStatementSync wraps parseStatement with the panic/recover
// synchronization spec.md §7 requires so one malformed statement does not
// abort the whole translation unit.
func (p *Parser) parseStatementSync() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(errPanicMode); !ok {
				panic(r)
			}
			p.syncToStmt()
			stmt = &ast.ExprStmt{Expr: &ast.IntegerLiteral{Span_: p.tok.Span}, Semi: p.tok.Span.Start}
		}
	}()
	return p.parseStatement()
}

// parseFor parses "for" "(" init ";" cond ";" incr ")" body. init may be
// an expression statement or a declaration; cond and incr may be absent.
func (p *Parser) parseFor() ast.Stmt {
	start := p.tok.Span.Start
	p.advance() // consume 'for'
	p.expect(token.LPAREN)
	p.pushScope()
	defer p.popScope()

	var init ast.Stmt
	if p.tok.Kind != token.SEMI {
		init = p.expectSingleStmt(p.parseDeclarationOrStatement())
	} else {
		p.advance()
	}

	var cond ast.Expr
	if p.tok.Kind != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var incr ast.Expr
	if p.tok.Kind != token.RPAREN {
		incr = p.parseExpr()
	}
	p.expect(token.RPAREN)

	body := p.parseStatementSync()
	return &ast.For{Start: start, Init: init, Cond: cond, Incr: incr, Body: body}
}

// parseWhile parses "while" "(" cond ")" body.
func (p *Parser) parseWhile() ast.Stmt {
	start := p.tok.Span.Start
	p.advance() // consume 'while'
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseStatementSync()
	return &ast.While{Start: start, Cond: cond, Body: body}
}

// parseReturn parses "return" [ expr ] ";".
func (p *Parser) parseReturn() ast.Stmt {
	start := p.tok.Span.Start
	p.advance() // consume 'return'
	var val ast.Expr
	if p.tok.Kind != token.SEMI {
		val = p.parseExpr()
	}
	end := p.expect(token.SEMI)
	return &ast.Return{Start: start, End: end.End, Value: val}
}
