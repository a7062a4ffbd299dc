package parser

import (
	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// binaryPrecedence is the operator table of spec.md §4.4.2. Every operator
// it lists is left-associative; "=" is not in it and is parsed,
// right-associatively, by parseAssignExpr.
var binaryPrecedence = map[token.Kind]int{
	token.STAR: 5, token.SLASH: 5,
	token.PLUS: 6, token.MINUS: 6,
	token.LT: 9, token.LE: 9, token.GT: 9, token.GE: 9,
	token.EQL: 10, token.NEQ: 10,
	token.AMP:    11,
	token.PIPE:   13,
	token.ANDAND: 14,
	token.OROR:   15,
}

// parseExpr parses a full comma expression, precedence 17 in spec.md's
// table, the widest grammar production ("expression").
func (p *Parser) parseExpr() ast.Expr {
	left := p.parseAssignExpr()
	for p.tok.Kind == token.COMMA {
		op := p.tok
		p.advance()
		right := p.parseAssignExpr()
		left = &ast.Binary{Left: left, Op: op.Kind, OpPos: op.Span.Start, Right: right}
	}
	return left
}

// parseAssignExpr parses an assignment expression, precedence 16,
// right-associative.
func (p *Parser) parseAssignExpr() ast.Expr {
	left := p.parseTernaryExpr()
	if p.tok.Kind == token.ASSIGN {
		op := p.tok
		p.advance()
		right := p.parseAssignExpr()
		return &ast.Binary{Left: left, Op: op.Kind, OpPos: op.Span.Start, Right: right}
	}
	return left
}

// looseBinaryPrec is the loosest (highest-numbered) level parseBinaryExpr
// handles on its own; "||" at 15 is the loosest entry in binaryPrecedence,
// since "=" (16) and "," (17) are parsed by their own dedicated functions
// above it.
const looseBinaryPrec = 15

// parseTernaryExpr parses "cond ? then : else", sitting between the "||"
// level and assignment the way C's grammar places it.
func (p *Parser) parseTernaryExpr() ast.Expr {
	cond := p.parseBinaryExpr(looseBinaryPrec)
	if p.tok.Kind == token.QUESTION {
		p.advance()
		then := p.parseAssignExpr()
		p.expect(token.COLON)
		els := p.parseTernaryExpr()
		return &ast.Ternary{Cond: cond, Then: then, Else: els}
	}
	return cond
}

// parseBinaryExpr implements precedence climbing over binaryPrecedence
// using spec.md §4.4.2's numbering, where a LOWER number binds tighter
// (e.g. "*" at 5 binds before "+" at 6): maxPrec is the loosest (highest
// numbered) operator this call is willing to consume, and each operator's
// right operand recurses with maxPrec one tighter than its own level so
// that a repeated operator at the same level is left for this call's loop
// to fold in left-associatively instead of being swallowed by the
// recursion.
func (p *Parser) parseBinaryExpr(maxPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		prec, ok := binaryPrecedence[p.tok.Kind]
		if !ok || prec > maxPrec {
			return left
		}
		op := p.tok
		p.advance()
		right := p.parseBinaryExpr(prec - 1)
		left = &ast.Binary{Left: left, Op: op.Kind, OpPos: op.Span.Start, Right: right}
	}
}

// parseUnaryExpr recognizes a cast "(" type-name ")" unary-expr; anything
// else falls through to an atom. A parenthesized type name is
// disambiguated from a parenthesized expression by peeking one token past
// "(" and checking whether it could start a declaration specifier.
func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.tok.Kind == token.LPAREN && p.startsCastAhead() {
		start := p.tok.Span
		p.advance() // consume '('
		target := p.parseTypeName()
		p.expect(token.RPAREN)
		value := p.parseUnaryExpr()
		return &ast.Cast{Span_: source.Join(start, value.Span()), Target: target, Value: value}
	}
	return p.parseAtom()
}

// startsCastAhead reports whether the token following the current "(" can
// start a declaration specifier, using the parser's one-token peek.
func (p *Parser) startsCastAhead() bool {
	next := p.peek()
	switch next.Kind {
	case token.CONST, token.VOLATILE, token.VOID, token.CHAR_KW, token.SHORT,
		token.INT_KW, token.LONG, token.FLOAT, token.DOUBLE, token.SIGNED,
		token.UNSIGNED, token.STRUCT, token.UNION, token.ENUM:
		return true
	case token.IDENT:
		_, ok := p.typedefs.lookup(next.Value.Raw)
		return ok
	}
	return false
}

// parseAtom parses the atoms of spec.md §4.4.2: an integer literal, an
// identifier resolved against the declarations scope, or a parenthesized
// expression.
func (p *Parser) parseAtom() ast.Expr {
	switch p.tok.Kind {
	case token.INT:
		lit := &ast.IntegerLiteral{Span_: p.tok.Span, Value: p.tok.Value.Int, Type: ast.TypeQualified{Type: p.builtin(ast.IntType)}}
		p.advance()
		return lit
	case token.IDENT:
		name := p.tok.Value.Raw
		span := p.tok.Span
		decl, ok := p.decls.lookup(name)
		if !ok {
			p.errorAt(span, "undefined variable %q", name)
		}
		p.advance()
		return &ast.Variable{Span_: span, Name: name, Decl: decl}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	default:
		p.errorExpected("expression")
		panic(errPanicMode{})
	}
}
