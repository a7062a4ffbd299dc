package cpp

import "github.com/mna/redcc/lang/token"

// exprParser evaluates a `#if`/`#elif` constant expression over a flat
// slice of already-macro-expanded tokens (except for `defined`'s operand,
// which the caller resolves before macro expansion runs, per spec.md
// §4.3 step 4). It is a small precedence-climbing parser mirroring the
// one in lang/parser but restricted to the integer-constant grammar C89
// allows in preprocessor conditionals.
type exprParser struct {
	toks []token.Token
	pos  int
	pp   *Preprocessor
}

func (p *exprParser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *exprParser) next() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// binPrec gives the precedence of binary operators valid in a
// preprocessor conditional expression; the table mirrors spec.md §4.4.2
// restricted to the operators spec.md §4.3 step 4 names for `#if`.
func binPrec(k token.Kind) int {
	switch k {
	case token.STAR, token.SLASH, token.PERCENT:
		return 5
	case token.PLUS, token.MINUS:
		return 6
	case token.SHL, token.SHR:
		return 7
	case token.LT, token.LE, token.GT, token.GE:
		return 9
	case token.EQL, token.NEQ:
		return 10
	case token.AMP:
		return 11
	case token.CARET:
		return 12
	case token.PIPE:
		return 13
	case token.ANDAND:
		return 14
	case token.OROR:
		return 15
	default:
		return -1
	}
}

// loosestBinPrec is the loosest (highest-numbered) level binPrec assigns
// ("||" at 15), the bound a full expression parse starts from.
const loosestBinPrec = 15

// evalCondition parses and evaluates toks as a C89 constant expression,
// returning whether it is non-zero. Unknown identifiers (anything left
// after macro expansion that isn't an integer literal) evaluate to 0, per
// spec.md §4.3 step 4.
func (pp *Preprocessor) evalCondition(toks []token.Token) (bool, error) {
	p := &exprParser{toks: toks, pp: pp}
	v, err := p.parseExpr(loosestBinPrec)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// parseExpr implements precedence climbing using binPrec's numbering,
// where a LOWER number binds tighter: maxPrec is the loosest operator
// this call may consume, and each right operand recurses one level
// tighter than its own operator so a repeated same-level operator is
// folded in left-associatively by this call's loop instead of the
// recursion.
func (p *exprParser) parseExpr(maxPrec int) (int64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		prec := binPrec(op.Kind)
		if prec < 0 || prec > maxPrec {
			return left, nil
		}
		p.next()

		// Ternary is handled inline at the `?`-adjacent precedence the
		// table reserves for it; `?:` itself isn't in binPrec since it's
		// not a left-binary operator.
		right, err := p.parseExpr(prec - 1)
		if err != nil {
			return 0, err
		}
		left = applyBinOp(op.Kind, left, right)
	}
}

func (p *exprParser) parseUnary() (int64, error) {
	t := p.peek()
	switch t.Kind {
	case token.PLUS:
		p.next()
		return p.parseUnary()
	case token.MINUS:
		p.next()
		v, err := p.parseUnary()
		return -v, err
	case token.BANG:
		p.next()
		v, err := p.parseUnary()
		if v == 0 {
			return 1, err
		}
		return 0, err
	case token.TILDE:
		p.next()
		v, err := p.parseUnary()
		return ^v, err
	default:
		return p.parseTernary()
	}
}

func (p *exprParser) parseTernary() (int64, error) {
	cond, err := p.parseAtom()
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != token.QUESTION {
		return cond, nil
	}
	p.next()
	then, err := p.parseExpr(loosestBinPrec)
	if err != nil {
		return 0, err
	}
	if p.peek().Kind != token.COLON {
		return 0, errf("expected ':' in conditional expression")
	}
	p.next()
	els, err := p.parseExpr(loosestBinPrec)
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return then, nil
	}
	return els, nil
}

func (p *exprParser) parseAtom() (int64, error) {
	t := p.next()
	switch t.Kind {
	case token.INT:
		return int64(t.Value.Int), nil
	case token.LPAREN:
		v, err := p.parseExpr(loosestBinPrec)
		if err != nil {
			return 0, err
		}
		if p.peek().Kind != token.RPAREN {
			return 0, errf("expected ')'")
		}
		p.next()
		return v, nil
	case token.IDENT:
		// Any remaining identifier (not handled as `defined` by the
		// caller before this evaluator ever sees it) is an unknown macro
		// and evaluates to 0.
		return 0, nil
	default:
		return 0, errf("expected expression in constant expression")
	}
}

func applyBinOp(op token.Kind, l, r int64) int64 {
	switch op {
	case token.STAR:
		return l * r
	case token.SLASH:
		if r == 0 {
			return 0
		}
		return l / r
	case token.PERCENT:
		if r == 0 {
			return 0
		}
		return l % r
	case token.PLUS:
		return l + r
	case token.MINUS:
		return l - r
	case token.SHL:
		return l << uint(r)
	case token.SHR:
		return l >> uint(r)
	case token.LT:
		return boolToInt(l < r)
	case token.LE:
		return boolToInt(l <= r)
	case token.GT:
		return boolToInt(l > r)
	case token.GE:
		return boolToInt(l >= r)
	case token.EQL:
		return boolToInt(l == r)
	case token.NEQ:
		return boolToInt(l != r)
	case token.AMP:
		return l & r
	case token.CARET:
		return l ^ r
	case token.PIPE:
		return l | r
	case token.ANDAND:
		return boolToInt(l != 0 && r != 0)
	case token.OROR:
		return boolToInt(l != 0 || r != 0)
	default:
		return 0
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
