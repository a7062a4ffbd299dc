package parser

import (
	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// specifiers accumulates the primitive-type keywords seen while parsing a
// declaration's base type, so combinations like "unsigned long long" or
// "signed short int" can be resolved once the run of keywords ends.
type specifiers struct {
	void, char, short, int_, long, float_, double, signed, unsigned int
}

func (s specifiers) any() bool {
	return s.void+s.char+s.short+s.int_+s.long+s.float_+s.double+s.signed+s.unsigned > 0
}

// resolve maps an accumulated run of primitive-type keywords to its
// BuiltinKind, following the combinations C89 allows.
func (s specifiers) resolve() (ast.BuiltinKind, bool) {
	switch {
	case s.void > 0:
		return ast.VoidType, s.char == 0 && s.short == 0 && s.int_ == 0 && s.long == 0 && s.float_ == 0 && s.double == 0 && s.signed == 0 && s.unsigned == 0
	case s.float_ > 0:
		return ast.FloatType, s.char == 0 && s.short == 0 && s.int_ == 0 && s.long == 0 && s.double == 0 && s.signed == 0 && s.unsigned == 0
	case s.double > 0:
		if s.long > 0 {
			return ast.LongDoubleType, s.long == 1 && s.char == 0 && s.short == 0 && s.int_ == 0 && s.signed == 0 && s.unsigned == 0
		}
		return ast.DoubleType, s.char == 0 && s.short == 0 && s.int_ == 0 && s.signed == 0 && s.unsigned == 0
	case s.char > 0:
		switch {
		case s.unsigned > 0:
			return ast.UnsignedCharType, s.signed == 0 && s.short == 0 && s.int_ == 0 && s.long == 0
		case s.signed > 0:
			return ast.SignedCharType, s.short == 0 && s.int_ == 0 && s.long == 0
		default:
			return ast.CharType, s.short == 0 && s.int_ == 0 && s.long == 0
		}
	case s.short > 0:
		if s.unsigned > 0 {
			return ast.UnsignedShortType, s.signed == 0 && s.long == 0
		}
		return ast.ShortType, s.long == 0
	case s.long >= 2:
		if s.unsigned > 0 {
			return ast.UnsignedLongLongType, s.signed == 0 && s.short == 0
		}
		return ast.LongLongType, s.short == 0
	case s.long == 1:
		if s.unsigned > 0 {
			return ast.UnsignedLongType, s.signed == 0 && s.short == 0
		}
		return ast.LongType, s.short == 0
	case s.unsigned > 0:
		return ast.UnsignedIntType, s.signed == 0
	default:
		// bare "signed", bare "int", or "signed int".
		return ast.IntType, true
	}
}

// parseDeclSpecifiers reads the qualifiers and base type of a declaration,
// per spec.md §4.4.1: "const"/"volatile" in any order surrounding one of a
// primitive-type keyword, a struct/union/enum, or a typedef-aliased
// identifier. ok is false when the current token cannot start a
// declaration at all (used by callers to fall back to statement parsing).
func (p *Parser) parseDeclSpecifiers() (tq ast.TypeQualified, isTypedef bool, storage ast.DeclFlags, ok bool) {
	var isConst, isVolatile bool
	var spec specifiers
	var base ast.Type
	sawBase := false

loop:
	for {
		switch p.tok.Kind {
		case token.CONST:
			isConst = true
			p.advance()
		case token.VOLATILE:
			isVolatile = true
			p.advance()
		case token.TYPEDEF:
			isTypedef = true
			p.advance()
		case token.EXTERN:
			storage |= ast.DeclExtern
			p.advance()
		case token.STATIC:
			storage |= ast.DeclStatic
			p.advance()
		case token.VOID:
			spec.void++
			p.advance()
			sawBase = true
		case token.CHAR_KW:
			spec.char++
			p.advance()
			sawBase = true
		case token.SHORT:
			spec.short++
			p.advance()
			sawBase = true
		case token.INT_KW:
			spec.int_++
			p.advance()
			sawBase = true
		case token.LONG:
			spec.long++
			p.advance()
			sawBase = true
		case token.FLOAT:
			spec.float_++
			p.advance()
			sawBase = true
		case token.DOUBLE:
			spec.double++
			p.advance()
			sawBase = true
		case token.SIGNED:
			spec.signed++
			p.advance()
			sawBase = true
		case token.UNSIGNED:
			spec.unsigned++
			p.advance()
			sawBase = true
		case token.STRUCT, token.UNION:
			if sawBase {
				break loop
			}
			base = p.parseTagType(p.tok.Kind == token.UNION)
			sawBase = true
		case token.ENUM:
			if sawBase {
				break loop
			}
			base = p.parseEnumType()
			sawBase = true
		case token.IDENT:
			if sawBase {
				break loop
			}
			if resolved, isOk := p.resolveIdentAsBaseType(); isOk {
				base = resolved.Type
				isConst = isConst || resolved.Const
				isVolatile = isVolatile || resolved.Volatile
				sawBase = true
			} else {
				break loop
			}
		default:
			break loop
		}
	}

	if !sawBase {
		if !isConst && !isVolatile && !isTypedef && storage == 0 {
			return ast.TypeQualified{}, false, 0, false
		}
		// qualifiers/storage with no base type defaults to int, the
		// classic C89 implicit-int rule.
		base = p.builtin(ast.IntType)
	} else if base == nil {
		kind, validCombo := spec.resolve()
		if !validCombo {
			p.errorAt(p.tok.Span, "invalid combination of type specifiers")
			kind = ast.ErrorType
		}
		base = p.builtin(kind)
	}

	return ast.TypeQualified{Type: base, Const: isConst, Volatile: isVolatile}, isTypedef, storage, true
}

// resolveIdentAsBaseType resolves a bare identifier appearing where a base
// type is expected. Because an ordinary declaration can shadow an
// outer-scope typedef of the same name (the classic C "typedef problem"),
// the typedef and declarations maps are walked together from innermost to
// outermost scope, rather than each independently top-to-bottom: spec.md
// §8 scenario 5 requires that "int T;" in an inner block makes "T x;" in
// that same block an error even though an outer "typedef int T;" still
// holds. A tag name used without its "struct"/"union"/"enum" keyword is
// also accepted, with a hint diagnostic (spec.md §4.4.1, §8 scenario 6).
func (p *Parser) resolveIdentAsBaseType() (ast.TypeQualified, bool) {
	name := p.tok.Value.Raw
	pos := p.tok.Span

	for d := p.typedefs.depth() - 1; d >= 0; d-- {
		if tq, found := p.typedefs.levels[d].Get(name); found {
			p.advance()
			return tq, true
		}
		if _, found := p.decls.levels[d].Get(name); found {
			p.errorAt(pos, "%q: variable cannot be used as a type", name)
			p.advance()
			return p.errorType(), true
		}
	}
	if ty, found := p.types.lookup(name); found {
		kw := "struct"
		if su, isSU := ty.(*ast.StructOrUnion); isSU && su.IsUnion {
			kw = "union"
		} else if _, isEnum := ty.(*ast.Enum); isEnum {
			kw = "enum"
		}
		p.errorAt(pos, "use of %q requires the %q tag keyword", name, kw)
		p.advance()
		return ast.TypeQualified{Type: ty}, true
	}
	return ast.TypeQualified{}, false
}

// startsDeclSpecifier reports whether the current token could begin a
// declaration's type, used by statement-vs-declaration dispatch (spec.md
// §4.4.3) without consuming anything.
func (p *Parser) startsDeclSpecifier() bool {
	switch p.tok.Kind {
	case token.CONST, token.VOLATILE, token.TYPEDEF, token.EXTERN, token.STATIC,
		token.VOID, token.CHAR_KW, token.SHORT, token.INT_KW, token.LONG,
		token.FLOAT, token.DOUBLE, token.SIGNED, token.UNSIGNED,
		token.STRUCT, token.UNION, token.ENUM:
		return true
	case token.IDENT:
		_, ok := p.typedefs.lookup(p.tok.Value.Raw)
		return ok
	}
	return false
}

// parseTagType parses "struct"/"union" [tag] [ "{" member-decl... "}" ],
// implementing the insert-then-define pattern of spec.md §9 so a member
// pointing back to the same tag (a self-referential struct) resolves to
// the same *ast.StructOrUnion that will later be filled in.
func (p *Parser) parseTagType(isUnion bool) ast.Type {
	kwSpan := p.expect(token.STRUCT, token.UNION)

	var name string
	if p.tok.Kind == token.IDENT {
		name = p.tok.Value.Raw
		p.advance()
	}

	var ty *ast.StructOrUnion
	if name != "" {
		if existing, found := p.types.lookup(name); found {
			if su, isSU := existing.(*ast.StructOrUnion); isSU && su.IsUnion == isUnion {
				ty = su
			}
		}
	}
	if ty == nil {
		ty = &ast.StructOrUnion{Span: kwSpan, Name: name, IsUnion: isUnion, MemberLookup: map[string]*ast.Declaration{}}
		if name != "" {
			p.types.set(name, ty)
		}
	}

	if p.tok.Kind == token.LBRACE {
		if ty.Defined {
			p.errorAt(p.tok.Span, "redefinition of %q", ty.String())
		}
		p.parseStructBody(ty)
		ty.Defined = true
	} else if name == "" {
		p.errorAt(kwSpan, "tag name required for incomplete %s type", kindName(isUnion))
	}
	return ty
}

func kindName(isUnion bool) string {
	if isUnion {
		return "union"
	}
	return "struct"
}

// parseStructBody parses the brace-delimited member list of a struct or
// union definition, computing a naive C-ABI size and alignment as members
// are added.
func (p *Parser) parseStructBody(ty *ast.StructOrUnion) {
	p.advance() // consume '{'
	var offset, maxAlign int
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		base, _, _, ok := p.parseDeclSpecifiers()
		if !ok {
			p.errorExpected("member declaration")
			p.syncToStmt()
			continue
		}
		for {
			name, mtype, _, _, _, span := p.parseDeclarator(base)
			m := &ast.Declaration{Loc: span, Name: name, Type: mtype}
			size, align := sizeAndAlign(mtype)
			if align > 0 {
				offset = alignUp(offset, align)
			}
			if ty.IsUnion {
				if size > ty.Size {
					ty.Size = size
				}
			} else {
				offset += size
			}
			if align > maxAlign {
				maxAlign = align
			}
			ty.Members = append(ty.Members, m)
			if name != "" {
				ty.MemberLookup[name] = m
			}
			if p.tok.Kind != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.SEMI)
	}
	if !ty.IsUnion {
		ty.Size = alignUp(offset, maxAlign)
	}
	ty.Align = maxAlign
	p.expect(token.RBRACE)
}

// parseEnumType parses "enum" [tag] [ "{" ident [ "=" expr ] , ... "}" ].
func (p *Parser) parseEnumType() ast.Type {
	kwSpan := p.expect(token.ENUM)

	var name string
	if p.tok.Kind == token.IDENT {
		name = p.tok.Value.Raw
		p.advance()
	}

	var ty *ast.Enum
	if name != "" {
		if existing, found := p.types.lookup(name); found {
			if en, isEnum := existing.(*ast.Enum); isEnum {
				ty = en
			}
		}
	}
	if ty == nil {
		ty = &ast.Enum{Span: kwSpan, Name: name}
		if name != "" {
			p.types.set(name, ty)
		}
	}

	if p.tok.Kind == token.LBRACE {
		if ty.Defined {
			p.errorAt(p.tok.Span, "redefinition of %q", ty.String())
		}
		p.parseEnumBody(ty)
		ty.Defined = true
	} else if name == "" {
		p.errorAt(kwSpan, "tag name required for incomplete enum type")
	}
	return ty
}

func (p *Parser) parseEnumBody(ty *ast.Enum) {
	p.advance() // consume '{'
	next := int64(0)
	for p.tok.Kind != token.RBRACE && p.tok.Kind != token.EOF {
		if p.tok.Kind != token.IDENT {
			p.errorExpected("enumerator name")
			p.syncToStmt()
			break
		}
		name := p.tok.Value.Raw
		pos := p.tok.Span
		p.advance()

		val := next
		if p.tok.Kind == token.ASSIGN {
			p.advance()
			expr := p.parseAssignExpr()
			if lit, isInt := expr.(*ast.IntegerLiteral); isInt {
				val = int64(lit.Value)
			} else {
				p.errorAt(expr.Span(), "enumerator value must be a constant integer expression")
			}
		}
		ty.Values = append(ty.Values, ast.EnumValue{Name: name, Value: val})
		next = val + 1

		decl := &ast.Declaration{
			Loc:   pos,
			Name:  name,
			Type:  ast.TypeQualified{Type: p.builtin(ast.IntType)},
			Flags: ast.DeclEnumConstant,
			Init:  &ast.IntegerLiteral{Span_: pos, Value: uint64(val), Type: ast.TypeQualified{Type: p.builtin(ast.IntType)}},
		}
		if !p.decls.insert(name, decl) {
			p.errorAt(pos, "redeclaration of %q", name)
		}

		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
}

// declaratorParams describes one function-declarator parameter.
type declaratorParams struct {
	params     []*ast.Declaration
	hasVarargs bool
}

// parseDeclarator parses one declarator built on base: zero or more "*"
// prefixes (each with its own optional const/volatile), an identifier,
// and an optional array or function suffix.
func (p *Parser) parseDeclarator(base ast.TypeQualified) (name string, declType ast.TypeQualified, isFunc bool, fn declaratorParams, hasVarargs bool, nameSpan source.Span) {
	ty := base
	for p.tok.Kind == token.STAR {
		p.advance()
		var c, v bool
		for p.tok.Kind == token.CONST || p.tok.Kind == token.VOLATILE {
			if p.tok.Kind == token.CONST {
				c = true
			} else {
				v = true
			}
			p.advance()
		}
		ty = ast.TypeQualified{Type: &ast.Pointer{Elem: ty}, Const: c, Volatile: v}
	}

	if p.tok.Kind == token.IDENT {
		name = p.tok.Value.Raw
		nameSpan = p.tok.Span
		p.advance()
	} else {
		nameSpan = p.tok.Span
	}

	switch p.tok.Kind {
	case token.LPAREN:
		isFunc = true
		fn.params, fn.hasVarargs = p.parseParamList()
		paramTypes := make([]ast.TypeQualified, len(fn.params))
		for i, prm := range fn.params {
			paramTypes[i] = prm.Type
		}
		declType = ast.TypeQualified{Type: &ast.Function{Return: ty, Params: paramTypes, HasVarargs: fn.hasVarargs}}
		hasVarargs = fn.hasVarargs
	case token.LBRACK:
		p.advance()
		var length ast.Expr
		if p.tok.Kind != token.RBRACK {
			length = p.parseAssignExpr()
		}
		p.expect(token.RBRACK)
		declType = ast.TypeQualified{Type: &ast.Array{Elem: ty, Length: length}}
	default:
		declType = ty
	}
	return name, declType, isFunc, fn, hasVarargs, nameSpan
}

// parseParamList parses a "(" param-decl { "," param-decl } [ "," "..." ] ")"
// parameter list. A lone "(void)" is treated as zero parameters.
func (p *Parser) parseParamList() ([]*ast.Declaration, bool) {
	p.expect(token.LPAREN)
	if p.tok.Kind == token.RPAREN {
		p.advance()
		return nil, false
	}

	var params []*ast.Declaration
	var hasVarargs bool
	for {
		if p.tok.Kind == token.ELLIPSIS {
			hasVarargs = true
			p.advance()
			break
		}
		base, _, _, ok := p.parseDeclSpecifiers()
		if !ok {
			p.errorExpected("parameter declaration")
			break
		}
		if len(params) == 0 && base.Type == p.builtin(ast.VoidType) && p.tok.Kind == token.RPAREN {
			break
		}
		name, ty, _, _, _, span := p.parseDeclarator(base)
		params = append(params, &ast.Declaration{Loc: span, Name: name, Type: ty})
		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)
	return params, hasVarargs
}

// parseTypeName parses an abstract declarator for a cast target: the base
// type followed by zero or more "*" with no identifier.
func (p *Parser) parseTypeName() ast.TypeQualified {
	base, _, _, ok := p.parseDeclSpecifiers()
	if !ok {
		p.errorExpected("type name")
		return p.errorType()
	}
	ty := base
	for p.tok.Kind == token.STAR {
		p.advance()
		var c, v bool
		for p.tok.Kind == token.CONST || p.tok.Kind == token.VOLATILE {
			if p.tok.Kind == token.CONST {
				c = true
			} else {
				v = true
			}
			p.advance()
		}
		ty = ast.TypeQualified{Type: &ast.Pointer{Elem: ty}, Const: c, Volatile: v}
	}
	return ty
}

// sizeAndAlign returns a naive LP64 C-ABI size and alignment for tq, used
// only for the Size/Align fields of struct/union layout (spec.md §3).
func sizeAndAlign(tq ast.TypeQualified) (int, int) {
	switch t := tq.Type.(type) {
	case *ast.Builtin:
		switch t.Kind {
		case ast.VoidType:
			return 0, 1
		case ast.CharType, ast.SignedCharType, ast.UnsignedCharType:
			return 1, 1
		case ast.ShortType, ast.UnsignedShortType:
			return 2, 2
		case ast.IntType, ast.UnsignedIntType, ast.FloatType:
			return 4, 4
		case ast.LongType, ast.UnsignedLongType, ast.LongLongType, ast.UnsignedLongLongType, ast.DoubleType:
			return 8, 8
		case ast.LongDoubleType:
			return 16, 16
		default:
			return 0, 1
		}
	case *ast.Pointer:
		return 8, 8
	case *ast.StructOrUnion:
		if t.Size == 0 && t.Align == 0 {
			return 0, 1
		}
		return t.Size, t.Align
	case *ast.Enum:
		return 4, 4
	case *ast.Array:
		elemSize, elemAlign := sizeAndAlign(t.Elem)
		if lit, ok := t.Length.(*ast.IntegerLiteral); ok {
			return elemSize * int(lit.Value), elemAlign
		}
		return 0, elemAlign
	default:
		return 0, 1
	}
}

func alignUp(offset, align int) int {
	if align <= 1 {
		return offset
	}
	if r := offset % align; r != 0 {
		return offset + (align - r)
	}
	return offset
}
