package parser

import (
	"github.com/mna/redcc/lang/ast"
	"github.com/mna/redcc/lang/token"
)

// parseExternalDeclaration parses one top-level construct: a base type
// followed by a comma-separated declarator list, where a single
// function-shaped declarator immediately followed by "{" is a function
// definition rather than a prototype. A lone "struct S { ... };" with no
// declarator is valid and yields no Declaration.
func (p *Parser) parseExternalDeclaration() []*ast.Declaration {
	base, isTypedef, storage, ok := p.parseDeclSpecifiers()
	if !ok {
		p.errorExpected("declaration")
		panic(errPanicMode{})
	}

	if p.tok.Kind == token.SEMI {
		p.advance()
		return nil
	}

	var decls []*ast.Declaration
	for {
		name, ty, isFunc, fn, _, span := p.parseDeclarator(base)

		if isTypedef {
			if name != "" {
				p.typedefs.set(name, ty)
			}
		} else {
			decl := &ast.Declaration{Loc: span, Name: name, Type: ty, Flags: storage}

			if isFunc && p.tok.Kind == token.LBRACE {
				if prior, found := p.decls.lookupInnermost(name); !found {
					p.decls.insert(name, decl)
				} else {
					decl = prior // a prototype already declared this function; fill in its body
					decl.Type = ty
				}
				p.pushScope()
				for _, prm := range fn.params {
					if prm.Name != "" {
						p.decls.insert(prm.Name, prm)
					}
				}
				decl.Body = p.parseBlock()
				p.popScope()
				decls = append(decls, decl)
				break
			}

			if !p.decls.insert(name, decl) {
				p.errorAt(span, "redeclaration of %q", name)
			}
			if p.tok.Kind == token.ASSIGN {
				p.advance()
				decl.Init = p.parseAssignExpr()
			}
			decls = append(decls, decl)
		}

		if p.tok.Kind != token.COMMA {
			break
		}
		p.advance()
	}

	if len(decls) == 0 || decls[len(decls)-1].Body == nil {
		p.expect(token.SEMI)
	}
	return decls
}
