package lexer

import "github.com/mna/redcc/lang/token"

// lexIdent scans [A-Za-z_][A-Za-z0-9_]* and classifies it as a keyword or
// a plain identifier.
func (l *Lexer) lexIdent() (token.Kind, token.Value) {
	var buf []byte
	for !l.eof && isIdentCont(l.ch) {
		buf = append(buf, l.ch)
		l.advance()
	}
	lit := string(buf)

	kind := token.LookupKeyword(lit)
	val := token.Value{Raw: lit}
	if kind == token.IDENT {
		val.IdentID = int(l.intrn.Intern(lit))
	}
	return kind, val
}
