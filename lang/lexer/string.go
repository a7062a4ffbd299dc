package lexer

import (
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// lexString scans a string literal: " then characters with the same
// escape set as character literals, then ".
func (l *Lexer) lexString(start source.Location) (token.Kind, token.Value) {
	l.advance() // consume opening "

	var buf []byte
	terminated := false
	for !l.eof {
		if l.ch == '"' {
			l.advance()
			terminated = true
			break
		}
		if l.ch == '\n' {
			break
		}
		if l.ch == '\\' {
			bsLoc := l.chLoc
			l.advance()
			buf = l.readEscape(buf, bsLoc)
			continue
		}
		buf = append(buf, l.ch)
		l.advance()
	}
	if !terminated {
		l.errorAt(start, "string literal not terminated")
	}

	id := l.intrn.Intern(string(buf))
	return token.STRING, token.Value{Raw: string(buf), StringID: int(id), StringText: string(buf)}
}
