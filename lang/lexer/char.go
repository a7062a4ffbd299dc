package lexer

import (
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// lexChar scans a character literal: ' then one logical character or \X
// escape, then '.
func (l *Lexer) lexChar(start source.Location) (token.Kind, token.Value) {
	l.advance() // consume opening '

	var buf []byte
	var value rune
	terminated := false
	for !l.eof {
		if l.ch == '\'' {
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
		l.errorAt(start, "character literal not terminated")
	}
	if len(buf) > 0 {
		value = rune(buf[0])
	}

	return token.CHAR, token.Value{Raw: string(buf), Char: value}
}
