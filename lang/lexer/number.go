package lexer

import "github.com/mna/redcc/lang/token"

// lexNumber scans an integer literal: decimal digits followed by an
// optional suffix from {u,U,l,L} in any order. Two
// consecutive same-case 'l'/'L' form LongLong; mixed case forms Long.
func (l *Lexer) lexNumber() (token.Kind, token.Value) {
	var raw []byte
	var value uint64
	for !l.eof && isDigit(l.ch) {
		raw = append(raw, l.ch)
		value = value*10 + uint64(l.ch-'0')
		l.advance()
	}

	var suffix token.Suffix
loop:
	for !l.eof {
		switch l.ch {
		case 'u', 'U':
			suffix |= token.SuffixUnsigned
			raw = append(raw, l.ch)
			l.advance()
		case 'l', 'L':
			first := l.ch
			raw = append(raw, l.ch)
			l.advance()
			if !l.eof && l.ch == first {
				suffix |= token.SuffixLongLong
				raw = append(raw, l.ch)
				l.advance()
			} else {
				suffix |= token.SuffixLong
			}
		default:
			break loop
		}
	}

	return token.INT, token.Value{
		Raw:       string(raw),
		Int:       value,
		IntSuffix: suffix,
	}
}
