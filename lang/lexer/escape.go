package lexer

import "github.com/mna/redcc/lang/source"

// simpleEscapes is the C89 escape set this system recognizes: \\ \" \' \n \t \f \r \v \0.
var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
	'n':  '\n',
	't':  '\t',
	'f':  '\f',
	'r':  '\r',
	'v':  '\v',
	'0':  0,
}

// readEscape consumes an escape sequence after its leading backslash has
// already been consumed, appending the decoded byte to buf. An unknown
// escape is reported but does not stop scanning: the backslash is dropped
// and the following character is kept as-is.
func (l *Lexer) readEscape(buf []byte, backslashLoc source.Location) []byte {
	if l.eof {
		l.errorAt(backslashLoc, "string literal not terminated")
		return buf
	}
	c := l.ch
	l.advance()
	if repl, ok := simpleEscapes[c]; ok {
		return append(buf, repl)
	}
	l.errorAt(backslashLoc, "unknown escape sequence")
	return append(buf, c)
}
