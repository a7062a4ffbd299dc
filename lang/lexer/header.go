package lexer

import "github.com/mna/redcc/lang/source"

// ScanHeaderName reads the remainder of an `#include <...>` header name
// directly off the character stream, starting right after the '<' that the
// caller already consumed as an ordinary LT token. A header name is not
// tokenized the normal way: '/' must not start a comment and no escape
// processing applies, so this bypasses Next entirely. closer is the
// terminating character ('>'). It reports false if a newline or EOF is
// reached before closer.
func (l *Lexer) ScanHeaderName(closer byte) (string, source.Span, bool) {
	start := l.chLoc
	var buf []byte
	for {
		if l.eof || l.ch == '\n' {
			return "", source.Span{Start: start, End: l.chLoc}, false
		}
		if l.ch == closer {
			end := l.chLoc
			l.advance()
			return string(buf), source.Span{Start: start, End: end}, true
		}
		buf = append(buf, l.ch)
		l.advance()
	}
}
