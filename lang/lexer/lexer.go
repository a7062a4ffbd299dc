// Package lexer recognizes C tokens from a source.Cursor: operators and
// digraphs, identifiers and keywords, and numeric/character/string
// literals. It knows nothing about preprocessor directives or macros —
// that's lang/cpp, which is built on top of it.
package lexer

import (
	"fmt"

	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// Lexer reads raw tokens from a source.Cursor using peekable lookahead. It
// is stateless between tokens except for the interned-string arena it
// shares with the rest of the translation unit and the beginning-of-line
// flag used to gate preprocessor directive recognition.
type Lexer struct {
	cur   *source.Cursor
	diag  diag.Sink
	intrn *intern.Table

	ch    byte
	chLoc source.Location
	eof   bool

	bol bool // true if the next token starts a logical line
}

// New returns a Lexer reading from cur, interning identifier and string
// payloads into intrn and reporting lexical errors to sink.
func New(cur *source.Cursor, intrn *intern.Table, sink diag.Sink) *Lexer {
	l := &Lexer{cur: cur, intrn: intrn, diag: sink, bol: true}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	ch, loc, ok := l.cur.Next()
	l.eof = !ok
	l.ch = ch
	l.chLoc = loc
}

// advanceIf consumes the current character and returns true if it equals
// want; otherwise it leaves the cursor untouched and returns false.
func (l *Lexer) advanceIf(want byte) bool {
	if !l.eof && l.ch == want {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) errorAt(loc source.Location, msg string) {
	if l.diag == nil {
		return
	}
	l.diag.Report(diag.Error, source.Span{Start: loc, End: l.chLoc}, nil, msg)
}

func (l *Lexer) errorf(loc source.Location, format string, args ...any) {
	l.errorAt(loc, fmt.Sprintf(format, args...))
}

// Next reads the next raw token, along with whether it starts a logical
// line (used by the preprocessor to recognize a leading '#' as a directive
// introducer).
func (l *Lexer) Next() (token.Kind, token.Value, source.Span, bool) {
	sawNewline := l.skipTrivia()
	if sawNewline {
		l.bol = true
	}
	atBOL := l.bol
	l.bol = false

	start := l.chLoc
	if l.eof {
		return token.EOF, token.Value{Raw: ""}, source.Span{Start: start, End: start}, atBOL
	}

	var kind token.Kind
	var val token.Value
	switch {
	case isIdentStart(l.ch):
		kind, val = l.lexIdent()
	case isDigit(l.ch):
		kind, val = l.lexNumber()
	case l.ch == '\'':
		kind, val = l.lexChar(start)
	case l.ch == '"':
		kind, val = l.lexString(start)
	default:
		kind, val = l.lexPunct(start)
	}
	return kind, val, source.Span{Start: start, End: l.chLoc}, atBOL
}

// skipTrivia consumes whitespace and comments, reporting whether any
// newline was consumed along the way.
func (l *Lexer) skipTrivia() (sawNewline bool) {
	for !l.eof {
		switch l.ch {
		case ' ', '\t', '\f', '\v':
			l.advance()
		case '\n':
			sawNewline = true
			l.advance()
		case '/':
			if !l.skipComment() {
				return sawNewline
			}
		default:
			return sawNewline
		}
	}
	return sawNewline
}

// skipComment consumes a "//" or "/*" comment starting at the current '/'.
// It reports false (consuming nothing) if the current character is a '/'
// that does not introduce a comment.
func (l *Lexer) skipComment() bool {
	next, ok := l.cur.PeekAt(0)
	if !ok || (next != '/' && next != '*') {
		return false
	}

	start := l.chLoc
	l.advance() // consume '/'
	if l.advanceIf('/') {
		for !l.eof && l.ch != '\n' {
			l.advance()
		}
		return true
	}

	l.advance() // consume '*'
	for {
		if l.eof {
			l.errorAt(start, "unterminated block comment")
			return true
		}
		if l.ch == '*' {
			l.advance()
			if l.advanceIf('/') {
				return true
			}
			continue
		}
		l.advance()
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
