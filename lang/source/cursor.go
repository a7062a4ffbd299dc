package source

// trigraphs maps the third character of a "??X" sequence to its replacement.
var trigraphs = map[byte]byte{
	'=':  '#',
	'/':  '\\',
	'\'': '^',
	'(':  '[',
	')':  ']',
	'!':  '|',
	'<':  '{',
	'>':  '}',
	'-':  '~',
}

// Cursor reads logical C source characters, one at a time, from a File. It
// performs trigraph replacement and backslash-newline line-splice folding
// as it goes, and tracks (file, offset, line, column).
type Cursor struct {
	file *File
	loc  Location
}

// NewCursor returns a Cursor positioned at the start of file.
func NewCursor(file *File) *Cursor {
	return &Cursor{
		file: file,
		loc:  Location{File: file.ID},
	}
}

// NewCursorAt returns a Cursor positioned at the given location within
// file. Nothing in this module calls it; the preprocessor's lookahead
// goes back through its own pending buffer instead.
func NewCursorAt(file *File, loc Location) *Cursor {
	return &Cursor{file: file, loc: loc}
}

// File returns the file this cursor reads from.
func (c *Cursor) File() *File { return c.file }

// Location returns the cursor's current position: the location that the
// next call to Next will report as its start.
func (c *Cursor) Location() Location { return c.loc }

// peek returns the byte at the cursor's offset plus the given delta,
// without advancing, or 0 if that index is out of range.
func (c *Cursor) peek(delta int) byte {
	idx := c.loc.Offset + delta
	if idx < 0 || idx >= c.file.Contents.Len() {
		return 0
	}
	return c.file.Contents.At(idx)
}

// atEOF reports whether the cursor has consumed the whole file.
func (c *Cursor) atEOF() bool {
	return c.loc.Offset >= c.file.Contents.Len()
}

// Next returns the next logical character and its starting location, after
// trigraph replacement and line splicing, or ok=false at end of file. It
// implements trigraph replacement and line-splice folding together so a
// trigraph that produces a backslash-newline pair still triggers a splice.
func (c *Cursor) Next() (ch byte, start Location, ok bool) {
	for {
		if c.atEOF() {
			return 0, c.loc, false
		}
		start = c.loc
		b := c.peek(0)

		if b == '?' && c.peek(1) == '?' {
			if repl, isTrigraph := trigraphs[c.peek(2)]; isTrigraph {
				b = repl
				c.advanceRaw(2)
				c.loc.Column += 2
			}
			// else: a lone "??" with no valid third char, fall through and
			// treat the leading '?' as an ordinary character.
		}

		if b == '\\' && c.peek(1) == '\n' {
			c.advanceRaw(2)
			c.loc.Line++
			c.loc.Column = 0
			continue
		}

		c.advanceRaw(1)
		if b == '\n' {
			c.loc.Line++
			c.loc.Column = 0
		} else {
			c.loc.Column++
		}
		return b, start, true
	}
}

// advanceRaw moves the cursor's offset forward by n raw bytes without
// touching line/column bookkeeping; callers update those themselves since
// the meaning of each advanced byte (trigraph filler vs. real newline)
// differs per call site.
func (c *Cursor) advanceRaw(n int) {
	c.loc.Offset += n
}

// PeekAt reports the nth logical character ahead of the cursor (n=0 is the
// character the next call to Next would return), without advancing the
// cursor. It is used by the lexer for multi-character lookahead decisions,
// e.g. distinguishing "." from "..." or "/" from a comment opener.
func (c *Cursor) PeekAt(n int) (ch byte, ok bool) {
	save := *c
	defer func() { *c = save }()

	for i := 0; i <= n; i++ {
		ch, _, ok = c.Next()
		if !ok {
			return 0, false
		}
	}
	return ch, true
}
