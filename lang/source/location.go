// Package source implements the text layer: loading file contents into
// fixed-size chunks, assigning stable file IDs, and reading logical C
// source characters from them (trigraph replacement and line-splice
// folding included).
package source

import "fmt"

// FileID identifies a loaded file within a FileStore. The zero value is
// never assigned by FileStore.AddFile and can be used as a sentinel for
// "no file".
type FileID int32

// Location is a single position within a loaded file: a byte offset plus
// its post-splice logical line and column. Line and column are zero-based
// internally; Render produces the one-based form used in diagnostics.
type Location struct {
	File   FileID
	Offset int
	Line   int
	Column int
}

// Render returns the one-based "file:line:column" form of the location,
// using name as the file's display name.
func (l Location) Render(name string) string {
	return fmt.Sprintf("%s:%d:%d", name, l.Line+1, l.Column+1)
}

// Span is a half-open source range [Start, End) within a single file.
type Span struct {
	Start Location
	End   Location
}

// Valid reports whether the span's two endpoints belong to the same file
// and are correctly ordered.
func (s Span) Valid() bool {
	return s.Start.File == s.End.File && s.Start.Offset <= s.End.Offset
}

// Join returns the smallest span covering both a and b. Both must belong
// to the same file.
func Join(a, b Span) Span {
	start, end := a.Start, a.End
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}
