package cpp

import (
	"os"
	"path/filepath"

	"github.com/mna/redcc/lang/lexer"
	"github.com/mna/redcc/lang/source"
)

// IncludeFrame is one entry of the IncludeStack: a file currently being
// read, the lexer reading it, and the conditional-stack depth that was
// open when this file was pushed (used to detect an `#if` left open at
// end of file).
type IncludeFrame struct {
	File             *source.File
	Cursor           *source.Cursor
	Lexer            *lexer.Lexer
	ConditionalDepth int
	BOL              bool
}

// SearchPath resolves `#include` paths. Quoted includes try the
// including file's directory first, then fall back to Dirs in order;
// angle-bracket includes search only Dirs.
type SearchPath struct {
	Dirs []string
}

// ResolveQuoted resolves a `"path"`-form include relative to fromDir
// first, then the configured search directories.
func (sp *SearchPath) ResolveQuoted(path, fromDir string) (string, bool) {
	if fromDir != "" {
		candidate := filepath.Join(fromDir, path)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return sp.ResolveAngle(path)
}

// ResolveAngle resolves a `<path>`-form include against the configured
// search directories only.
func (sp *SearchPath) ResolveAngle(path string) (string, bool) {
	if filepath.IsAbs(path) && fileExists(path) {
		return path, true
	}
	for _, dir := range sp.Dirs {
		candidate := filepath.Join(dir, path)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
