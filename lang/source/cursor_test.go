package source_test

import (
	"testing"

	"github.com/mna/redcc/lang/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src string) (chars []byte, locs []source.Location) {
	t.Helper()

	file := source.NewStore().AddFile("test.c", source.NewFileContents([]byte(src)))
	c := source.NewCursor(file)
	for {
		ch, loc, ok := c.Next()
		if !ok {
			return chars, locs
		}
		chars = append(chars, ch)
		locs = append(locs, loc)
	}
}

func TestCursor_TrigraphReplacement(t *testing.T) {
	chars, _ := readAll(t, "??=")
	require.Len(t, chars, 1)
	assert.Equal(t, byte('#'), chars[0])
}

func TestCursor_TrigraphAdvancesColumnByThree(t *testing.T) {
	// "??=" is one logical character wide but three raw bytes; the
	// character right after it on the same line must be at column 3
	// (zero-based), not column 1.
	chars, locs := readAll(t, "??=x")
	require.Len(t, chars, 2)
	assert.Equal(t, byte('#'), chars[0])
	assert.Equal(t, byte('x'), chars[1])
	assert.Equal(t, 0, locs[0].Column)
	assert.Equal(t, 3, locs[1].Column)
}

func TestCursor_LineSpliceFolding(t *testing.T) {
	chars, locs := readAll(t, "a\\\nb")
	require.Len(t, chars, 2)
	assert.Equal(t, byte('a'), chars[0])
	assert.Equal(t, byte('b'), chars[1])
	assert.Equal(t, 0, locs[0].Line)
	assert.Equal(t, 1, locs[1].Line)
	assert.Equal(t, 0, locs[1].Column)
}

func TestCursor_LoneQuestionMarksAreOrdinary(t *testing.T) {
	chars, _ := readAll(t, "??x")
	require.Len(t, chars, 3)
	assert.Equal(t, []byte{'?', '?', 'x'}, chars)
}
