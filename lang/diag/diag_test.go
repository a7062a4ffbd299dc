package diag_test

import (
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/source"
	"github.com/stretchr/testify/require"
)

// span returns a single-byte span at the given zero-based line/column in
// file f, the shape every lexer/preprocessor/parser call site builds.
// offset is the byte offset of the span's start within the file, which is
// what List.Sort orders by.
func span(f *source.File, line, col, offset int) source.Span {
	loc := source.Location{File: f.ID, Offset: offset, Line: line, Column: col}
	end := loc
	end.Offset++
	end.Column++
	return source.Span{Start: loc, End: end}
}

func TestList_PrintTo(t *testing.T) {
	files := source.NewStore()
	f := files.AddFile("foo.c", source.NewFileContents([]byte("int x\nchar y\n")))

	list := diag.NewList(files)
	list.Report(diag.Error, span(f, 0, 4, 4), nil, "expected ';' after declaration")
	list.Report(diag.Warning, span(f, 1, 5, 11), nil, "unused variable 'y'")
	list.Sort()

	var sb strings.Builder
	diag.PrintTo(&sb, list)

	want := "foo.c:1:5: error: expected ';' after declaration\n" +
		"foo.c:2:6: warning: unused variable 'y'\n"
	if patch := diff.Diff(want, sb.String()); patch != "" {
		t.Errorf("PrintTo output differs:\n%s", patch)
	}
}

func TestList_SortOrdersByOffsetWithinFile(t *testing.T) {
	files := source.NewStore()
	f := files.AddFile("foo.c", source.NewFileContents([]byte("int x\nchar y\n")))

	list := diag.NewList(files)
	list.Report(diag.Error, span(f, 1, 0, 6), nil, "second")
	list.Report(diag.Error, span(f, 0, 0, 0), nil, "first")
	list.Sort()

	require.Len(t, list.Items, 2)
	assertOrder := []string{"first", "second"}
	for i, want := range assertOrder {
		require.Equal(t, want, list.Items[i].Message)
	}
}

func TestList_HasErrorsAndErr(t *testing.T) {
	files := source.NewStore()
	f := files.AddFile("foo.c", source.NewFileContents([]byte("int x\n")))

	list := diag.NewList(files)
	require.False(t, list.HasErrors())
	require.NoError(t, list.Err())

	list.Report(diag.Warning, span(f, 0, 0, 0), nil, "just a warning")
	require.False(t, list.HasErrors())
	require.NoError(t, list.Err())

	list.Report(diag.Error, span(f, 0, 0, 0), nil, "boom")
	require.True(t, list.HasErrors())
	err := list.Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}
