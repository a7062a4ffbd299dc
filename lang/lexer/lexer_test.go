package lexer_test

import (
	"testing"

	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/lexer"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll runs src through a Lexer to completion and returns every token
// kind/value pair it produced, EOF included.
func scanAll(t *testing.T, src string) ([]token.Kind, []token.Value, *diag.List) {
	t.Helper()

	files := source.NewStore()
	file := files.AddFile("test.c", source.NewFileContents([]byte(src)))
	list := diag.NewList(files)
	l := lexer.New(source.NewCursor(file), intern.NewTable(), list)

	var kinds []token.Kind
	var vals []token.Value
	for {
		kind, val, _, _ := l.Next()
		kinds = append(kinds, kind)
		vals = append(vals, val)
		if kind == token.EOF {
			break
		}
	}
	return kinds, vals, list
}

func TestLexer_IdentifiersAndKeywords(t *testing.T) {
	kinds, vals, diags := scanAll(t, "foo int Bar_2 return")
	require.Empty(t, diags.Items)
	assert.Equal(t, []token.Kind{token.IDENT, token.INT_KW, token.IDENT, token.RETURN, token.EOF}, kinds)
	assert.Equal(t, "foo", vals[0].Raw)
	assert.Equal(t, "Bar_2", vals[2].Raw)
}

func TestLexer_IntegerSuffixes(t *testing.T) {
	kinds, vals, diags := scanAll(t, "123 45UL 7ll 9Lu")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.INT, token.INT, token.INT, token.INT, token.EOF}, kinds)

	assert.EqualValues(t, 123, vals[0].Int)
	assert.Zero(t, vals[0].IntSuffix)

	assert.EqualValues(t, 45, vals[1].Int)
	assert.Equal(t, token.SuffixUnsigned|token.SuffixLong, vals[1].IntSuffix)

	assert.EqualValues(t, 7, vals[2].Int)
	assert.Equal(t, token.SuffixLongLong, vals[2].IntSuffix)

	assert.EqualValues(t, 9, vals[3].Int)
	assert.Equal(t, token.SuffixLong|token.SuffixUnsigned, vals[3].IntSuffix)
}

func TestLexer_PunctuatorsAndDigraphs(t *testing.T) {
	kinds, _, diags := scanAll(t, "<: :> <% %> -> ++ << <<=")
	require.Empty(t, diags.Items)
	assert.Equal(t, []token.Kind{
		token.LBRACK, token.RBRACK, token.LBRACE, token.RBRACE,
		token.ARROW, token.INC, token.SHL, token.SHL_ASSN, token.EOF,
	}, kinds)
}

func TestLexer_PasteDigraph(t *testing.T) {
	kinds, _, diags := scanAll(t, "%: %:%:")
	require.Empty(t, diags.Items)
	assert.Equal(t, []token.Kind{token.HASH, token.HASHHASH, token.EOF}, kinds)
}

func TestLexer_LeadingDotIsNotANumber(t *testing.T) {
	// This front end has no floating-point literal production (see
	// lang/grammar/grammar.ebnf): a '.' immediately followed by a digit
	// lexes as DOT, then the digits as a separate INT, rather than being
	// routed into lexNumber (which only scans digits and would never
	// consume the '.').
	kinds, vals, diags := scanAll(t, ".5")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.DOT, token.INT, token.EOF}, kinds)
	assert.EqualValues(t, 5, vals[1].Int)
}

func TestLexer_StringAndCharLiterals(t *testing.T) {
	kinds, vals, diags := scanAll(t, `"hello\n" 'a' '\t'`)
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.STRING, token.CHAR, token.CHAR, token.EOF}, kinds)
	assert.Equal(t, 'a', vals[1].Char)
	assert.Equal(t, '\t', vals[2].Char)
}

func TestLexer_CommentsAreSkipped(t *testing.T) {
	kinds, _, diags := scanAll(t, "int /* comment */ x; // trailing\n")
	require.Empty(t, diags.Items)
	assert.Equal(t, []token.Kind{token.INT_KW, token.IDENT, token.SEMI, token.EOF}, kinds)
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	_, _, diags := scanAll(t, "int x; /* never closed")
	require.NotEmpty(t, diags.Items)
	assert.Contains(t, diags.Items[0].Message, "unterminated")
}

func TestLexer_BeginningOfLineFlag(t *testing.T) {
	files := source.NewStore()
	file := files.AddFile("test.c", source.NewFileContents([]byte("a\nb c")))
	list := diag.NewList(files)
	l := lexer.New(source.NewCursor(file), intern.NewTable(), list)

	_, _, _, atBOL := l.Next() // "a", first token
	assert.True(t, atBOL)
	_, _, _, atBOL = l.Next() // "b", after a newline
	assert.True(t, atBOL)
	_, _, _, atBOL = l.Next() // "c", same line as "b"
	assert.False(t, atBOL)
}
