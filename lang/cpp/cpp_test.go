package cpp_test

import (
	"testing"

	"github.com/mna/redcc/lang/cpp"
	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// preprocess runs src through a fresh Preprocessor to completion and
// returns every token it produced along with the diagnostics recorded
// along the way.
func preprocess(t *testing.T, src string) ([]token.Token, *diag.List) {
	t.Helper()

	files := source.NewStore()
	file := files.AddFile("test.c", source.NewFileContents([]byte(src)))
	list := diag.NewList(files)

	pp := cpp.New(files, intern.NewTable(), list, cpp.SearchPath{})
	pp.PushFile(file)

	var toks []token.Token
	for {
		tok, ok := pp.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks, list
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestPreprocessor_ObjectLikeMacro(t *testing.T) {
	toks, diags := preprocess(t, "#define X 1+2\nX")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.INT, token.PLUS, token.INT}, kinds(toks))
	assert.EqualValues(t, 1, toks[0].Value.Int)
	assert.EqualValues(t, 2, toks[2].Value.Int)
}

func TestPreprocessor_FunctionLikeMacro(t *testing.T) {
	toks, diags := preprocess(t, "#define ADD(a, b) a + b\nADD(1, 2)")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.INT, token.PLUS, token.INT}, kinds(toks))
	assert.EqualValues(t, 1, toks[0].Value.Int)
	assert.EqualValues(t, 2, toks[2].Value.Int)
}

func TestPreprocessor_SelfReferenceBlocked(t *testing.T) {
	// A macro that mentions its own name in its replacement list must not
	// expand recursively.
	toks, diags := preprocess(t, "#define X X + 1\nX")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.IDENT, token.PLUS, token.INT}, kinds(toks))
	assert.Equal(t, "X", toks[0].Value.Raw)
}

func TestPreprocessor_UndefRemovesMacro(t *testing.T) {
	toks, diags := preprocess(t, "#define X 1\n#undef X\nX")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.IDENT}, kinds(toks))
	assert.Equal(t, "X", toks[0].Value.Raw)
}

func TestPreprocessor_IfdefTakesDefinedBranch(t *testing.T) {
	src := "#define FOO\n#ifdef FOO\nint x;\n#else\nchar x;\n#endif\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.INT_KW, token.IDENT, token.SEMI}, kinds(toks))
}

func TestPreprocessor_IfndefSkipsDefinedBranch(t *testing.T) {
	src := "#define FOO\n#ifndef FOO\nint x;\n#else\nchar x;\n#endif\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.CHAR_KW, token.IDENT, token.SEMI}, kinds(toks))
}

func TestPreprocessor_IfConstantExpressionPrecedence(t *testing.T) {
	// "1 + 2 * 3 == 7" must evaluate true only if '*' binds tighter than
	// '+', matching spec.md §4.4.2's table reused by #if/#elif.
	src := "#if 1 + 2 * 3 == 7\nint ok;\n#else\nint bad;\n#endif\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Len(t, toks, 3)
	assert.Equal(t, "ok", toks[1].Value.Raw)
}

func TestPreprocessor_ElifChain(t *testing.T) {
	src := "#if 0\nint a;\n#elif 1\nint b;\n#else\nint c;\n#endif\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Len(t, toks, 3)
	assert.Equal(t, "b", toks[1].Value.Raw)
}

func TestPreprocessor_NestedConditionalSkipping(t *testing.T) {
	src := "#if 0\n#if 1\nint inner;\n#endif\nint also_skipped;\n#endif\nint kept;\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Len(t, toks, 3)
	assert.Equal(t, "kept", toks[1].Value.Raw)
}

func TestPreprocessor_UnterminatedIfReported(t *testing.T) {
	_, diags := preprocess(t, "#if 1\nint x;\n")
	require.NotEmpty(t, diags.Items)
	assert.Contains(t, diags.Items[0].Message, "#if")
}

func TestPreprocessor_NonConditionalDirectivesSkippedInDeadBranch(t *testing.T) {
	// A #define, #error, and #include inside a branch that isn't taken must
	// have no effect at all: the macro table isn't touched, no diagnostic
	// fires, and the file isn't loaded.
	src := "#if 0\n#define X 1\n#error should not fire\n#include \"nonexistent.h\"\n#endif\nX\n"
	toks, diags := preprocess(t, src)
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.IDENT}, kinds(toks))
	assert.Equal(t, "X", toks[0].Value.Raw)
}

func TestPreprocessor_KeywordsSurviveMacroExpansion(t *testing.T) {
	// A macro body that happens to spell a keyword must come out with the
	// keyword's Kind, not IDENT, once it reaches the parser-facing stream.
	toks, diags := preprocess(t, "#define T int\nT x;")
	require.Empty(t, diags.Items)
	require.Equal(t, []token.Kind{token.INT_KW, token.IDENT, token.SEMI}, kinds(toks))
}
