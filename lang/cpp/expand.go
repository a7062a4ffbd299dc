package cpp

import (
	"strings"

	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/lexer"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// tryExpand attempts to expand ident, which the caller has already
// confirmed is an IDENT token not blocked against re-expansion. It
// reports whether expansion happened (in which case the result has been
// prepended to the pending buffer and the caller should loop); false
// means ident was not actually a macro, or was a function-like macro not
// followed by '(', and must be emitted as an ordinary identifier.
func (pp *Preprocessor) tryExpand(ident token.Token, callerBlocked map[intern.ID]bool) bool {
	name := intern.ID(ident.Value.IdentID)
	macro, ok := pp.Macros.Lookup(name)
	if !ok {
		return false
	}

	newBlocked := addBlocked(callerBlocked, name)

	if !macro.IsFunction {
		out := pp.substitute(macro, nil, ident.Span)
		pp.prepend(out, newBlocked)
		return true
	}

	lparen, lpBlocked, lpFromLexer, ok := pp.rawNext()
	if !ok || lparen.Kind != token.LPAREN {
		if ok {
			pp.pushbackFull(lparen, lpBlocked, lpFromLexer)
		}
		return false
	}

	args, rparenSpan, ok := pp.collectArguments(macro)
	if !ok {
		return true // diagnosed inside collectArguments; invocation is consumed
	}

	invocation := source.Join(ident.Span, rparenSpan)
	out := pp.substitute(macro, args, invocation)
	pp.prepend(out, newBlocked)
	return true
}

// addBlocked returns a new blocked set containing base plus name,
// without mutating base (distinct expansions emitted from the same
// caller scope must not interfere with each other's blocked sets).
func addBlocked(base map[intern.ID]bool, name intern.ID) map[intern.ID]bool {
	out := make(map[intern.ID]bool, len(base)+1)
	for k := range base {
		out[k] = true
	}
	out[name] = true
	return out
}

func (pp *Preprocessor) prepend(toks []token.Token, blocked map[intern.ID]bool) {
	extra := make([]pendingTok, len(toks))
	for i, t := range toks {
		extra[i] = pendingTok{Tok: t, Blocked: blocked}
	}
	pp.pending = append(extra, pp.pending...)
}

// collectArguments reads a balanced, comma-separated argument list after
// a function-like macro invocation's '(' has already been consumed.
// Nesting depth tracks (), [] and {} together, per spec.md §4.3.1.
func (pp *Preprocessor) collectArguments(macro *Macro) (args [][]token.Token, rparenSpan source.Span, ok bool) {
	wantArgs := len(macro.ParamNames)
	var cur []token.Token
	depth := 0

	for {
		// Raw tokens only: the argument's macro expansion is deferred to
		// expandArgument so that a `#`/`##` operand still sees the
		// unexpanded spelling.
		t, _, _, more := pp.rawNext()
		if !more {
			pp.errorAt(t.Span, "unterminated macro argument list")
			return nil, t.Span, false
		}

		switch t.Kind {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 && t.Kind == token.RPAREN {
				args = append(args, cur)
				return normalizeVarargs(dropEmptyNullary(args, wantArgs), macro), t.Span, true
			}
			depth--
		case token.COMMA:
			if depth == 0 && !(macro.HasVarargs && len(args) == wantArgs-1) {
				args = append(args, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
}

// dropEmptyNullary special-cases `M()` for a macro with zero parameters:
// collectArguments always produces one (possibly empty) argument slot
// per comma group, but C treats a call with nothing between the
// parentheses as supplying zero arguments when the macro takes none.
func dropEmptyNullary(args [][]token.Token, wantArgs int) [][]token.Token {
	if wantArgs == 0 && len(args) == 1 && len(args[0]) == 0 {
		return nil
	}
	return args
}

// normalizeVarargs folds every argument past the last named parameter
// into a single trailing varargs argument, per spec.md §4.3.1 ("has_varargs
// collects the tail as a single argument"), restoring the commas between
// them as literal tokens. collectArguments and collectArgumentsFromQueue
// already keep those commas inside the varargs group, so their results
// never exceed the parameter count and come back unchanged.
func normalizeVarargs(args [][]token.Token, macro *Macro) [][]token.Token {
	if !macro.HasVarargs || len(args) <= len(macro.ParamNames) {
		return args
	}
	fixed := len(macro.ParamNames) - 1
	var tail []token.Token
	for i := fixed; i < len(args); i++ {
		if i > fixed {
			tail = append(tail, token.Token{Kind: token.COMMA, Value: token.Value{Raw: ","}})
		}
		tail = append(tail, args[i]...)
	}
	out := make([][]token.Token, 0, fixed+1)
	out = append(out, args[:fixed]...)
	out = append(out, tail)
	return out
}

// substitute builds the output token sequence for one macro invocation:
// parameter references are spliced in (fully expanded unless adjacent to
// `#`/`##`), `#` becomes a stringized literal of the raw argument, and
// `##` pastes the two adjacent token spellings and re-lexes the result.
func (pp *Preprocessor) substitute(macro *Macro, args [][]token.Token, invocation source.Span) []token.Token {
	var out []token.Token
	for i := 0; i < len(macro.Tokens); i++ {
		rt := macro.Tokens[i]
		switch rt.Kind {
		case replLiteral:
			t := rt.Tok
			t.Span = invocation
			out = append(out, t)

		case replStringizeParam:
			out = append(out, pp.stringize(args[rt.ParamIdx], invocation))

		case replParam:
			// An operand immediately preceded by `##` (already appended as
			// a paste marker before this slot) or immediately followed by
			// one is substituted unexpanded; the paste step below re-lexes
			// the concatenation. Otherwise the argument is fully expanded
			// through the preprocessor before splicing.
			pastePrev := i > 0 && macro.Tokens[i-1].Kind == replPasteMarker
			pasteNext := i+1 < len(macro.Tokens) && macro.Tokens[i+1].Kind == replPasteMarker
			if pastePrev || pasteNext {
				out = append(out, retag(args[rt.ParamIdx], invocation)...)
			} else {
				out = append(out, pp.expandArgument(args[rt.ParamIdx])...)
			}

		case replPasteMarker:
			if len(out) == 0 {
				continue
			}
			// The next slot is the right-hand operand; consume and paste it
			// directly rather than falling through the loop so the general
			// replParam/replLiteral cases above never see a paste operand.
			i++
			var rhs []token.Token
			if i < len(macro.Tokens) {
				next := macro.Tokens[i]
				switch next.Kind {
				case replParam:
					rhs = retag(args[next.ParamIdx], invocation)
				case replLiteral:
					t := next.Tok
					t.Span = invocation
					rhs = []token.Token{t}
				}
			}
			left := out[len(out)-1]
			pasted, ok := pp.paste(left, firstOr(rhs), invocation)
			if ok {
				out[len(out)-1] = pasted
				out = append(out, rhs[1:]...)
			} else {
				out = append(out, rhs...)
			}
		}
	}
	return out
}

func firstOr(toks []token.Token) token.Token {
	if len(toks) == 0 {
		return token.Token{Kind: token.EOF}
	}
	return toks[0]
}

// retag copies toks with their span replaced by invocation, the span
// every token emitted by a macro expansion carries per spec.md §4.3.1.
func retag(toks []token.Token, invocation source.Span) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		t.Span = invocation
		out[i] = t
	}
	return out
}

// expandArgument fully macro-expands one already-collected argument
// token sequence before it is spliced into a replacement list. It runs
// over an isolated queue rather than the Preprocessor's real pending
// buffer or file stack: a function-like macro invocation that begins
// inside an argument but whose '(' would only appear past the argument's
// last token is treated as not invoked, since there is no well-defined
// "rest of the stream" to look into without leaking tokens from the
// enclosing file.
func (pp *Preprocessor) expandArgument(arg []token.Token) []token.Token {
	queue := make([]pendingTok, len(arg))
	for i, t := range arg {
		queue[i] = pendingTok{Tok: t}
	}

	var out []token.Token
	for len(queue) > 0 {
		pt := queue[0]
		queue = queue[1:]
		t, blocked := pt.Tok, pt.Blocked

		if t.Kind == token.IDENT && !blocked[intern.ID(t.Value.IdentID)] {
			if macro, ok := pp.Macros.Lookup(intern.ID(t.Value.IdentID)); ok {
				newBlocked := addBlocked(blocked, intern.ID(t.Value.IdentID))
				if !macro.IsFunction {
					expanded := pp.substitute(macro, nil, t.Span)
					prepended := make([]pendingTok, len(expanded))
					for i, e := range expanded {
						prepended[i] = pendingTok{Tok: e, Blocked: newBlocked}
					}
					queue = append(prepended, queue...)
					continue
				}
				if len(queue) > 0 && queue[0].Tok.Kind == token.LPAREN {
					rest := queue[1:]
					args, consumed, rparenSpan, ok := collectArgumentsFromQueue(rest, macro)
					if ok {
						queue = rest[consumed:]
						invocation := source.Join(t.Span, rparenSpan)
						expanded := pp.substitute(macro, args, invocation)
						prepended := make([]pendingTok, len(expanded))
						for i, e := range expanded {
							prepended[i] = pendingTok{Tok: e, Blocked: newBlocked}
						}
						queue = append(prepended, queue...)
						continue
					}
				}
			}
		}
		out = append(out, finalize(t))
	}
	return out
}

// collectArgumentsFromQueue is collectArguments' counterpart for the
// isolated queue expandArgument uses: toks starts right after the
// invocation's '('. It reports how many tokens of toks were consumed
// (through the matching ')'), or ok=false if toks runs out first.
func collectArgumentsFromQueue(toks []pendingTok, macro *Macro) (args [][]token.Token, consumed int, rparenSpan source.Span, ok bool) {
	var cur []token.Token
	depth := 0
	wantArgs := len(macro.ParamNames)

	for i, pt := range toks {
		t := pt.Tok
		switch t.Kind {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			if depth == 0 && t.Kind == token.RPAREN {
				args = append(args, cur)
				return normalizeVarargs(args, macro), i + 1, t.Span, true
			}
			depth--
		case token.COMMA:
			if depth == 0 && !(macro.HasVarargs && len(args) == wantArgs-1) {
				args = append(args, cur)
				cur = nil
				continue
			}
		}
		cur = append(cur, t)
	}
	return nil, 0, source.Span{}, false
}

// stringize renders arg's unexpanded tokens back to source form with one
// space between adjacent tokens, escaping quotes and backslashes inside
// any string/character literal token, and wraps the result in a string
// literal token per spec.md §4.3.1.
func (pp *Preprocessor) stringize(arg []token.Token, invocation source.Span) token.Token {
	var b strings.Builder
	for i, t := range arg {
		if i > 0 {
			b.WriteByte(' ')
		}
		raw := t.Value.Raw
		if t.Kind == token.STRING || t.Kind == token.CHAR {
			raw = strings.ReplaceAll(raw, `\`, `\\`)
			raw = strings.ReplaceAll(raw, `"`, `\"`)
		}
		b.WriteString(raw)
	}
	text := b.String()
	id := pp.intrn.Intern(text)
	return token.Token{
		Kind:  token.STRING,
		Value: token.Value{Raw: text, StringID: int(id), StringText: text},
		Span:  invocation,
	}
}

// paste concatenates the source spellings of left and right into one
// string and re-lexes it. It reports false (and leaves the pair
// unpasted) if the concatenation does not re-lex cleanly to one token,
// per spec.md §4.3.1.
func (pp *Preprocessor) paste(left, right token.Token, invocation source.Span) (token.Token, bool) {
	if right.Kind == token.EOF {
		return left, true
	}
	combined := left.Value.Raw + right.Value.Raw

	contents := source.NewFileContents([]byte(combined))
	file := &source.File{ID: invocation.Start.File, Name: "<paste>", Contents: contents}
	cur := source.NewCursor(file)
	lx := lexer.New(cur, pp.intrn, nil) // errors during a trial re-lex don't reach the sink

	kind, val, _, _ := lx.Next()
	if kind == token.EOF || kind == token.ILLEGAL {
		pp.errorAt(invocation, "pasting %q and %q does not form a valid token", left.Value.Raw, right.Value.Raw)
		return left, false
	}
	next, _, _, _ := lx.Next()
	if next != token.EOF {
		pp.errorAt(invocation, "pasting %q and %q does not form a valid token", left.Value.Raw, right.Value.Raw)
		return left, false
	}

	val.Raw = combined
	return finalize(token.Token{Kind: kind, Value: val, Span: invocation}), true
}
