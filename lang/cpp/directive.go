package cpp

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mna/redcc/lang/diag"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/source"
	"github.com/mna/redcc/lang/token"
)

// handleDirective is called right after a '#' has been read at the start
// of a logical line (from a file, never from macro expansion output). It
// reads the directive name and dispatches, per spec.md §4.3 step 4.
func (pp *Preprocessor) handleDirective() {
	nameTok := pp.readRawFromTop()
	if nameTok.Kind == token.EOF {
		return
	}
	if nameTok.AtBOL {
		pp.pushbackDir(nameTok)
		return // a lone '#' on its own line is a legal empty directive
	}
	// "if" and "else" lex as keywords; their spelling is still in Value.Raw.
	if nameTok.Kind != token.IDENT && !nameTok.Kind.IsKeyword() {
		pp.errorAt(nameTok.Span, "invalid preprocessing directive")
		pp.skipToEOL()
		return
	}

	// Only the conditional directives themselves run while an enclosing
	// branch is skipped (they still need to track nesting so a later
	// #else/#elif/#endif lines up with the right #if); every other
	// directive must not touch the MacroTable, report diagnostics, or
	// load a file from inside a dead branch, per spec.md §3's "skipped
	// conditional branches do not modify the table" invariant.
	switch nameTok.Value.Raw {
	case "if", "ifdef", "ifndef", "elif", "else", "endif":
		// handled below, regardless of skipping state
	default:
		if pp.cond.Skipping() {
			pp.skipToEOL()
			return
		}
	}

	switch nameTok.Value.Raw {
	case "include":
		pp.doInclude()
	case "define":
		pp.doDefine()
	case "undef":
		pp.doUndef()
	case "if":
		pp.doIf()
	case "ifdef":
		pp.doIfdefMacro(true)
	case "ifndef":
		pp.doIfdefMacro(false)
	case "elif":
		pp.doElif()
	case "else":
		if !pp.cond.Else() {
			pp.errorAt(nameTok.Span, "#else without matching #if")
		}
		pp.skipToEOL()
	case "endif":
		if !pp.cond.Pop() {
			pp.errorAt(nameTok.Span, "#endif without matching #if")
		}
		pp.skipToEOL()
	case "pragma":
		pp.doPragma()
	case "error":
		pp.doError(nameTok.Span)
	default:
		pp.errorAt(nameTok.Span, "unknown preprocessing directive #%s", nameTok.Value.Raw)
		pp.skipToEOL()
	}
}

// skipToEOL discards tokens up to (not including) the next logical
// line's first token.
func (pp *Preprocessor) skipToEOL() {
	for {
		t := pp.readRawFromTop()
		if t.Kind == token.EOF {
			return
		}
		if t.AtBOL {
			pp.pushbackDir(t)
			return
		}
	}
}

func spanOfLine(line []token.Token) source.Span {
	if len(line) == 0 {
		return source.Span{}
	}
	return source.Join(line[0].Span, line[len(line)-1].Span)
}

// doDefine implements `#define name replacement` and `#define name(params)
// replacement`, per spec.md §4.3 step 4.
func (pp *Preprocessor) doDefine() {
	nameTok := pp.readRawFromTop()
	if nameTok.Kind != token.IDENT {
		pp.errorAt(nameTok.Span, "macro name must be an identifier")
		pp.skipToEOL()
		return
	}
	name := intern.ID(nameTok.Value.IdentID)

	macro := &Macro{ParamIndex: map[intern.ID]int{}}

	next := pp.readRawFromTop()
	if next.Kind == token.LPAREN && next.Span.Start.Offset == nameTok.Span.End.Offset {
		macro.IsFunction = true
		if !pp.parseMacroParams(macro) {
			return
		}
	} else {
		pp.pushbackDir(next)
	}

	if macro.HasVarargs {
		macro.ParamIndex[pp.intrn.Intern("__VA_ARGS__")] = len(macro.ParamNames)
		macro.ParamNames = append(macro.ParamNames, pp.intrn.Intern("__VA_ARGS__"))
	}

	body := pp.readLineRaw()
	macro.Tokens = encodeReplacement(body, macro)

	if !pp.Macros.Define(name, macro) {
		pp.errorAt(nameTok.Span, "%q redefined with a different replacement list", nameTok.Value.Raw)
	}
}

// parseMacroParams reads a function-like macro's parameter list; the
// opening '(' has already been consumed by the caller.
func (pp *Preprocessor) parseMacroParams(macro *Macro) bool {
	first := true
	for {
		t := pp.readRawFromTop()
		if t.Kind == token.RPAREN {
			return true
		}
		if !first {
			// t should have been the separator consumed below; reaching
			// here means the separator check already advanced past it.
		}
		if t.Kind == token.ELLIPSIS {
			macro.HasVarargs = true
			closing := pp.readRawFromTop()
			if closing.Kind != token.RPAREN {
				pp.errorAt(closing.Span, "expected ')' after '...' in macro parameter list")
				pp.skipToEOL()
				return false
			}
			return true
		}
		if t.Kind != token.IDENT {
			pp.errorAt(t.Span, "expected parameter name")
			pp.skipToEOL()
			return false
		}
		pid := intern.ID(t.Value.IdentID)
		macro.ParamIndex[pid] = len(macro.ParamNames)
		macro.ParamNames = append(macro.ParamNames, pid)
		first = false

		sep := pp.readRawFromTop()
		if sep.Kind == token.RPAREN {
			return true
		}
		if sep.Kind != token.COMMA {
			pp.errorAt(sep.Span, "expected ',' or ')' in macro parameter list")
			pp.skipToEOL()
			return false
		}
	}
}

// encodeReplacement converts a macro's raw replacement-list tokens into
// the marker-encoded form substitute() walks: parameter references,
// `#`-stringize, and `##`-paste are each recognized once here so
// substitution never has to re-scan for them.
func encodeReplacement(body []token.Token, macro *Macro) []replToken {
	var out []replToken
	for i := 0; i < len(body); i++ {
		t := body[i]
		if macro.IsFunction && t.Kind == token.HASH && i+1 < len(body) {
			if idx, ok := paramIndexOf(body[i+1], macro); ok {
				out = append(out, replToken{Kind: replStringizeParam, ParamIdx: idx})
				i++
				continue
			}
		}
		if t.Kind == token.HASHHASH {
			out = append(out, replToken{Kind: replPasteMarker})
			continue
		}
		if idx, ok := paramIndexOf(t, macro); ok {
			out = append(out, replToken{Kind: replParam, ParamIdx: idx})
			continue
		}
		out = append(out, replToken{Kind: replLiteral, Tok: t})
	}
	return out
}

func paramIndexOf(t token.Token, macro *Macro) (int, bool) {
	if t.Kind != token.IDENT {
		return 0, false
	}
	idx, ok := macro.ParamIndex[intern.ID(t.Value.IdentID)]
	return idx, ok
}

// doUndef implements `#undef name`.
func (pp *Preprocessor) doUndef() {
	nameTok := pp.readRawFromTop()
	pp.skipToEOL()
	if nameTok.Kind != token.IDENT {
		pp.errorAt(nameTok.Span, "macro name must be an identifier")
		return
	}
	if !pp.Macros.Undef(intern.ID(nameTok.Value.IdentID)) {
		pp.diag.Report(diag.Warning, nameTok.Span, nil,
			fmt.Sprintf("%q is not defined", nameTok.Value.Raw))
	}
}

// doIf implements `#if condition`.
func (pp *Preprocessor) doIf() {
	skippingAlready := pp.cond.Skipping()
	line := pp.readLineRaw()
	if skippingAlready {
		pp.cond.Push(false)
		return
	}
	cond, err := pp.evalLine(line)
	if err != nil {
		pp.errorAt(spanOfLine(line), "%s", err.Error())
		cond = false
	}
	pp.cond.Push(cond)
}

// doIfdefMacro implements `#ifdef name` (wantDefined=true) and
// `#ifndef name` (wantDefined=false).
func (pp *Preprocessor) doIfdefMacro(wantDefined bool) {
	skippingAlready := pp.cond.Skipping()
	nameTok := pp.readRawFromTop()
	pp.skipToEOL()
	if skippingAlready {
		pp.cond.Push(false)
		return
	}
	if nameTok.Kind != token.IDENT {
		pp.errorAt(nameTok.Span, "expected identifier after #ifdef/#ifndef")
		pp.cond.Push(false)
		return
	}
	_, defined := pp.Macros.Lookup(intern.ID(nameTok.Value.IdentID))
	pp.cond.Push(defined == wantDefined)
}

// doElif implements `#elif condition`.
func (pp *Preprocessor) doElif() {
	ancestorSkipping := pp.cond.AncestorSkipping()
	line := pp.readLineRaw()
	if pp.cond.Depth() == 0 {
		pp.errorAt(spanOfLine(line), "#elif without matching #if")
		return
	}
	if ancestorSkipping {
		pp.cond.Elif(false)
		return
	}
	cond, err := pp.evalLine(line)
	if err != nil {
		pp.errorAt(spanOfLine(line), "%s", err.Error())
		cond = false
	}
	if !pp.cond.Elif(cond) {
		pp.errorAt(spanOfLine(line), "#elif after #else")
	}
}

// evalLine resolves `defined`, macro-expands the rest, and evaluates the
// resulting constant expression.
func (pp *Preprocessor) evalLine(line []token.Token) (bool, error) {
	resolved := pp.resolveDefined(line)
	expanded := pp.expandArgument(resolved)
	return pp.evalCondition(expanded)
}

// resolveDefined replaces every `defined(X)` or `defined X` in line with
// an integer-literal token, before the rest of the line is macro
// expanded, per spec.md §4.3 step 4 ("defined(X) ... Unknown identifiers
// after macro expansion evaluate to 0").
func (pp *Preprocessor) resolveDefined(line []token.Token) []token.Token {
	var out []token.Token
	for i := 0; i < len(line); i++ {
		t := line[i]
		if t.Kind != token.IDENT || t.Value.Raw != "defined" {
			out = append(out, t)
			continue
		}

		var nameTok token.Token
		switch {
		case i+3 < len(line) && line[i+1].Kind == token.LPAREN &&
			line[i+2].Kind == token.IDENT && line[i+3].Kind == token.RPAREN:
			nameTok = line[i+2]
			i += 3
		case i+1 < len(line) && line[i+1].Kind == token.IDENT:
			nameTok = line[i+1]
			i++
		default:
			pp.errorAt(t.Span, `operator "defined" requires an identifier`)
			continue
		}

		_, isDefined := pp.Macros.Lookup(intern.ID(nameTok.Value.IdentID))
		v := uint64(0)
		if isDefined {
			v = 1
		}
		out = append(out, token.Token{
			Kind:  token.INT,
			Value: token.Value{Raw: fmt.Sprint(v), Int: v},
			Span:  t.Span,
		})
	}
	return out
}

// doPragma implements `#pragma once` and silently accepts any other
// pragma.
func (pp *Preprocessor) doPragma() {
	top := pp.top()
	t := pp.readRawFromTop()
	if t.Kind == token.IDENT && t.Value.Raw == "once" && top != nil {
		pp.pragmaOnce[top.File.ID] = true
	}
	pp.skipToEOL()
}

// doError implements `#error message...`.
func (pp *Preprocessor) doError(directiveSpan source.Span) {
	line := pp.readLineRaw()
	var b strings.Builder
	for i, t := range line {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Value.Raw)
	}
	span := directiveSpan
	if len(line) > 0 {
		span = spanOfLine(line)
	}
	pp.diag.Report(diag.Error, span, nil, "#error "+b.String())
}

// doInclude implements `#include <path>` and `#include "path"`.
func (pp *Preprocessor) doInclude() {
	top := pp.top()
	next := pp.readRawFromTop()

	var path string
	var quoted bool
	switch {
	case next.Kind == token.STRING:
		path, quoted = next.Value.StringText, true
		pp.skipToEOL()

	case next.Kind == token.LT:
		raw, _, ok := top.Lexer.ScanHeaderName('>')
		if !ok {
			pp.errorAt(next.Span, "missing terminating '>' in #include")
			pp.skipToEOL()
			return
		}
		path, quoted = raw, false
		pp.skipToEOL()

	case next.Kind == token.IDENT:
		rest := append([]token.Token{next}, pp.readLineRaw()...)
		expanded := pp.expandArgument(rest)
		if len(expanded) != 1 || expanded[0].Kind != token.STRING {
			pp.errorAt(next.Span, `#include expects "FILENAME" or <FILENAME>`)
			return
		}
		path, quoted = expanded[0].Value.StringText, true

	default:
		pp.errorAt(next.Span, `#include expects "FILENAME" or <FILENAME>`)
		pp.skipToEOL()
		return
	}

	fromDir := filepath.Dir(top.File.Name)
	var resolved string
	var ok bool
	if quoted {
		resolved, ok = pp.search.ResolveQuoted(path, fromDir)
	} else {
		resolved, ok = pp.search.ResolveAngle(path)
	}
	if !ok {
		pp.errorAt(next.Span, "%q file not found", path)
		return
	}

	for id := range pp.pragmaOnce {
		if f := pp.files.File(id); f != nil && f.Name == resolved {
			return
		}
	}

	contents, err := (source.OSLoader{}).Load(resolved)
	if err != nil {
		pp.errorAt(next.Span, "cannot read %q: %v", resolved, err)
		return
	}
	file := pp.files.AddFile(resolved, contents)
	pp.PushFile(file)
}
