package cpp

import (
	"github.com/dolthub/swiss"
	"github.com/mna/redcc/lang/intern"
	"github.com/mna/redcc/lang/token"
)

// replKind tags a slot in a Macro's replacement list: either a literal
// token to copy verbatim, a reference to one of the macro's parameters
// (substituted with the argument's tokens), a "#param" stringify marker,
// or a "##" paste marker sitting between two adjacent slots.
type replKind uint8

const (
	replLiteral replKind = iota
	replParam
	replStringizeParam
	replPasteMarker
)

// replToken is one slot of a Macro's stored replacement list. Only the
// fields relevant to Kind are meaningful; see spec.md's encoding note:
// "parameter references, #-stringify, and ##-paste markers" are all
// stored as special markers alongside literal tokens.
type replToken struct {
	Kind     replKind
	Tok      token.Token // valid when Kind == replLiteral
	ParamIdx int         // valid when Kind is replParam or replStringizeParam
}

// Macro is one `#define`d object-like or function-like macro.
type Macro struct {
	Tokens       []replToken
	ParamNames   []intern.ID // order matters for positional substitution
	IsFunction   bool
	HasVarargs   bool
	ParamIndex   map[intern.ID]int
}

// sameAs reports whether m is an identical redefinition of other: same
// function/varargs-ness, same parameter count, and token-for-token
// identical replacement list, per the C89 rule that only an identical
// redefinition is allowed without diagnosing.
func (m *Macro) sameAs(other *Macro) bool {
	if m.IsFunction != other.IsFunction || m.HasVarargs != other.HasVarargs {
		return false
	}
	if len(m.ParamNames) != len(other.ParamNames) {
		return false
	}
	for i := range m.ParamNames {
		if m.ParamNames[i] != other.ParamNames[i] {
			return false
		}
	}
	if len(m.Tokens) != len(other.Tokens) {
		return false
	}
	for i := range m.Tokens {
		a, b := m.Tokens[i], other.Tokens[i]
		if a.Kind != b.Kind || a.ParamIdx != b.ParamIdx {
			return false
		}
		if a.Kind == replLiteral && (a.Tok.Kind != b.Tok.Kind || a.Tok.Value.Raw != b.Tok.Value.Raw) {
			return false
		}
	}
	return true
}

// MacroTable maps an interned identifier to its macro definition, per
// spec.md §3. It supports define/undef/lookup and nothing else — the
// conditional-compilation interaction (skipped branches never touch the
// table) is the caller's responsibility.
type MacroTable struct {
	m *swiss.Map[intern.ID, *Macro]
}

// NewMacroTable returns an empty MacroTable.
func NewMacroTable() *MacroTable {
	return &MacroTable{m: swiss.NewMap[intern.ID, *Macro](64)}
}

// Lookup returns the macro defined for name, if any.
func (t *MacroTable) Lookup(name intern.ID) (*Macro, bool) {
	return t.m.Get(name)
}

// Define installs macro under name. It returns false (and does not
// install) if name is already defined with a non-identical replacement
// list, per spec.md §3's redefinition rule; the caller diagnoses in that
// case. Redefining with an identical macro is a silent no-op.
func (t *MacroTable) Define(name intern.ID, macro *Macro) bool {
	if existing, ok := t.m.Get(name); ok {
		if existing.sameAs(macro) {
			return true
		}
		return false
	}
	t.m.Put(name, macro)
	return true
}

// Undef removes name from the table. It reports whether name was defined
// (the caller warns, not errors, when it wasn't).
func (t *MacroTable) Undef(name intern.ID) bool {
	if _, ok := t.m.Get(name); !ok {
		return false
	}
	t.m.Delete(name)
	return true
}
