// Package token defines the token kinds and value payloads produced by the
// lexer and preprocessor.
package token

import "github.com/mna/redcc/lang/source"

// Kind identifies the lexical class of a Token. Digraphs and
// trigraph-produced punctuators are normalized to the same Kind as their
// bracket equivalents (e.g. "<:" and "[" both lex to LBRACK).
type Kind int8

//nolint:revive
const (
	ILLEGAL Kind = iota
	EOF

	// Tokens with values.
	IDENT  // x
	INT    // 123, 123UL
	CHAR   // 'a'
	STRING // "foo"

	// Punctuation.
	LBRACK    // [
	RBRACK    // ]
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	DOT       // .
	ARROW     // ->
	INC       // ++
	DEC       // --
	AMP       // &
	STAR      // *
	PLUS      // +
	MINUS     // -
	TILDE     // ~
	BANG      // !
	SLASH     // /
	PERCENT   // %
	SHL       // <<
	SHR       // >>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	EQL       // ==
	NEQ       // !=
	CARET     // ^
	PIPE      // |
	ANDAND    // &&
	OROR      // ||
	QUESTION  // ?
	COLON     // :
	SEMI      // ;
	ELLIPSIS  // ...
	ASSIGN    // =
	MUL_ASSN  // *=
	DIV_ASSN  // /=
	MOD_ASSN  // %=
	ADD_ASSN  // +=
	SUB_ASSN  // -=
	SHL_ASSN  // <<=
	SHR_ASSN  // >>=
	AND_ASSN  // &=
	XOR_ASSN  // ^=
	OR_ASSN   // |=
	COMMA     // ,
	HASH      // #
	HASHHASH  // ##

	// Keywords (C89).
	AUTO
	BREAK
	CASE
	CHAR_KW
	CONST
	CONTINUE
	DEFAULT
	DO
	DOUBLE
	ELSE
	ENUM
	EXTERN
	FLOAT
	FOR
	GOTO
	IF
	INT_KW
	LONG
	REGISTER
	RETURN
	SHORT
	SIGNED
	SIZEOF
	STATIC
	STRUCT
	SWITCH
	TYPEDEF
	UNION
	UNSIGNED
	VOID
	VOLATILE
	WHILE

	maxKind
)

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "unknown token"
	}
	return kindNames[k]
}

// GoString is like String but quotes punctuators and keywords, for use in
// "expected X, found Y" diagnostics the way fmt's %#v would for a rune.
func (k Kind) GoString() string {
	if k >= LBRACK && k < maxKind && k != IDENT {
		return "'" + kindNames[k] + "'"
	}
	return kindNames[k]
}

// IsKeyword reports whether k is one of the C89 reserved words.
func (k Kind) IsKeyword() bool { return k >= AUTO && k < maxKind }

var kindNames = [...]string{
	ILLEGAL: "illegal token",
	EOF:     "end of file",
	IDENT:   "identifier",
	INT:     "integer literal",
	CHAR:    "character literal",
	STRING:  "string literal",

	LBRACK: "[", RBRACK: "]",
	LPAREN: "(", RPAREN: ")",
	LBRACE: "{", RBRACE: "}",
	DOT: ".", ARROW: "->",
	INC: "++", DEC: "--",
	AMP: "&", STAR: "*", PLUS: "+", MINUS: "-", TILDE: "~", BANG: "!",
	SLASH: "/", PERCENT: "%",
	SHL: "<<", SHR: ">>",
	LT: "<", GT: ">", LE: "<=", GE: ">=", EQL: "==", NEQ: "!=",
	CARET: "^", PIPE: "|", ANDAND: "&&", OROR: "||",
	QUESTION: "?", COLON: ":", SEMI: ";", ELLIPSIS: "...",
	ASSIGN: "=", MUL_ASSN: "*=", DIV_ASSN: "/=", MOD_ASSN: "%=",
	ADD_ASSN: "+=", SUB_ASSN: "-=", SHL_ASSN: "<<=", SHR_ASSN: ">>=",
	AND_ASSN: "&=", XOR_ASSN: "^=", OR_ASSN: "|=",
	COMMA: ",", HASH: "#", HASHHASH: "##",

	AUTO: "auto", BREAK: "break", CASE: "case", CHAR_KW: "char",
	CONST: "const", CONTINUE: "continue", DEFAULT: "default", DO: "do",
	DOUBLE: "double", ELSE: "else", ENUM: "enum", EXTERN: "extern",
	FLOAT: "float", FOR: "for", GOTO: "goto", IF: "if", INT_KW: "int",
	LONG: "long", REGISTER: "register", RETURN: "return", SHORT: "short",
	SIGNED: "signed", SIZEOF: "sizeof", STATIC: "static", STRUCT: "struct",
	SWITCH: "switch", TYPEDEF: "typedef", UNION: "union",
	UNSIGNED: "unsigned", VOID: "void", VOLATILE: "volatile", WHILE: "while",
}

var keywords = map[string]Kind{
	"auto": AUTO, "break": BREAK, "case": CASE, "char": CHAR_KW,
	"const": CONST, "continue": CONTINUE, "default": DEFAULT, "do": DO,
	"double": DOUBLE, "else": ELSE, "enum": ENUM, "extern": EXTERN,
	"float": FLOAT, "for": FOR, "goto": GOTO, "if": IF, "int": INT_KW,
	"long": LONG, "register": REGISTER, "return": RETURN, "short": SHORT,
	"signed": SIGNED, "sizeof": SIZEOF, "static": STATIC, "struct": STRUCT,
	"switch": SWITCH, "typedef": TYPEDEF, "union": UNION,
	"unsigned": UNSIGNED, "void": VOID, "volatile": VOLATILE, "while": WHILE,
}

// LookupKeyword returns the keyword Kind for lit, or IDENT if lit is not a
// C89 reserved word.
func LookupKeyword(lit string) Kind {
	if k, ok := keywords[lit]; ok {
		return k
	}
	return IDENT
}

// Suffix is a bitset of integer-literal suffix letters.
type Suffix uint8

const (
	SuffixUnsigned Suffix = 1 << iota
	SuffixLong
	SuffixLongLong
)

// Value carries the payload for tokens that need one: the raw source text
// (used for stringification, re-lexing after paste, and diagnostics) plus
// whichever typed field applies to this token's Kind.
type Value struct {
	Raw string

	Int        uint64
	IntSuffix  Suffix
	Char       rune
	StringID   int // interned id, valid when Kind == STRING
	IdentID    int // interned id, valid when Kind == IDENT
	StringText string
}

// Token bundles a Kind with its Value, source Span, and beginning-of-line
// flag, the shape the preprocessor and parser pass around once a token
// has left the lexer and may have been produced by macro expansion rather
// than read directly off a cursor.
type Token struct {
	Kind  Kind
	Value Value
	Span  source.Span
	AtBOL bool
}
