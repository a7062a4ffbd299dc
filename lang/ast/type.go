package ast

import "github.com/mna/redcc/lang/source"

// BuiltinKind enumerates the primitive machine types: signed and
// unsigned variants of the integer ranks, the floating ranks, void, and a
// placeholder Error type reported once when a declaration's base type
// could not be resolved (so the parser can keep going instead of aborting
// the translation unit).
type BuiltinKind uint8

const (
	ErrorType BuiltinKind = iota
	VoidType
	CharType
	SignedCharType
	UnsignedCharType
	ShortType
	UnsignedShortType
	IntType
	UnsignedIntType
	LongType
	UnsignedLongType
	LongLongType
	UnsignedLongLongType
	FloatType
	DoubleType
	LongDoubleType
)

func (k BuiltinKind) String() string {
	switch k {
	case ErrorType:
		return "<error type>"
	case VoidType:
		return "void"
	case CharType:
		return "char"
	case SignedCharType:
		return "signed char"
	case UnsignedCharType:
		return "unsigned char"
	case ShortType:
		return "short"
	case UnsignedShortType:
		return "unsigned short"
	case IntType:
		return "int"
	case UnsignedIntType:
		return "unsigned int"
	case LongType:
		return "long"
	case UnsignedLongType:
		return "unsigned long"
	case LongLongType:
		return "long long"
	case UnsignedLongLongType:
		return "unsigned long long"
	case FloatType:
		return "float"
	case DoubleType:
		return "double"
	case LongDoubleType:
		return "long double"
	default:
		return "<unknown type>"
	}
}

// Type is a tagged union over the type variants of the language. Variants
// are arena-allocated and never copied by value once constructed, so a
// PointerType can reference a StructType that is filled in later (the
// tag-then-define pattern needed for self-referential structs).
type Type interface {
	typ()
	String() string
}

// Builtin is one of the primitive machine types, allocated once per
// Parser (see Parser.builtins in lang/parser) and shared by every
// reference to it.
type Builtin struct {
	Kind BuiltinKind
}

func (*Builtin) typ()            {}
func (t *Builtin) String() string { return t.Kind.String() }

// Pointer is a pointer to Elem.
type Pointer struct {
	Elem TypeQualified
}

func (*Pointer) typ()            {}
func (t *Pointer) String() string { return t.Elem.String() + " *" }

// Array is an array of Elem with an optional length expression (absent
// for an incomplete array type, e.g. a parameter declared as "int a[]").
type Array struct {
	Elem   TypeQualified
	Length Expr
}

func (*Array) typ()            {}
func (t *Array) String() string { return t.Elem.String() + "[]" }

// Function is a function type: its return type, parameter types in
// order, and whether it ends in a "..." varargs marker.
type Function struct {
	Return     TypeQualified
	Params     []TypeQualified
	HasVarargs bool
}

func (*Function) typ() {}
func (t *Function) String() string {
	return t.Return.String() + "(...)"
}

// EnumValue is one `identifier = constant` member of an Enum, in
// declaration order.
type EnumValue struct {
	Name  string
	Value int64
}

// Enum is a `enum Tag { ... }` type. Defined is false for a forward tag
// reference that has not yet seen its brace-delimited body.
type Enum struct {
	Span    source.Span
	Name    string
	Values  []EnumValue
	Defined bool
}

func (*Enum) typ()            {}
func (t *Enum) String() string { return "enum " + t.Name }

// StructOrUnion is a `struct Tag { ... }` or `union Tag { ... }` type.
// Members is the ordered member list used for layout and printing;
// MemberLookup indexes the same Declarations by name for field
// resolution. Defined is false for a forward tag reference.
type StructOrUnion struct {
	Span         source.Span
	Name         string
	IsUnion      bool
	Members      []*Declaration
	MemberLookup map[string]*Declaration
	Size         int
	Align        int
	Defined      bool
}

func (*StructOrUnion) typ() {}
func (t *StructOrUnion) String() string {
	kw := "struct"
	if t.IsUnion {
		kw = "union"
	}
	return kw + " " + t.Name
}

// TypeQualified pairs a Type with its const/volatile qualifiers. It is
// the value every declarator and expression carries.
type TypeQualified struct {
	Type     Type
	Const    bool
	Volatile bool
}

func (tq TypeQualified) String() string {
	s := tq.Type.String()
	if tq.Volatile {
		s = "volatile " + s
	}
	if tq.Const {
		s = "const " + s
	}
	return s
}

// IsError reports whether tq's underlying type is the Error placeholder.
func (tq TypeQualified) IsError() bool {
	b, ok := tq.Type.(*Builtin)
	return ok && b.Kind == ErrorType
}
