// Package lang holds the tables shared across the lexer, parser and IR
// compiler: the keyword set, the operator table and the scalar type names.
// Keeping them in one leaf package avoids the parser and compiler each
// maintaining their own copy (component C2 of the design).
package lang

// Type is the closed set of MyScript scalar types (MSType).
type Type int

const (
	// Void is only valid as a function return type, never as a value type.
	Void Type = iota
	Int
	Float
	Bool
	String
)

// String returns the source-level spelling of the type.
func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "<invalid type>"
	}
}

// IsNumeric reports whether t participates in numeric promotion (int/float/bool).
func (t Type) IsNumeric() bool {
	return t == Int || t == Float || t == Bool
}

// CallingConvention selects the native ABI a host-imported function was
// compiled with, mirroring MSCallingConvention.
type CallingConvention int

const (
	CDecl CallingConvention = iota
	StdCall
)

// TypeByName resolves a source-level type keyword to its Type, or false if
// name is not a recognized type.
func TypeByName(name string) (Type, bool) {
	switch name {
	case "void":
		return Void, true
	case "int":
		return Int, true
	case "float":
		return Float, true
	case "bool":
		return Bool, true
	case "string":
		return String, true
	default:
		return Void, false
	}
}
