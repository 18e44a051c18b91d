package ast

import (
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/lexer"
)

// Kind is the closed set of AST node variants.
type Kind uint8

const (
	KFunction Kind = iota
	KAssignment
	KCall
	KIf
	KWhile
	KBreak
	KContinue
	KReturn
	KNull
	KBool
	KInt
	KFloat
	KString
	KName
	KBinaryOp
)

func (k Kind) String() string {
	switch k {
	case KFunction:
		return "Function"
	case KAssignment:
		return "Assignment"
	case KCall:
		return "Call"
	case KIf:
		return "If"
	case KWhile:
		return "While"
	case KBreak:
		return "Break"
	case KContinue:
		return "Continue"
	case KReturn:
		return "Return"
	case KNull:
		return "Null"
	case KBool:
		return "BoolLiteral"
	case KInt:
		return "IntLiteral"
	case KFloat:
		return "FloatLiteral"
	case KString:
		return "StringLiteral"
	case KName:
		return "Name"
	case KBinaryOp:
		return "BinaryOp"
	default:
		return "<invalid node kind>"
	}
}

// Param is a function parameter declaration: its type and name.
type Param struct {
	Type lang.Type
	Name string
}

// Node is the single tagged-union AST node type. Which fields are
// meaningful depends on Kind; see the per-Kind comments below. All
// children are *Node pointers into the same Arena, so the tree's lifetime
// equals the arena's.
type Node struct {
	Kind Kind
	Pos  lexer.Position

	// KFunction: Name, ReturnType, Params, Body.
	// KAssignment: Name, DeclType (lang.Void means "already declared" /
	// re-assignment), Expr.
	// KCall: Name, Args.
	// KIf: Expr (condition), Body (then), Else.
	// KWhile: Expr (condition), Body.
	// KReturn: Expr (nil for a bare return, though the grammar always
	// requires one).
	// KBool/KInt/KFloat/KString/KName: see literal fields below.
	// KBinaryOp: Op, LHS, RHS.

	Name       string
	ReturnType lang.Type
	DeclType   lang.Type
	Params     []Param
	Body       []*Node
	Else       []*Node
	Args       []*Node
	Expr       *Node

	BoolVal   bool
	IntVal    int32
	FloatVal  float32
	StringVal []uint16 // UTF-16 code units, null-terminated

	Op       lang.Operator
	LHS, RHS *Node
}

// Program is the root of a parsed compilation unit: the top-level
// statements (in source order, interleaved with function definitions) that
// together populate the module entrypoint `<module>::$`, plus the
// function definitions themselves kept separate since they compile to
// independent backend functions.
type Program struct {
	TopLevel  []*Node // non-function top-level statements, in source order
	Functions []*Node // KFunction nodes
	Arena     *Arena
}
