package compiler

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"tinygo.org/x/go-llvm"
)

// compileExpression lowers one expression node, returning its LLVM value,
// its MyScript type, and whether the result is an R-value (a transient
// result the caller alone holds a reference to, versus a named variable's
// value). ok is false once a semantic error has already been recorded for
// this subtree.
func (c *Compiler) compileExpression(n *ast.Node) (val llvm.Value, typ lang.Type, isRValue bool, ok bool) {
	switch n.Kind {
	case ast.KNull:
		return llvm.ConstNull(llvm.PointerType(c.ctx.Int8Type(), 0)), lang.String, true, true

	case ast.KBool:
		v := llvm.ConstInt(c.ctx.Int1Type(), 0, false)
		if n.BoolVal {
			v = llvm.ConstInt(c.ctx.Int1Type(), 1, false)
		}
		return v, lang.Bool, true, true

	case ast.KInt:
		return llvm.ConstInt(c.ctx.Int32Type(), uint64(uint32(n.IntVal)), true), lang.Int, true, true

	case ast.KFloat:
		return llvm.ConstFloat(c.ctx.FloatType(), float64(n.FloatVal)), lang.Float, true, true

	case ast.KString:
		// Not an R-value: string literals are references into static
		// storage, not transient results.
		return c.globalStringConstant(n.StringVal), lang.String, false, true

	case ast.KName:
		sym, found := c.lookupSymbol(n.Name)
		if !found {
			c.errorf(n, "undefined variable %q", n.Name)
			return llvm.Value{}, lang.Void, false, false
		}
		if sym.isFunction {
			c.errorf(n, "%q is a function, not a value", n.Name)
			return llvm.Value{}, lang.Void, false, false
		}
		loaded := c.builder.CreateLoad(sym.value, n.Name)
		return loaded, sym.typ, false, true

	case ast.KBinaryOp:
		return c.compileBinaryOp(n)

	case ast.KCall:
		return c.compileCallExpression(n)

	default:
		c.errorf(n, "internal error: %s is not an expression", n.Kind)
		return llvm.Value{}, lang.Void, false, false
	}
}

// compileBinaryOp mirrors MSIRCompiler.hpp's CompileExpression(ASTBinaryOperationNode*),
// with two corrections:
//   - And/Or coerce each operand against its OWN type, not the left
//     operand's type for both.
//   - The R-value decrement of the two operands is emitted after the
//     result is computed, not as unreachable code after the switch's
//     early returns.
func (c *Compiler) compileBinaryOp(n *ast.Node) (llvm.Value, lang.Type, bool, bool) {
	lhs, lhsType, lhsRValue, ok := c.compileExpression(n.LHS)
	if !ok {
		return llvm.Value{}, lang.Void, false, false
	}
	rhs, rhsType, rhsRValue, ok := c.compileExpression(n.RHS)
	if !ok {
		return llvm.Value{}, lang.Void, false, false
	}

	if !lhsType.IsNumeric() || !rhsType.IsNumeric() {
		c.errorf(n, "operator %s requires numeric operands, got %s and %s", n.Op.Symbol, lhsType, rhsType)
		return llvm.Value{}, lang.Void, false, false
	}

	var result llvm.Value
	switch n.Op.Kind {
	case lang.And, lang.Or:
		lb := c.coerceToBool(lhs, lhsType)
		rb := c.coerceToBool(rhs, rhsType)
		if n.Op.Kind == lang.And {
			result = c.builder.CreateAnd(lb, rb, "")
		} else {
			result = c.builder.CreateOr(lb, rb, "")
		}
		c.emitRValueDecrement(lhs, lhsType, lhsRValue)
		c.emitRValueDecrement(rhs, rhsType, rhsRValue)
		return result, lang.Bool, true, true

	default:
		promoted := lang.Promote(lhsType, rhsType)
		lhsConv := c.convert(lhs, lhsType, promoted)
		rhsConv := c.convert(rhs, rhsType, promoted)

		v, resultType, err := c.computeArithmetic(n, lhsConv, rhsConv, promoted)
		if err {
			return llvm.Value{}, lang.Void, false, false
		}
		result = v

		c.emitRValueDecrement(lhs, lhsType, lhsRValue)
		c.emitRValueDecrement(rhs, rhsType, rhsRValue)
		return result, resultType, true, true
	}
}

// emitRValueDecrement destroys an operand's handle once it has been
// consumed, iff it was a string R-value. Binary operators are numeric-only
// today, so in practice this is always a no-op; kept symmetric with the
// original for when string operators are added.
func (c *Compiler) emitRValueDecrement(v llvm.Value, typ lang.Type, isRValue bool) {
	if isRValue && c.isHandleType(typ) {
		c.emitDecrement(v)
	}
}

func (c *Compiler) coerceToBool(v llvm.Value, typ lang.Type) llvm.Value {
	switch typ {
	case lang.Float:
		return c.builder.CreateFCmp(llvm.FloatONE, v, llvm.ConstFloat(c.ctx.FloatType(), 0), "")
	case lang.Int:
		return c.builder.CreateICmp(llvm.IntNE, v, llvm.ConstInt(c.ctx.Int32Type(), 0, false), "")
	case lang.Bool:
		return c.builder.CreateICmp(llvm.IntNE, v, llvm.ConstInt(c.ctx.Int1Type(), 0, false), "")
	default:
		return v
	}
}

// convert casts a numeric value from 'from' to the wider promoted type.
func (c *Compiler) convert(v llvm.Value, from, to lang.Type) llvm.Value {
	if from == to {
		return v
	}
	switch to {
	case lang.Float:
		return c.builder.CreateSIToFP(v, c.ctx.FloatType(), "")
	case lang.Int:
		// only reached when from == Bool
		return c.builder.CreateZExt(v, c.ctx.Int32Type(), "")
	default:
		return v
	}
}

// computeArithmetic dispatches add/sub/mul/div/mod/comparisons on already
// promotion-converted operands of the given common type.
func (c *Compiler) computeArithmetic(n *ast.Node, lhs, rhs llvm.Value, typ lang.Type) (llvm.Value, lang.Type, bool) {
	isFloat := typ == lang.Float

	switch n.Op.Kind {
	case lang.Add:
		if isFloat {
			return c.builder.CreateFAdd(lhs, rhs, ""), typ, false
		}
		return c.builder.CreateAdd(lhs, rhs, ""), typ, false
	case lang.Subtract:
		if isFloat {
			return c.builder.CreateFSub(lhs, rhs, ""), typ, false
		}
		return c.builder.CreateSub(lhs, rhs, ""), typ, false
	case lang.Multiply:
		if isFloat {
			return c.builder.CreateFMul(lhs, rhs, ""), typ, false
		}
		return c.builder.CreateMul(lhs, rhs, ""), typ, false
	case lang.Divide:
		if isFloat {
			return c.builder.CreateFDiv(lhs, rhs, ""), typ, false
		}
		return c.builder.CreateSDiv(lhs, rhs, ""), typ, false
	case lang.Modulo:
		if isFloat {
			c.errorf(n, "modulo requires integer operands")
			return llvm.Value{}, lang.Void, true
		}
		return c.builder.CreateSRem(lhs, rhs, ""), typ, false
	case lang.Equality:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatOEQ, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntEQ, lhs, rhs, ""), lang.Bool, false
	case lang.Inequality:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatONE, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntNE, lhs, rhs, ""), lang.Bool, false
	case lang.Greater:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatOGT, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntSGT, lhs, rhs, ""), lang.Bool, false
	case lang.Lesser:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatOLT, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntSLT, lhs, rhs, ""), lang.Bool, false
	case lang.GreaterEqual:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatOGE, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntSGE, lhs, rhs, ""), lang.Bool, false
	case lang.LesserEqual:
		if isFloat {
			return c.builder.CreateFCmp(llvm.FloatOLE, lhs, rhs, ""), lang.Bool, false
		}
		return c.builder.CreateICmp(llvm.IntSLE, lhs, rhs, ""), lang.Bool, false
	default:
		c.errorf(n, "internal error: unhandled operator %s", n.Op.Symbol)
		return llvm.Value{}, lang.Void, true
	}
}

// compileCallExpression mirrors CompileExpression(ASTCallNode*): resolve
// the callee, compile each argument, convert string handles to a raw
// pointer when the callee's declared parameter wants one, call, then
// decrement any R-value string arguments now that the call owns no
// reference to them.
func (c *Compiler) compileCallExpression(n *ast.Node) (llvm.Value, lang.Type, bool, bool) {
	sym, found := c.lookupSymbol(n.Name)
	if !found {
		// Not a script or imported name: the string runtime intrinsics are
		// callable by their bare names.
		switch n.Name {
		case "strlen", "strcmp":
			sym, found = &symbol{value: c.declareIntrinsic(n.Name), typ: lang.Int, isFunction: true}, true
		case "strcat", "substr":
			sym, found = &symbol{value: c.declareIntrinsic(n.Name), typ: lang.String, isFunction: true}, true
		}
	}
	if !found || !sym.isFunction {
		c.errorf(n, "undefined function %q", n.Name)
		return llvm.Value{}, lang.Void, false, false
	}

	handles := make([]llvm.Value, 0, len(n.Args)) // original handle, for decrement below
	args := make([]llvm.Value, 0, len(n.Args))    // value actually passed to CreateCall
	argTypes := make([]lang.Type, 0, len(n.Args))
	argRValues := make([]bool, 0, len(n.Args))

	for _, argNode := range n.Args {
		v, t, isR, ok := c.compileExpression(argNode)
		if !ok {
			return llvm.Value{}, lang.Void, false, false
		}
		handles = append(handles, v)
		args = append(args, v)
		argTypes = append(argTypes, t)
		argRValues = append(argRValues, isR)
	}

	// A String argument passed to a raw-pointer parameter (only possible
	// for an imported function) is projected through strgetptr first; the
	// handle itself is still decremented below exactly as if it had been
	// passed directly, since the call never took ownership of it either way.
	for i, t := range argTypes {
		if t == lang.String && i < len(sym.rawStringParam) && sym.rawStringParam[i] {
			args[i] = c.stringToRawPointer(args[i])
		}
	}

	result := c.builder.CreateCall(sym.value, args, "")

	for i, isR := range argRValues {
		if isR && c.isHandleType(argTypes[i]) {
			c.emitDecrement(handles[i])
		}
	}

	return result, sym.typ, true, true
}

// stringToRawPointer projects a string handle's raw code-unit buffer via
// the strgetptr runtime intrinsic, mirroring ConvertStringToCString.
// strgetptr returns the generic handle pointer type; a raw-pointer
// parameter wants a uint16_t* specifically, so the result is bitcast.
func (c *Compiler) stringToRawPointer(handle llvm.Value) llvm.Value {
	fn := c.declareIntrinsic("strgetptr")
	raw := c.builder.CreateCall(fn, []llvm.Value{handle}, "")
	return c.builder.CreateBitCast(raw, llvm.PointerType(c.ctx.Int16Type(), 0), "")
}
