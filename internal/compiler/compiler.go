// Package compiler implements the IR compiler (component C6): it lowers a
// parsed *ast.Program to an LLVM module, one basic block at a time,
// maintaining the scope stack that drives reference-count bookkeeping for
// string-typed locals.
//
// Grounded on _examples/original_source/MyScript/MSIRCompiler.hpp, adapted
// from AST-visitor-with-dynamic-cast dispatch to a switch over ast.Node's
// Kind tag, and on the LLVM usage patterns in
// other_examples/…hhramberg-go-vslc__src-ir-llvm-transform.go.go.
package compiler

import (
	"fmt"

	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/errors"
	"github.com/cwbudde/myscript/internal/lang"
	"tinygo.org/x/go-llvm"
)

// Compiler lowers one *ast.Program into one llvm.Module. It is single-use:
// construct with New, call Compile once, then read Module.
type Compiler struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	moduleName string
	source     string
	file       string

	scopes      []*scope
	stringConst map[string]llvm.Value // dedup: UTF-16 text -> global handle pointer
	intrinsics  map[string]llvm.Value // declared extern funcs for the 7 runtime intrinsics

	errs []*errors.CompilerError
}

// New creates a Compiler for a module named moduleName (used as the
// `<module>::` mangling prefix). source/file are carried through only
// for error formatting.
func New(moduleName, source, file string) *Compiler {
	ctx := llvm.NewContext()
	return &Compiler{
		ctx:         ctx,
		mod:         ctx.NewModule(moduleName),
		builder:     ctx.NewBuilder(),
		moduleName:  moduleName,
		source:      source,
		file:        file,
		stringConst: make(map[string]llvm.Value),
		intrinsics:  make(map[string]llvm.Value),
	}
}

// Module returns the built llvm.Module. Valid only after Compile.
func (c *Compiler) Module() llvm.Module { return c.mod }

// Errors returns any semantic errors accumulated during Compile.
func (c *Compiler) Errors() []*errors.CompilerError { return c.errs }

func (c *Compiler) errorf(n *ast.Node, format string, args ...interface{}) {
	c.errs = append(c.errs, errors.New(n.Pos, fmt.Sprintf(format, args...), c.source, c.file))
}

func (c *Compiler) mangle(name string) string {
	return c.moduleName + "::" + name
}

// llvmType maps a scalar MyScript type to its LLVM representation. String
// values are carried as an opaque pointer to the runtime's ms_handle
// (internal/runtime's ms_handle/ms_string_body C types); the compiler never
// looks inside it, only passes it to the runtime intrinsics.
func (c *Compiler) llvmType(t lang.Type) llvm.Type {
	switch t {
	case lang.Void:
		return c.ctx.VoidType()
	case lang.Int:
		return c.ctx.Int32Type()
	case lang.Float:
		return c.ctx.FloatType()
	case lang.Bool:
		return c.ctx.Int1Type()
	case lang.String:
		return llvm.PointerType(c.ctx.Int8Type(), 0)
	default:
		return c.ctx.VoidType()
	}
}

// isHandleType reports whether typ is carried as a string handle, used to guard
// refcount operations so only string values ever reach hdlinc/hdldec.
func (c *Compiler) isHandleType(typ lang.Type) bool {
	return typ == lang.String
}

// declareIntrinsic lazily declares an extern function for one of the fixed
// runtime intrinsics, returning the cached
// declaration on repeat calls.
func (c *Compiler) declareIntrinsic(name string) llvm.Value {
	if fn, ok := c.intrinsics[name]; ok {
		return fn
	}

	handlePtr := llvm.PointerType(c.ctx.Int8Type(), 0)
	i32 := c.ctx.Int32Type()

	var fnType llvm.Type
	switch name {
	case "hdlinc", "hdldec":
		fnType = llvm.FunctionType(c.ctx.VoidType(), []llvm.Type{handlePtr}, false)
	case "strlen":
		fnType = llvm.FunctionType(i32, []llvm.Type{handlePtr}, false)
	case "strcat":
		fnType = llvm.FunctionType(handlePtr, []llvm.Type{handlePtr, handlePtr}, false)
	case "strcmp":
		fnType = llvm.FunctionType(i32, []llvm.Type{handlePtr, handlePtr}, false)
	case "substr":
		fnType = llvm.FunctionType(handlePtr, []llvm.Type{handlePtr, i32, i32}, false)
	case "strgetptr":
		fnType = llvm.FunctionType(handlePtr, []llvm.Type{handlePtr}, false)
	default:
		panic("compiler: unknown intrinsic " + name)
	}

	fn := llvm.AddFunction(c.mod, name, fnType)
	c.intrinsics[name] = fn
	return fn
}

// emitIncrement emits a call to hdlinc on a string handle, used whenever a
// string L-value is stored.
func (c *Compiler) emitIncrement(v llvm.Value) {
	fn := c.declareIntrinsic("hdlinc")
	c.builder.CreateCall(fn, []llvm.Value{v}, "")
}

// emitDecrement emits a call to hdldec on a string handle that is no
// longer needed (an R-value consumed, or a scope's local going out of
// scope).
func (c *Compiler) emitDecrement(v llvm.Value) {
	fn := c.declareIntrinsic("hdldec")
	c.builder.CreateCall(fn, []llvm.Value{v}, "")
}

// globalStringConstant returns the (possibly cached) global handle for a
// UTF-16 string literal. String constants are never freed: their refcount
// is initialized to 2 ("string constants... with an initial
// refcount of two, to guarantee the handle is never freed").
func (c *Compiler) globalStringConstant(units []uint16) llvm.Value {
	key := string(runeKey(units))
	if v, ok := c.stringConst[key]; ok {
		return v
	}

	// ms_string_body { int32 size; uint16 data[] } packed as a concrete
	// array-of-N body to give it a fixed, statically-sized layout. units
	// ends with the terminating 0, which size does not count (the same
	// convention as internal/runtime's ms_alloc).
	i16 := c.ctx.Int16Type()
	i32 := c.ctx.Int32Type()
	n := len(units)

	dataConsts := make([]llvm.Value, n)
	for i, u := range units {
		dataConsts[i] = llvm.ConstInt(i16, uint64(u), false)
	}
	bodyType := llvm.StructType([]llvm.Type{i32, llvm.ArrayType(i16, n)}, false)
	bodyInit := llvm.ConstNamedStruct(bodyType, []llvm.Value{
		llvm.ConstInt(i32, uint64(n-1), false),
		llvm.ConstArray(i16, dataConsts),
	})
	bodyGlobal := llvm.AddGlobal(c.mod, bodyType, c.moduleName+"::$strbody."+key)
	bodyGlobal.SetInitializer(bodyInit)
	bodyGlobal.SetGlobalConstant(true)
	bodyGlobal.SetLinkage(llvm.PrivateLinkage)

	handleType := llvm.StructType([]llvm.Type{i32, llvm.PointerType(c.ctx.Int8Type(), 0)}, false)
	handleInit := llvm.ConstNamedStruct(handleType, []llvm.Value{
		llvm.ConstInt(i32, 2, false),
		llvm.ConstBitCast(bodyGlobal, llvm.PointerType(c.ctx.Int8Type(), 0)),
	})
	handleGlobal := llvm.AddGlobal(c.mod, handleType, c.moduleName+"::$str."+key)
	handleGlobal.SetInitializer(handleInit)
	handleGlobal.SetGlobalConstant(true)
	handleGlobal.SetLinkage(llvm.PrivateLinkage)

	handlePtr := llvm.ConstBitCast(handleGlobal, llvm.PointerType(c.ctx.Int8Type(), 0))
	c.stringConst[key] = handlePtr
	return handlePtr
}

func runeKey(units []uint16) []byte {
	b := make([]byte, 0, len(units)*2)
	for _, u := range units {
		b = append(b, byte(u), byte(u>>8))
	}
	return b
}

// allocString emits a stralloc call building a refcount=1 handle from a raw
// code-unit pointer and length. No statement or expression lowering in this
// package calls it.
func (c *Compiler) allocString(ptr llvm.Value, length llvm.Value) llvm.Value {
	fnType := llvm.FunctionType(llvm.PointerType(c.ctx.Int8Type(), 0),
		[]llvm.Type{llvm.PointerType(c.ctx.Int16Type(), 0), c.ctx.Int32Type()}, false)
	fn, ok := c.intrinsics["stralloc"]
	if !ok {
		fn = llvm.AddFunction(c.mod, "stralloc", fnType)
		c.intrinsics["stralloc"] = fn
	}
	return c.builder.CreateCall(fn, []llvm.Value{ptr, length}, "")
}
