// Package jit implements the JIT context (component C7): it takes a
// compiled llvm.Module, links it with an MCJIT execution engine, resolves
// every external symbol the module references (the seven fixed runtime
// intrinsics first, then per-script host imports), and exposes the
// resulting native addresses for the entrypoint and each exported
// script-defined function.
//
// Grounded on the typed-pointer LLVM IR conventions already established in
// internal/compiler (itself grounded on
// other_examples/…hhramberg-go-vslc__src-ir-llvm-transform.go.go) and on
// tinygo.org/x/go-llvm's MCJIT ExecutionEngine bindings: NewMCJITCompiler
// links and loads the module, AddGlobalMapping resolves imported and
// intrinsic symbols to Go-side addresses, and FindFunction + RunFunction /
// PointerToFunction implement the execute operation and exported-symbol
// address resolution. The object-linking / IR-compile / IR-optimize
// three-layer pipeline the original C++ names
// (original_source/MyScript/MSContext.hpp) collapses into this one
// ExecutionEngine call in go-llvm; a function pass manager running
// instruction-combine/reassociate/GVN/CFG-simplify over every defined
// function before linking stands in for the optimize layer.
package jit

import (
	"fmt"
	"io"
	"log"
	"unsafe"

	"github.com/cwbudde/myscript/internal/runtime"
	"tinygo.org/x/go-llvm"
)

// Logger receives a line per symbol resolved and per entrypoint run;
// discarded by default. The CLI's --verbose flag points it at stderr.
var Logger = log.New(io.Discard, "jit: ", log.Lmsgprefix)

// Context holds one module's execution engine. It is single-use: link a
// freshly-compiled module, resolve its symbols, then look up addresses.
type Context struct {
	engine llvm.ExecutionEngine
}

// Resolver supplies the native address for one per-script host import,
// keyed by its unmangled name (the same Name a compiler.ImportedSymbol
// carries).
type Resolver func(name string) (uintptr, bool)

// New runs the instruction-combining/reassociation/GVN/CFG-simplification
// passes over every defined function of mod, then links it into a fresh
// MCJIT execution engine at the default optimization level.
func New(mod llvm.Module) (*Context, error) {
	fpm := llvm.NewFunctionPassManagerForModule(mod)
	defer fpm.Dispose()
	fpm.AddInstructionCombiningPass()
	fpm.AddReassociatePass()
	fpm.AddGVNPass()
	fpm.AddCFGSimplificationPass()
	fpm.InitializeFunc()
	for fn := mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if !fn.IsDeclaration() {
			fpm.RunFunc(fn)
		}
	}
	fpm.FinalizeFunc()

	opts := llvm.NewMCJITCompilerOptions()
	engine, err := llvm.NewMCJITCompiler(mod, opts)
	if err != nil {
		return nil, fmt.Errorf("jit: failed to create execution engine: %w", err)
	}
	return &Context{engine: engine}, nil
}

// ResolveSymbols walks every function declaration in mod lacking a body
// (an extern reference the compiler emitted for an intrinsic or an
// import) and maps it to a native address: fixed runtime intrinsics are
// tried first, then resolve is consulted for anything left, matching the
// two-stage order.
func (ctx *Context) ResolveSymbols(mod llvm.Module, resolve Resolver) error {
	for fn := mod.FirstFunction(); !fn.IsNil(); fn = llvm.NextFunction(fn) {
		if !fn.IsDeclaration() {
			continue
		}
		name := fn.Name()

		if addr, ok := runtime.Address(unqualify(name)); ok {
			ctx.engine.AddGlobalMapping(fn, unsafe.Pointer(addr))
			Logger.Printf("resolved intrinsic %s -> %#x", name, addr)
			continue
		}
		if addr, ok := resolve(importName(name)); ok {
			ctx.engine.AddGlobalMapping(fn, unsafe.Pointer(addr))
			Logger.Printf("resolved import %s -> %#x", name, addr)
			continue
		}
		return fmt.Errorf("jit: symbol not found: %s", name)
	}
	return nil
}

// FunctionAddress returns the native address the linker assigned to the
// mangled symbol name (e.g. "mod::functionName" or "mod::$"), or 0 if mod
// has no such defined function. This is exported-symbol address
// resolution: FindFunction locates the backend Value, PointerToFunction
// asks the engine for its address in the freshly-linked code.
func (ctx *Context) FunctionAddress(mangledName string) uintptr {
	fn, ok := ctx.engine.FindFunction(mangledName)
	if !ok {
		return 0
	}
	return uintptr(ctx.engine.PointerToFunction(fn))
}

// RunEntrypoint resolves and invokes "<module>::$" as a nullary void
// function via the engine's own RunFunction call path — the only call
// shape the embedding API's execute operation ever needs.
func (ctx *Context) RunEntrypoint(moduleName string) {
	fn, ok := ctx.engine.FindFunction(moduleName + "::$")
	if !ok {
		Logger.Printf("module %q has no entrypoint", moduleName)
		return
	}
	Logger.Printf("running %s::$", moduleName)
	ctx.engine.RunFunction(fn, nil)
}

// Dispose releases the execution engine (and the module it owns).
func (ctx *Context) Dispose() {
	ctx.engine.Dispose()
}

// unqualify strips a "<module>::" mangling prefix, leaving the bare
// runtime-intrinsic name (intrinsics are declared unmangled by the
// compiler, but this keeps the check robust either way).
func unqualify(name string) string {
	for i := len(name) - 1; i >= 1; i-- {
		if name[i] == ':' && name[i-1] == ':' {
			return name[i+1:]
		}
	}
	return name
}

// importName strips the "<module>::" mangling prefix an imported
// function's declaration carries, returning the bare name the host
// registered the ImportedSymbol descriptor under.
func importName(mangled string) string {
	return unqualify(mangled)
}
