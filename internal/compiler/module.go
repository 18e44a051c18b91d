package compiler

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/errors"
	"tinygo.org/x/go-llvm"
)

// entrypointName is the unqualified name of the module's top-level
// statement runner, mangled the same way a script-defined function would
// be.
const entrypointName = "$"

// Compile lowers a parsed program into this Compiler's llvm.Module,
// building the `<module>::$` entrypoint for the top-level statements and
// one backend function per script-defined function. The AST keeps
// functions and top-level statements in separate slices rather than their
// original source interleaving (ast.Program), so function signatures are
// all declared first (enabling forward references and recursion, see
// functions.go), then the entrypoint body, then each function's body.
//
// Returns false if any semantic error was recorded; Errors() holds them.
func (c *Compiler) Compile(prog *ast.Program) bool {
	return c.CompileWithImports(prog, nil)
}

// CompileWithImports is Compile, additionally declaring every host-supplied
// symbol into the global scope before any script function or top-level
// statement is compiled, so script code can reference an import the same
// way it references a sibling function.
func (c *Compiler) CompileWithImports(prog *ast.Program, imports []ImportedSymbol) bool {
	fnType := llvm.FunctionType(c.ctx.VoidType(), nil, false)
	entry := llvm.AddFunction(c.mod, c.mangle(entrypointName), fnType)
	entry.SetLinkage(llvm.ExternalLinkage)
	block := llvm.AddBasicBlock(entry, "")
	c.builder.SetInsertPointAtEnd(block)

	c.pushScope(scopeGlobal)

	if !c.declareImports(imports) {
		return false
	}

	for _, fn := range prog.Functions {
		if !c.declareFunction(fn) {
			return false
		}
	}

	if _, ok := c.compileBlock(prog.TopLevel); !ok {
		return false
	}
	c.builder.CreateRetVoid()

	for _, fn := range prog.Functions {
		if !c.compileFunction(fn) {
			return false
		}
	}

	c.popScope()
	return len(c.errs) == 0
}

// FirstError returns the first recorded semantic error, or nil.
func (c *Compiler) FirstError() *errors.CompilerError {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[0]
}
