package compiler

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"tinygo.org/x/go-llvm"
)

// maxParams is the external-ABI parameter cap from Symbol data
// model (`param_types[≤10]`).
const maxParams = 10

// declareFunction creates the backend llvm.Function for one KFunction node
// and registers it in the global scope, without compiling its body.
// Declaring every function up front (instead of registering it only after
// its body compiles, as the original single-pass walk does) lets scripts
// call a function defined later in the same module, and lets a function
// call itself recursively.
func (c *Compiler) declareFunction(n *ast.Node) bool {
	if len(n.Params) > maxParams {
		c.errorf(n, "function %q takes %d parameters, exceeding the %d-parameter ABI limit", n.Name, len(n.Params), maxParams)
		return false
	}
	if _, exists := c.lookupSymbol(n.Name); exists {
		c.errorf(n, "%q redefinition", n.Name)
		return false
	}

	paramTypes := make([]llvm.Type, len(n.Params))
	for i, p := range n.Params {
		paramTypes[i] = c.llvmType(p.Type)
	}
	fnType := llvm.FunctionType(c.llvmType(n.ReturnType), paramTypes, false)
	fn := llvm.AddFunction(c.mod, c.mangle(n.Name), fnType)
	fn.SetLinkage(llvm.ExternalLinkage)

	c.scopes[0].define(n.Name, &symbol{value: fn, typ: n.ReturnType, isFunction: true})
	return true
}

// compileFunction lowers one KFunction's body, mirroring CompileFunction:
// push a Function scope, alloca+store each argument, compile statements,
// and emit an implicit void return if control falls off the end of a
// Void-returning function. Falling off the end of a non-Void function is
// a semantic error (error taxonomy has no "missing return"
// entry, but emitting `ret void` from an i32-returning function is not
// valid IR, so this case must be rejected rather than silently miscompiled).
func (c *Compiler) compileFunction(n *ast.Node) bool {
	sym, _ := c.lookupSymbol(n.Name)
	fn := sym.value

	savedBlock := c.builder.GetInsertBlock()

	entry := llvm.AddBasicBlock(fn, "")
	c.builder.SetInsertPointAtEnd(entry)

	fnScope := c.pushScope(scopeFunction)
	fnScope.returnType = n.ReturnType
	params := fn.Params()
	for i, p := range n.Params {
		slot := c.builder.CreateAlloca(c.llvmType(p.Type), p.Name)
		c.builder.CreateStore(params[i], slot)
		c.currentScope().define(p.Name, &symbol{value: slot, typ: p.Type, isAlloca: true})
	}

	reachable, ok := c.compileBlock(n.Body)
	if !ok {
		c.popScope()
		c.restoreInsertPoint(savedBlock)
		return false
	}
	if reachable {
		if n.ReturnType != lang.Void {
			c.errorf(n, "function %q must return a value on every path", n.Name)
			c.popScope()
			c.restoreInsertPoint(savedBlock)
			return false
		}
		c.destroyScopeVariables(c.currentScope())
		c.builder.CreateRetVoid()
	}
	c.popScope()

	c.restoreInsertPoint(savedBlock)
	return true
}

// restoreInsertPoint returns the builder to the block it was pointed at
// before compileFunction started, the way the original saves/restores
// GetInsertBlock/GetInsertPoint around an inline function compilation.
func (c *Compiler) restoreInsertPoint(b llvm.BasicBlock) {
	if b.IsNil() {
		return
	}
	c.builder.SetInsertPointAtEnd(b)
}
