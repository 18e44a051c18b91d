package compiler

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"tinygo.org/x/go-llvm"
)

// compileBlock lowers a sequence of statements, mirroring
// MSIRCompiler.hpp's CompileBlock. The bool result is "may execution
// continue past this block"; ok is false once a semantic error fires.
// Unlike the original, a statement left after the point where a prior
// statement already made the rest of the block unreachable (e.g. a
// `return` in both arms of an `if`, followed by more statements) is a
// compile error rather than silently-dropped dead code: the original
// would keep generating IR into a block with no predecessor, which
// LLVM's verifier rejects, so this must be caught here instead.
func (c *Compiler) compileBlock(stmts []*ast.Node) (reachable bool, ok bool) {
	for i, s := range stmts {
		r, k := c.compileStatement(s)
		if !k {
			return false, false
		}
		if !r {
			if i+1 < len(stmts) {
				c.errorf(stmts[i+1], "unreachable statement")
				return false, false
			}
			return false, true
		}
	}
	return true, true
}

func (c *Compiler) compileStatement(n *ast.Node) (reachable bool, ok bool) {
	switch n.Kind {
	case ast.KAssignment:
		if n.DeclType == lang.Void {
			return c.compileReassignment(n)
		}
		return c.compileDeclaration(n)
	case ast.KCall:
		result, typ, isRValue, ok := c.compileExpression(n)
		if !ok {
			return false, false
		}
		// The call's result is discarded as a statement; destroy it now
		// if it is a string R-value nothing else will ever reference.
		c.emitRValueDecrement(result, typ, isRValue)
		return true, true
	case ast.KIf:
		return c.compileIf(n)
	case ast.KWhile:
		return c.compileWhile(n)
	case ast.KReturn:
		return c.compileReturn(n)
	case ast.KBreak:
		return c.compileBreak(n)
	case ast.KContinue:
		return c.compileContinue(n)
	default:
		c.errorf(n, "internal error: %s is not a statement", n.Kind)
		return false, false
	}
}

// destroyScopeVariables emits a decrement for every String-typed local the
// scope owns. Global scope locals are
// backed by process-lifetime globals, never destroyed.
func (c *Compiler) destroyScopeVariables(sc *scope) {
	if sc.kind == scopeGlobal {
		return
	}
	for _, name := range sc.order {
		sym := sc.locals[name]
		if sym.isFunction || sym.typ != lang.String {
			continue
		}
		v := c.builder.CreateLoad(sym.value, name)
		c.emitDecrement(v)
	}
}

// destroyScopesFrom emits destruction for every scope from the top of the
// stack down to and including target, in that order — used by
// return/break/continue, which branch out past zero or more enclosing
// scopes.
func (c *Compiler) destroyScopesFrom(target int) {
	for _, sc := range c.scopesFrom(target) {
		c.destroyScopeVariables(sc)
	}
}

// compileDeclaration implements `<type> <name> = <expr>;`. At function/
// block scope this allocates a stack slot; at the outermost (global)
// scope it allocates a global with a constant initializer, rejecting a
// non-constant one (explicit "global non-constant initializers
// are not supported").
func (c *Compiler) compileDeclaration(n *ast.Node) (bool, bool) {
	if _, exists := c.lookupSymbol(n.Name); exists {
		c.errorf(n, "%q redefinition", n.Name)
		return false, false
	}

	expr, exprType, exprIsRValue, ok := c.compileExpression(n.Expr)
	if !ok {
		return false, false
	}
	if exprType != n.DeclType {
		c.errorf(n, "cannot initialize %s %q with a %s value", n.DeclType, n.Name, exprType)
		return false, false
	}

	var slot llvm.Value
	if len(c.scopes) > 1 {
		slot = c.builder.CreateAlloca(c.llvmType(n.DeclType), n.Name)
		c.builder.CreateStore(expr, slot)
	} else {
		if expr.IsAConstant().IsNil() {
			c.errorf(n, "global variable %q has a non-constant initializer", n.Name)
			return false, false
		}
		slot = llvm.AddGlobal(c.mod, c.llvmType(n.DeclType), c.mangle(n.Name))
		slot.SetInitializer(expr)
		slot.SetLinkage(llvm.PrivateLinkage)
	}

	c.currentScope().define(n.Name, &symbol{value: slot, typ: n.DeclType, isAlloca: true})

	if !exprIsRValue && c.isHandleType(exprType) {
		c.emitIncrement(expr)
	}
	return true, true
}

// compileReassignment implements `<name> = <expr>;`: decrement the slot's
// old string value (if any), store the new one, incrementing it first if
// it is an L-value reference the slot doesn't yet own a reference to.
func (c *Compiler) compileReassignment(n *ast.Node) (bool, bool) {
	sym, found := c.lookupSymbol(n.Name)
	if !found {
		c.errorf(n, "undefined variable %q", n.Name)
		return false, false
	}
	if sym.isFunction {
		c.errorf(n, "%q is a function, not a variable", n.Name)
		return false, false
	}

	expr, exprType, exprIsRValue, ok := c.compileExpression(n.Expr)
	if !ok {
		return false, false
	}
	if exprType != sym.typ {
		c.errorf(n, "cannot assign %s value to %s variable %q", exprType, sym.typ, n.Name)
		return false, false
	}

	if sym.typ == lang.String {
		old := c.builder.CreateLoad(sym.value, "")
		c.emitDecrement(old)
	}
	if !exprIsRValue && c.isHandleType(exprType) {
		c.emitIncrement(expr)
	}
	c.builder.CreateStore(expr, sym.value)
	return true, true
}

// compileIf mirrors CompileStatement(ASTIfNode*): the merge block is only
// materialized if at least one branch can fall through to it, so an
// if/else where both arms terminate (return/break/continue) leaves no
// dangling empty block behind.
func (c *Compiler) compileIf(n *ast.Node) (bool, bool) {
	cond, condType, condIsRValue, ok := c.compileExpression(n.Expr)
	if !ok {
		return false, false
	}
	if !condType.IsNumeric() {
		c.errorf(n, "if condition must be numeric, got %s", condType)
		return false, false
	}
	condBool := c.coerceToBool(cond, condType)
	c.emitRValueDecrement(cond, condType, condIsRValue)

	fn := c.builder.GetInsertBlock().Parent()
	thenBlock := llvm.AddBasicBlock(fn, "")
	hasElse := len(n.Else) > 0

	var elseBlock, mergeBlock llvm.BasicBlock
	haveMerge := false
	ensureMerge := func() llvm.BasicBlock {
		if !haveMerge {
			mergeBlock = llvm.AddBasicBlock(fn, "")
			haveMerge = true
		}
		return mergeBlock
	}

	if hasElse {
		elseBlock = llvm.AddBasicBlock(fn, "")
		c.builder.CreateCondBr(condBool, thenBlock, elseBlock)
	} else {
		c.builder.CreateCondBr(condBool, thenBlock, ensureMerge())
	}

	c.builder.SetInsertPointAtEnd(thenBlock)
	c.pushScope(scopeIf)
	thenReachable, ok := c.compileBlock(n.Body)
	if !ok {
		return false, false
	}
	if thenReachable {
		c.destroyScopeVariables(c.currentScope())
		c.builder.CreateBr(ensureMerge())
	}
	c.popScope()

	elseReachable := true
	if hasElse {
		c.builder.SetInsertPointAtEnd(elseBlock)
		c.pushScope(scopeIf)
		var ok2 bool
		elseReachable, ok2 = c.compileBlock(n.Else)
		if !ok2 {
			return false, false
		}
		if elseReachable {
			c.destroyScopeVariables(c.currentScope())
			c.builder.CreateBr(ensureMerge())
		}
		c.popScope()
	}

	if haveMerge {
		c.builder.SetInsertPointAtEnd(mergeBlock)
	}

	return thenReachable || elseReachable, true
}

// compileWhile mirrors CompileStatement(ASTWhileNode*), re-evaluating the
// condition in its own block on every iteration (the condition block is
// also the `continue` target), always reporting "reachable" afterward:
// control always reaches the merge block once the condition turns false.
func (c *Compiler) compileWhile(n *ast.Node) (bool, bool) {
	fn := c.builder.GetInsertBlock().Parent()
	conditionBlock := llvm.AddBasicBlock(fn, "")
	bodyBlock := llvm.AddBasicBlock(fn, "")
	mergeBlock := llvm.AddBasicBlock(fn, "")

	c.builder.CreateBr(conditionBlock)
	c.builder.SetInsertPointAtEnd(conditionBlock)

	cond, condType, condIsRValue, ok := c.compileExpression(n.Expr)
	if !ok {
		return false, false
	}
	if !condType.IsNumeric() {
		c.errorf(n, "while condition must be numeric, got %s", condType)
		return false, false
	}
	condBool := c.coerceToBool(cond, condType)
	c.emitRValueDecrement(cond, condType, condIsRValue)
	c.builder.CreateCondBr(condBool, bodyBlock, mergeBlock)

	c.builder.SetInsertPointAtEnd(bodyBlock)
	sc := c.pushScope(scopeWhile)
	sc.startBlock = conditionBlock
	sc.outBlock = mergeBlock

	bodyReachable, ok := c.compileBlock(n.Body)
	if !ok {
		return false, false
	}
	if bodyReachable {
		c.destroyScopeVariables(c.currentScope())
		c.builder.CreateBr(conditionBlock)
	}
	c.popScope()

	c.builder.SetInsertPointAtEnd(mergeBlock)
	return true, true
}

// compileReturn mirrors CompileStatement(ASTReturnNode*): the returned
// expression is compiled first (so e.g. `return substr(s, 1, strlen(s));`
// still sees a live `s`), then every enclosing scope down to and including
// the function scope is destroyed before the terminator is emitted.
func (c *Compiler) compileReturn(n *ast.Node) (bool, bool) {
	target := c.currentFunctionScopeIndex()
	if target == -1 {
		c.errorf(n, "illegal return outside a function")
		return false, false
	}

	value, valueType, isRValue, ok := c.compileExpression(n.Expr)
	if !ok {
		return false, false
	}
	if wantType := c.scopes[target].returnType; valueType != wantType {
		c.errorf(n, "function returns %s, but this return statement yields %s", wantType, valueType)
		return false, false
	}

	// A returned L-value handle is about to be handed to the caller, but
	// the scope-destroy below is about to decrement it as a local going
	// out of scope; increment first to compensate (call results are
	// always R-values, so only `return name;` or a returned string
	// literal needs this).
	if !isRValue && c.isHandleType(valueType) {
		c.emitIncrement(value)
	}

	c.destroyScopesFrom(target)
	c.builder.CreateRet(value)
	return false, true
}

func (c *Compiler) compileBreak(n *ast.Node) (bool, bool) {
	target := c.currentLoopScopeIndex()
	if target == -1 {
		c.errorf(n, "illegal break outside a loop")
		return false, false
	}
	out := c.scopes[target].outBlock
	c.destroyScopesFrom(target)
	c.builder.CreateBr(out)
	return false, true
}

func (c *Compiler) compileContinue(n *ast.Node) (bool, bool) {
	target := c.currentLoopScopeIndex()
	if target == -1 {
		c.errorf(n, "illegal continue outside a loop")
		return false, false
	}
	start := c.scopes[target].startBlock
	c.destroyScopesFrom(target)
	c.builder.CreateBr(start)
	return false, true
}
