package compiler

import (
	"github.com/cwbudde/myscript/internal/lang"
	"tinygo.org/x/go-llvm"
)

// scopeKind mirrors the four scope kinds the original tracks: a variable's
// destruction point depends on which kind of block introduced it.
type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeFunction
	scopeWhile
	scopeIf
)

// symbol is one entry of a scope's symbol table: either a variable (backed
// by an alloca or, at global scope, a global) or a function value.
type symbol struct {
	value      llvm.Value
	typ        lang.Type
	isFunction bool
	isAlloca   bool // true: value is a pointer needing a load to read; false: value is usable directly (functions, and the symbol-as-loaded-value case never arises here)

	// paramTypes and rawStringParam describe a function symbol's
	// parameters. rawStringParam is nil for every script-defined function
	// (all of its String parameters use the handle type); for a
	// host-imported function, rawStringParam[i] is true where the i'th
	// parameter was declared to want a raw code-unit pointer instead of a
	// handle, requiring a strgetptr projection at each call site.
	paramTypes     []lang.Type
	rawStringParam []bool
}

// scope is one entry of the compiler's scope stack. Locals are kept in both
// a map (lookup) and insertion order (deterministic decrement emission on
// scope exit).
type scope struct {
	kind   scopeKind
	locals map[string]*symbol
	order  []string

	// scopeWhile only: the blocks `continue`/`break` target.
	startBlock llvm.BasicBlock
	outBlock   llvm.BasicBlock

	// scopeFunction only: the function's declared return type, checked
	// against every `return` expression reachable from this scope.
	returnType lang.Type
}

func newScope(kind scopeKind) *scope {
	return &scope{kind: kind, locals: make(map[string]*symbol)}
}

func (s *scope) define(name string, sym *symbol) {
	if _, exists := s.locals[name]; !exists {
		s.order = append(s.order, name)
	}
	s.locals[name] = sym
}

// pushScope opens a new scope of the given kind on top of the stack.
func (c *Compiler) pushScope(kind scopeKind) *scope {
	sc := newScope(kind)
	c.scopes = append(c.scopes, sc)
	return sc
}

// popScope removes the top scope without emitting any IR; callers must
// have already emitted destruction code via destroyScopeVariables where
// the control-flow path requires it.
func (c *Compiler) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Compiler) currentScope() *scope {
	return c.scopes[len(c.scopes)-1]
}

// lookupSymbol searches the scope stack innermost-first, mirroring the
// original's GetSymbol: a local shadows a same-named global or function.
func (c *Compiler) lookupSymbol(name string) (*symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i].locals[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// currentLoopScopeIndex returns the index of the innermost scopeWhile, or
// -1 if `break`/`continue` would be illegal here.
func (c *Compiler) currentLoopScopeIndex() int {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].kind == scopeWhile {
			return i
		}
	}
	return -1
}

// currentFunctionScopeIndex returns the index of the innermost scopeFunction,
// or -1 if `return` would be illegal here. The module entrypoint compiles
// its top-level statements directly into the global scope with no
// scopeFunction pushed (module.go), so a bare `return` at top level is
// correctly rejected by this same check.
func (c *Compiler) currentFunctionScopeIndex() int {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].kind == scopeFunction {
			return i
		}
	}
	return -1
}

// scopesFrom returns the scopes from the top of the stack down to and
// including index target, in destroy order (innermost first) — the set of
// scopes a `return`/`break`/`continue` branching out to the scope at target
// must destroy first.
func (c *Compiler) scopesFrom(target int) []*scope {
	out := make([]*scope, 0, len(c.scopes)-target)
	for i := len(c.scopes) - 1; i >= target; i-- {
		out = append(out, c.scopes[i])
	}
	return out
}
