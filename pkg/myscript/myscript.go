// Package myscript is the embedding API (component C8 and the operation
// table of the external interface): a host program creates a Context,
// compiles source into a Script, optionally enumerates its exported
// functions, executes it, and manages string handles — the same five
// groupings the embedding contract describes, thinned to this module's
// scope (no generic "call an arbitrary script function" operation; see
// Execute).
//
// Grounded on the wiring style of
// _examples/CWBudde-go-dws/internal/interp/runner/runner.go (a thin
// constructor function assembling the lower layers) and on
// internal/compiler, internal/jit and internal/runtime for the actual
// work.
package myscript

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/compiler"
	"github.com/cwbudde/myscript/internal/jit"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/parser"
	"github.com/cwbudde/myscript/internal/runtime"
	"github.com/maruel/natural"
)

// Context is the create-context handle: it owns nothing by itself today
// (the backend context lives per-Script, mirroring one llvm.Context per
// compiled module), but gives the host one long-lived object to hold,
// matching the embedding table's create-context/close lifecycle.
type Context struct{}

// NewContext implements create-context.
func NewContext() *Context { return &Context{} }

// SyntaxError is the syntax-error callback payload: module name, 1-origin
// line and column (column counts code units from the last newline), and
// message.
type SyntaxError struct {
	ModuleName string
	Line       int
	Column     int
	Message    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.ModuleName, e.Line, e.Column, e.Message)
}

// ImportKind mirrors compiler.ImportKind at the embedding boundary.
type ImportKind = compiler.ImportKind

const (
	ImportVariable = compiler.ImportVariable
	ImportFunction = compiler.ImportFunction
)

// CallingConvention mirrors lang.CallingConvention at the embedding boundary.
type CallingConvention = lang.CallingConvention

const (
	CDecl   = lang.CDecl
	StdCall = lang.StdCall
)

// ImportedSymbol is the host-supplied descriptor compile() accepts: a
// verbatim copy is kept on the resulting Script (component C8's "imported-
// symbol vector"), and it drives both compile-time declaration
// (internal/compiler) and JIT-time address resolution (internal/jit).
type ImportedSymbol struct {
	Name    string
	Address uintptr
	Kind    ImportKind

	// ImportVariable only.
	VarType lang.Type

	// ImportFunction only.
	ReturnType     lang.Type
	ParamTypes     []lang.Type
	RawStringParam []bool
	CallConv       CallingConvention
}

// ExportedSymbol is one top-level function the script defined, with its
// native address filled in once the script has been JIT-linked.
type ExportedSymbol struct {
	Name    string
	Address uintptr
}

// Script is the compiled, linked unit (component C8): module name,
// imports, and the exported-symbol table, plus the JIT context that owns
// the backing native code.
type Script struct {
	moduleName string
	imports    []ImportedSymbol
	exports    []ExportedSymbol

	ctx *jit.Context
}

// Compile implements the compile operation: parse, lower to IR, link and
// resolve symbols. On a syntax error, err is a *SyntaxError for the first
// error encountered (first-error-stops is acceptable per the error
// handling design); on a semantic error, err carries the first compiler
// diagnostic's position and message. script is nil whenever err is non-nil.
func (c *Context) Compile(moduleName string, source []byte, imports []ImportedSymbol) (*Script, error) {
	src := string(source)
	arena := &ast.Arena{}
	p := parser.New(src, arena)
	prog := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, &SyntaxError{ModuleName: moduleName, Line: first.Pos.Line, Column: first.Pos.Column, Message: first.Message}
	}

	comp := compiler.New(moduleName, src, moduleName)
	compilerImports := make([]compiler.ImportedSymbol, len(imports))
	for i, im := range imports {
		compilerImports[i] = compiler.ImportedSymbol{
			Name:           im.Name,
			Kind:           im.Kind,
			VarType:        im.VarType,
			ReturnType:     im.ReturnType,
			ParamTypes:     im.ParamTypes,
			RawStringParam: im.RawStringParam,
			CallConv:       im.CallConv,
		}
	}

	if !comp.CompileWithImports(prog, compilerImports) {
		if first := comp.FirstError(); first != nil {
			return nil, fmt.Errorf("%s:%d:%d: %s", moduleName, first.Pos.Line, first.Pos.Column, first.Message)
		}
		return nil, fmt.Errorf("%s: compilation failed", moduleName)
	}

	engine, err := jit.New(comp.Module())
	if err != nil {
		return nil, err
	}

	resolve := func(name string) (uintptr, bool) {
		for _, im := range imports {
			if im.Name == name {
				return im.Address, true
			}
		}
		return 0, false
	}
	if err := engine.ResolveSymbols(comp.Module(), resolve); err != nil {
		engine.Dispose()
		return nil, err
	}

	exports := make([]ExportedSymbol, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		exports = append(exports, ExportedSymbol{
			Name:    fn.Name,
			Address: engine.FunctionAddress(moduleName + "::" + fn.Name),
		})
	}
	// Natural-sort by name so enumeration order is reproducible across
	// runs even though the compiler's own symbol table is a map.
	sort.Slice(exports, func(i, j int) bool {
		return natural.Less(exports[i].Name, exports[j].Name)
	})

	return &Script{
		moduleName: moduleName,
		imports:    append([]ImportedSymbol(nil), imports...),
		exports:    exports,
		ctx:        engine,
	}, nil
}

// symbolEnumerator implements get-first-symbol/get-next-symbol: a cursor
// over a Script's exported-symbol vector.
type symbolEnumerator struct {
	script *Script
	index  int
}

// GetFirstSymbol implements get-first-symbol.
func (s *Script) GetFirstSymbol() (*symbolEnumerator, bool) {
	if len(s.exports) == 0 {
		return nil, false
	}
	return &symbolEnumerator{script: s, index: 0}, true
}

// GetNextSymbol implements get-next-symbol: returns the current symbol and
// advances, or ok=false once enumeration is exhausted.
func (e *symbolEnumerator) GetNextSymbol() (ExportedSymbol, bool) {
	if e.index >= len(e.script.exports) {
		return ExportedSymbol{}, false
	}
	sym := e.script.exports[e.index]
	e.index++
	return sym, true
}

// Execute implements the execute operation: run `<module>::$` as a
// nullary void function. There is no operation to invoke a script-defined
// function directly from the host with an arbitrary signature; exported
// addresses are for the host's own dynamic-call machinery, not provided
// here.
func (c *Context) Execute(script *Script) {
	script.ctx.RunEntrypoint(script.moduleName)
}

// Close implements close for a Script: release the JIT-owned native code.
func (s *Script) Close() {
	s.ctx.Dispose()
}

// AllocString implements alloc-string.
func AllocString(units []uint16) uintptr {
	return uintptr(runtime.AllocString(units))
}

// FreeString implements free-string.
func FreeString(handle uintptr) {
	runtime.FreeString(ptr(handle))
}

// GetString implements get-string.
func GetString(handle uintptr) uintptr {
	return uintptr(runtime.GetString(ptr(handle)))
}

// ptr converts a handle exchanged with the host as a uintptr back into the
// unsafe.Pointer internal/runtime expects.
func ptr(handle uintptr) unsafe.Pointer {
	return unsafe.Pointer(handle)
}
