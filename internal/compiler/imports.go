package compiler

import (
	"fmt"

	"github.com/cwbudde/myscript/internal/errors"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/lexer"
	"tinygo.org/x/go-llvm"
)

// importErrorf records a semantic error with no source position, since an
// ImportedSymbol is a host-supplied descriptor rather than something
// parsed from the script's own source text.
func (c *Compiler) importErrorf(format string, args ...interface{}) {
	c.errs = append(c.errs, errors.New(lexer.Position{}, fmt.Sprintf(format, args...), c.source, c.file))
}

// ImportKind distinguishes the two shapes a host-supplied symbol can take,
// mirroring MSSymbolType's MS_SYMBOL_VARIABLE / MS_SYMBOL_FUNCTION split.
type ImportKind int

const (
	ImportVariable ImportKind = iota
	ImportFunction
)

// ImportedSymbol is the compiler-side view of one host-provided binding:
// the same descriptor shape the embedding API accepts from the host,
// passed through to the compiler so script code can reference these names
// during compilation. Resolving each descriptor's actual native address is
// the JIT's job, not the compiler's; the compiler only needs name, kind
// and signature to declare a correctly-typed extern.
type ImportedSymbol struct {
	Name string
	Kind ImportKind

	// ImportVariable only.
	VarType lang.Type

	// ImportFunction only.
	ReturnType lang.Type
	ParamTypes []lang.Type
	// RawStringParam, parallel to ParamTypes: true where that parameter
	// is a raw UTF-16 code-unit pointer rather than a string handle.
	RawStringParam []bool
	CallConv       lang.CallingConvention
}

// declareImport registers one host-provided symbol into the global scope,
// mirroring CreateImportDeclaration: imported functions are mangled with
// the module prefix exactly like script-defined functions and share the
// same scope-0 symbol table, so a script function definition can collide
// with (and is rejected against) an import name the same way it collides
// with another script function.
func (c *Compiler) declareImport(sym ImportedSymbol) bool {
	if _, exists := c.lookupSymbol(sym.Name); exists {
		c.importErrorf("%q redefinition", sym.Name)
		return false
	}

	switch sym.Kind {
	case ImportVariable:
		g := llvm.AddGlobal(c.mod, c.llvmType(sym.VarType), c.mangle(sym.Name))
		g.SetLinkage(llvm.ExternalLinkage)
		c.scopes[0].define(sym.Name, &symbol{value: g, typ: sym.VarType, isAlloca: true})
		return true

	case ImportFunction:
		if len(sym.ParamTypes) > maxParams {
			c.importErrorf("imported function %q takes %d parameters, exceeding the %d-parameter ABI limit", sym.Name, len(sym.ParamTypes), maxParams)
			return false
		}
		paramTypes := make([]llvm.Type, len(sym.ParamTypes))
		for i, t := range sym.ParamTypes {
			if t == lang.String && i < len(sym.RawStringParam) && sym.RawStringParam[i] {
				paramTypes[i] = llvm.PointerType(c.ctx.Int16Type(), 0)
			} else {
				paramTypes[i] = c.llvmType(t)
			}
		}
		fnType := llvm.FunctionType(c.llvmType(sym.ReturnType), paramTypes, false)
		fn := llvm.AddFunction(c.mod, c.mangle(sym.Name), fnType)
		fn.SetLinkage(llvm.ExternalLinkage)
		switch sym.CallConv {
		case lang.CDecl:
			fn.SetFunctionCallConv(llvm.CCallConv)
		case lang.StdCall:
			fn.SetFunctionCallConv(llvm.X86StdcallCallConv)
		}

		rawStringParam := sym.RawStringParam
		if rawStringParam == nil {
			rawStringParam = make([]bool, len(sym.ParamTypes))
		}
		c.scopes[0].define(sym.Name, &symbol{
			value:          fn,
			typ:            sym.ReturnType,
			isFunction:     true,
			paramTypes:     sym.ParamTypes,
			rawStringParam: rawStringParam,
		})
		return true

	default:
		return false
	}
}

// declareImports registers every host-supplied descriptor; called once, up
// front, before any script function is declared, so a later script
// definition can be checked against the import namespace.
func (c *Compiler) declareImports(imports []ImportedSymbol) bool {
	ok := true
	for _, sym := range imports {
		if !c.declareImport(sym) {
			ok = false
		}
	}
	return ok
}
