package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/compiler"
	"github.com/cwbudde/myscript/internal/parser"
	"github.com/spf13/cobra"
)

var (
	compileImportsFile string
	compileInlineInput string
	compileDumpAST     bool
	compileDumpIR      bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a script without running it",
	Long: `compile parses and semantically checks a script, reporting any
syntax or compile errors, without JIT-linking or executing it. With
--dump-ast or --dump-ir, prints the parsed syntax tree or the generated
LLVM IR instead.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		moduleName, source := readScriptArg(args, compileInlineInput)

		imports, err := loadImportManifest(compileImportsFile)
		if err != nil {
			exitWithError("loading %s: %v", compileImportsFile, err)
		}

		arena := &ast.Arena{}
		p := parser.New(source, arena)
		prog := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			first := errs[0]
			fmt.Fprintf(os.Stderr, "Error in %s:%d:%d\n", moduleName, first.Pos.Line, first.Pos.Column)
			fmt.Fprintln(os.Stderr, first.Message)
			os.Exit(1)
		}

		if compileDumpAST {
			dumpProgram(prog)
		}

		comp := compiler.New(moduleName, source, moduleName)
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
			for _, e := range comp.Errors() {
				fmt.Fprintln(os.Stderr, e.Format(false))
			}
			os.Exit(1)
		}

		if compileDumpIR {
			fmt.Println(comp.Module().String())
		}
	},
}

func dumpProgram(prog *ast.Program) {
	for _, fn := range prog.Functions {
		dumpNode(fn, 0)
	}
	for _, stmt := range prog.TopLevel {
		dumpNode(stmt, 0)
	}
}

func dumpNode(n *ast.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s", indent, n.Kind)
	switch n.Kind {
	case ast.KName, ast.KAssignment, ast.KCall, ast.KFunction:
		fmt.Printf(" %s", n.Name)
	case ast.KInt:
		fmt.Printf(" %d", n.IntVal)
	case ast.KFloat:
		fmt.Printf(" %f", n.FloatVal)
	case ast.KBool:
		fmt.Printf(" %t", n.BoolVal)
	case ast.KBinaryOp:
		fmt.Printf(" %v", n.Op)
	}
	fmt.Println()

	for _, p := range n.Params {
		fmt.Printf("%s  param %s %s\n", indent, p.Type, p.Name)
	}
	if n.Expr != nil {
		dumpNode(n.Expr, depth+1)
	}
	if n.LHS != nil {
		dumpNode(n.LHS, depth+1)
	}
	if n.RHS != nil {
		dumpNode(n.RHS, depth+1)
	}
	for _, a := range n.Args {
		dumpNode(a, depth+1)
	}
	for _, s := range n.Body {
		dumpNode(s, depth+1)
	}
	for _, s := range n.Else {
		dumpNode(s, depth+1)
	}
}

func init() {
	compileCmd.Flags().StringVar(&compileImportsFile, "imports", "", "YAML manifest of host imports to declare")
	compileCmd.Flags().StringVarP(&compileInlineInput, "eval", "e", "", "compile an inline snippet instead of a file")
	compileCmd.Flags().BoolVar(&compileDumpAST, "dump-ast", false, "print the parsed syntax tree")
	compileCmd.Flags().BoolVar(&compileDumpIR, "dump-ir", false, "print the generated LLVM IR")
	rootCmd.AddCommand(compileCmd)
}
