package compiler

import (
	"strings"
	"testing"

	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	arena := &ast.Arena{}
	p := parser.New(src, arena)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestCompileHelloString(t *testing.T) {
	src := `
function GetAuthorName() : string
  return "Ada Lovelace";
end
`
	prog := parseProgram(t, src)
	c := New("hello", src, "hello.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}

	ir := c.Module().String()
	if !strings.Contains(ir, "hello::GetAuthorName") {
		t.Errorf("IR missing mangled function name:\n%s", ir)
	}
	if !strings.Contains(ir, "hello::$") {
		t.Errorf("IR missing module entrypoint:\n%s", ir)
	}
}

func TestCompileArithmeticPromotion(t *testing.T) {
	src := `
function mix() : float
  int a = 2;
  float b = 1.5;
  return a + b;
end
`
	prog := parseProgram(t, src)
	c := New("m", src, "m.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}
	ir := c.Module().String()
	if !strings.Contains(ir, "sitofp") {
		t.Errorf("expected an int->float promotion cast in IR:\n%s", ir)
	}
}

func TestCompileUnreachableReturnRejected(t *testing.T) {
	src := `
function g() : int
  if (true) then
    return 1;
  else
    return 2;
  end
  return 3;
end
`
	prog := parseProgram(t, src)
	c := New("u", src, "u.ms")
	if c.Compile(prog) {
		t.Fatalf("expected the unreachable trailing return to be rejected")
	}
}

func TestCompileWhileWithBreak(t *testing.T) {
	src := `
function h() : int
  int i = 0;
  while (i < 10) do
    if (i == 5) then break; end
    i = i + 1;
  end
  return i;
end
`
	prog := parseProgram(t, src)
	c := New("w", src, "w.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}
}

func TestCompileStringAssignmentRefcount(t *testing.T) {
	src := `
string s = "a";
s = "b";
`
	prog := parseProgram(t, src)
	c := New("s", src, "s.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}
	ir := c.Module().String()
	if !strings.Contains(ir, "hdldec") {
		t.Errorf("expected a decrement of the old handle on reassignment:\n%s", ir)
	}
}

func TestCompileAndOrCoerceEachOperandIndependently(t *testing.T) {
	src := `
function both(int a, float b) : bool
  return a and b;
end
`
	prog := parseProgram(t, src)
	c := New("b", src, "b.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}
	ir := c.Module().String()
	if !strings.Contains(ir, "icmp") || !strings.Contains(ir, "fcmp") {
		t.Errorf("expected both an integer and a float nonzero-test, one per operand's own type:\n%s", ir)
	}
}

func TestCompileIllegalReturnAtTopLevel(t *testing.T) {
	src := `return 1;`
	prog := parseProgram(t, src)
	c := New("top", src, "top.ms")
	if c.Compile(prog) {
		t.Fatal("expected a top-level return to be rejected")
	}
	if err := c.FirstError(); err == nil || !strings.Contains(err.Message, "illegal return") {
		t.Errorf("expected an illegal-return error, got %v", err)
	}
}

func TestCompileRedefinitionRejected(t *testing.T) {
	src := `
int x = 1;
int x = 2;
`
	prog := parseProgram(t, src)
	c := New("dup", src, "dup.ms")
	if c.Compile(prog) {
		t.Fatal("expected redefinition to be rejected")
	}
}

func TestCompileImportedFunctionCallProjectsStringToRawPointer(t *testing.T) {
	src := `
function main() : void
  log("hi");
end
`
	prog := parseProgram(t, src)
	c := New("host", src, "host.ms")
	imports := []ImportedSymbol{
		{
			Name:           "log",
			Kind:           ImportFunction,
			ReturnType:     lang.Void,
			ParamTypes:     []lang.Type{lang.String},
			RawStringParam: []bool{true},
			CallConv:       lang.CDecl,
		},
	}
	if !c.CompileWithImports(prog, imports) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}
	ir := c.Module().String()
	if !strings.Contains(ir, "host::log") {
		t.Errorf("IR missing mangled import declaration:\n%s", ir)
	}
	if !strings.Contains(ir, "strgetptr") {
		t.Errorf("expected a strgetptr projection before the call:\n%s", ir)
	}
}

func TestCompileImportRedefinitionRejected(t *testing.T) {
	src := `function log(string s) : void end`
	prog := parseProgram(t, src)
	c := New("dup", src, "dup.ms")
	imports := []ImportedSymbol{
		{Name: "log", Kind: ImportFunction, ReturnType: lang.Void, ParamTypes: []lang.Type{lang.String}},
	}
	if c.CompileWithImports(prog, imports) {
		t.Fatal("expected a script function colliding with an import name to be rejected")
	}
}

func TestCompileGlobalNonConstantInitializerRejected(t *testing.T) {
	src := `
function one() : int
  return 1;
end
int x = one();
`
	prog := parseProgram(t, src)
	c := New("g", src, "g.ms")
	if c.Compile(prog) {
		t.Fatal("expected a non-constant global initializer to be rejected")
	}
}
