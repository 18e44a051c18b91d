package myscript

import "testing"

func TestCompileAndEnumerateExports(t *testing.T) {
	src := `
function add(int a, int b) : int
  return a + b;
end
`
	ctx := NewContext()
	script, err := ctx.Compile("arith", []byte(src), nil)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	defer script.Close()

	enum, ok := script.GetFirstSymbol()
	if !ok {
		t.Fatal("expected at least one exported symbol")
	}
	sym, ok := enum.GetNextSymbol()
	if !ok || sym.Name != "add" {
		t.Fatalf("expected exported symbol %q, got %+v (ok=%v)", "add", sym, ok)
	}
	if _, ok := enum.GetNextSymbol(); ok {
		t.Fatal("expected enumeration to be exhausted after the one export")
	}
}

func TestCompileSyntaxErrorReportsPosition(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.Compile("bad", []byte("int x = ;"), nil)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if se.ModuleName != "bad" || se.Line < 1 {
		t.Errorf("unexpected syntax error payload: %+v", se)
	}
}

func TestExecuteRunsEntrypoint(t *testing.T) {
	src := `int x = 1;`
	ctx := NewContext()
	script, err := ctx.Compile("run", []byte(src), nil)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	defer script.Close()

	ctx.Execute(script)
}
