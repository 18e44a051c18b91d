package cmd

import (
	"testing"

	"github.com/cwbudde/myscript/pkg/myscript"
	"github.com/tidwall/gjson"
)

func TestSymbolTableJSONListsExportedFunctions(t *testing.T) {
	src := `
function add(int a, int b) : int
  return a + b;
end
`
	ctx := myscript.NewContext()
	script, err := ctx.Compile("symtest", []byte(src), nil)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	defer script.Close()

	out, err := symbolTableJSON(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := gjson.Get(out, "0.name")
	if result.String() != "add" {
		t.Errorf("expected first symbol name \"add\", got %q (json: %s)", result.String(), out)
	}

	addr := gjson.Get(out, "0.address")
	if addr.Int() == 0 {
		t.Errorf("expected a non-zero resolved address, got %s", out)
	}
}
