package compiler

import (
	"sort"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestCompileSignaturesSnapshot pins the set of function declarations and
// definitions a small script compiles to. It snapshots only the "define"/
// "declare" signature lines (sorted), not the full IR text, since the
// full module string also carries LLVM-context-specific details (type
// table ordering, etc.) that aren't part of what this test cares about
// staying stable.
func TestCompileSignaturesSnapshot(t *testing.T) {
	src := `
function add(int a, int b) : int
  return a + b;
end

function greet(string name) : string
  return strcat("Hello, ", name);
end

add(1, 2);
`
	prog := parseProgram(t, src)
	c := New("snap", src, "snap.ms")
	if !c.Compile(prog) {
		t.Fatalf("unexpected compile errors: %v", c.Errors())
	}

	ir := c.Module().String()
	var sigs []string
	for _, line := range strings.Split(ir, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "define ") || strings.HasPrefix(trimmed, "declare ") {
			if idx := strings.Index(trimmed, "{"); idx != -1 {
				trimmed = strings.TrimSpace(trimmed[:idx])
			}
			sigs = append(sigs, trimmed)
		}
	}
	sort.Strings(sigs)

	snaps.MatchSnapshot(t, "signatures", strings.Join(sigs, "\n"))
}
