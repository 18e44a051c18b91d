package parser

import "github.com/cwbudde/myscript/internal/ast"

// Outcome is the parser's central discipline: every
// production reports one of three outcomes so a caller can tell "try the
// next alternative" from "a production committed and already reported an
// error". Modeling this as an explicit sum type, rather than returning nil
// or raising, is what keeps error messages both precise and non-spurious.
type Outcome int

const (
	// Success: an AST node was produced and the input was advanced past it.
	Success Outcome = iota
	// NotMine: the first token did not match this production; input is
	// unchanged. The caller may try an alternative production.
	NotMine
	// CommittedError: this production matched its leading token but the
	// input was syntactically invalid. An error has already been recorded
	// on the parser; the caller must not retry.
	CommittedError
)

// Result is the return value of every parsing production.
type Result struct {
	Outcome Outcome
	Node    *ast.Node
}

func ok(n *ast.Node) Result    { return Result{Outcome: Success, Node: n} }
func notMine() Result          { return Result{Outcome: NotMine} }
func committed() Result        { return Result{Outcome: CommittedError} }
func isTerminal(r Result) bool { return r.Outcome != NotMine }
func (r Result) Failed() bool  { return r.Outcome != Success }
