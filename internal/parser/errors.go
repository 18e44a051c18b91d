package parser

import (
	"fmt"

	"github.com/cwbudde/myscript/internal/lexer"
)

// SyntaxError is one reported parse failure: its 1-origin line/column and
// a message. It does not carry the module name; the compile pipeline adds
// that when it builds the host-facing error.
type SyntaxError struct {
	Pos     lexer.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return e.Message
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...any) Result {
	p.errors = append(p.errors, &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)})
	return committed()
}

// Errors returns every syntax error recorded so far. The caller (the
// compile pipeline) is responsible for delivering each through the
// syntax-error callback; first-error-stops is acceptable,
// but the parser itself does not stop early — it keeps accumulating so the
// "not mine" statement-level recovery can make progress.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}
