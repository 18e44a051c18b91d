package parser

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lexer"
)

// ParseProgram repeatedly accepts statements, function definitions, or
// imports until end of input. Any
// other token is a "statement expected" error.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Arena: p.arena}

	for p.cur.Kind != lexer.EOF {
		switch {
		case p.curIs(lexer.Keyword, "function"):
			r := p.parseFunction()
			if r.Outcome == Success {
				prog.Functions = append(prog.Functions, r.Node)
			} else if r.Outcome == CommittedError {
				return prog
			}

		case p.curIs(lexer.Keyword, "import"):
			r := p.parseImport()
			if r.Outcome == CommittedError {
				return prog
			}

		default:
			r := p.parseStatement()
			switch r.Outcome {
			case Success:
				prog.TopLevel = append(prog.TopLevel, r.Node)
			case CommittedError:
				return prog
			case NotMine:
				p.errorf(p.cur.Pos, "statement expected")
				return prog
			}
		}
	}

	return prog
}
