package parser

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/lexer"
)

// parseFunction parses `function <name>(<type> <arg>, ...) [: <return-type>]
// stmt* end`. An omitted return type defaults to Void.
func (p *Parser) parseFunction() Result {
	fnTok := p.cur
	p.advance() // consume 'function'

	if p.cur.Kind != lexer.Identifier {
		return p.errorf(p.cur.Pos, "expected function name")
	}
	nameTok := p.cur
	p.advance()

	if !p.curIs(lexer.OperatorTok, "(") {
		return p.errorf(p.cur.Pos, "expected '(' after function name")
	}
	p.advance()

	var params []ast.Param
	if !p.curIs(lexer.OperatorTok, ")") {
		for {
			if p.cur.Kind != lexer.Keyword || !lang.IsBuiltinTypeName(p.cur.Text) {
				return p.errorf(p.cur.Pos, "expected parameter type")
			}
			pt, _ := lang.TypeByName(p.cur.Text)
			p.advance()

			if p.cur.Kind != lexer.Identifier {
				return p.errorf(p.cur.Pos, "expected parameter name")
			}
			params = append(params, ast.Param{Type: pt, Name: p.cur.Text})
			p.advance()

			if p.curIs(lexer.OperatorTok, ",") {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.curIs(lexer.OperatorTok, ")") {
		return p.errorf(p.cur.Pos, "expected ')' to close parameter list")
	}
	p.advance()

	returnType := lang.Void
	if p.curIs(lexer.OperatorTok, ":") {
		p.advance()
		if p.cur.Kind != lexer.Keyword || !lang.IsBuiltinTypeName(p.cur.Text) {
			return p.errorf(p.cur.Pos, "expected return type after ':'")
		}
		returnType, _ = lang.TypeByName(p.cur.Text)
		p.advance()
	}

	n := p.arena.New()
	n.Kind = ast.KFunction
	n.Pos = fnTok.Pos
	n.Name = nameTok.Text
	n.ReturnType = returnType
	n.Params = params
	n.Body = p.parseBlock("end")

	if !p.curIs(lexer.Keyword, "end") {
		return p.errorf(p.cur.Pos, "expected 'end' to close function %q", nameTok.Text)
	}
	p.advance()

	return ok(n)
}

// parseImport parses `import "<string>";`. It is reserved for future use
// and produces no AST node.
func (p *Parser) parseImport() Result {
	p.advance() // consume 'import'
	if p.cur.Kind != lexer.String {
		return p.errorf(p.cur.Pos, "expected string literal after 'import'")
	}
	p.advance()
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after import")
	}
	p.advance()
	return Result{Outcome: Success, Node: nil}
}
