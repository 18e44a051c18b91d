package parser

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/lexer"
)

// parseStatement dispatches on the leading token: the keyword statements
// (If, While, Return, Break, Continue) first, then a declaration on a type
// keyword, then on an identifier a Call statement and, failing that, a
// re-assignment.
func (p *Parser) parseStatement() Result {
	switch {
	case p.curIs(lexer.Keyword, "if"):
		return p.parseIf()
	case p.curIs(lexer.Keyword, "while"):
		return p.parseWhile()
	case p.curIs(lexer.Keyword, "return"):
		return p.parseReturn()
	case p.curIs(lexer.Keyword, "break"):
		return p.parseBreak()
	case p.curIs(lexer.Keyword, "continue"):
		return p.parseContinue()
	}

	if p.cur.Kind == lexer.Keyword && lang.IsBuiltinTypeName(p.cur.Text) {
		return p.parseDeclaration()
	}

	if p.cur.Kind == lexer.Identifier {
		if r := p.tryParseCallStatement(); r.Outcome != NotMine {
			return r
		}
		if r := p.tryParseReassignment(); r.Outcome != NotMine {
			return r
		}
	}

	return notMine()
}

// parseBlock parses zero or more statements until the current token is one
// of the given stop words (matched as Keyword tokens) or end of input. A
// token that starts no known statement is a committed "statement expected"
// error; the block stops there so the caller can still close out its own
// delimiters without looping forever on unrecognized input.
func (p *Parser) parseBlock(stopWords ...string) []*ast.Node {
	var stmts []*ast.Node
	for {
		if p.cur.Kind == lexer.EOF {
			return stmts
		}
		if p.cur.Kind == lexer.Keyword {
			for _, w := range stopWords {
				if p.cur.Text == w {
					return stmts
				}
			}
		}
		r := p.parseStatement()
		switch r.Outcome {
		case Success:
			stmts = append(stmts, r.Node)
		case CommittedError:
			return stmts
		case NotMine:
			p.errorf(p.cur.Pos, "statement expected")
			return stmts
		}
	}
}

func (p *Parser) tryParseCallStatement() Result {
	m := p.save()
	r := p.tryParseCall()
	if r.Outcome == NotMine {
		p.rewind(m)
		return notMine()
	}
	if r.Outcome == CommittedError {
		return r
	}
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after call statement")
	}
	p.advance()
	return r
}

func (p *Parser) tryParseReassignment() Result {
	m := p.save()
	nameTok := p.cur
	p.advance() // consume identifier
	if !p.curIs(lexer.OperatorTok, "=") {
		p.rewind(m)
		return notMine()
	}
	p.advance() // consume '='

	exprR := p.parseExpression(0)
	if exprR.Failed() {
		return p.errorf(p.cur.Pos, "expected expression in assignment to %q", nameTok.Text)
	}
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after assignment")
	}
	p.advance()

	n := p.arena.New()
	n.Kind = ast.KAssignment
	n.Pos = nameTok.Pos
	n.Name = nameTok.Text
	n.DeclType = lang.Void // Void marks "already declared" (re-assignment)
	n.Expr = exprR.Node
	return ok(n)
}

// parseDeclaration parses `<type> <name> = <expr>;`. A missing '=' (i.e.
// `<type> <name>;`) is rejected: declaration without an
// initializer is not supported.
func (p *Parser) parseDeclaration() Result {
	typeTok := p.cur
	declType, _ := lang.TypeByName(typeTok.Text)
	p.advance() // consume type keyword

	if p.cur.Kind != lexer.Identifier {
		return p.errorf(p.cur.Pos, "expected identifier after type %q", typeTok.Text)
	}
	nameTok := p.cur
	p.advance() // consume name

	if !p.curIs(lexer.OperatorTok, "=") {
		return p.errorf(p.cur.Pos, "'=' expected")
	}
	p.advance() // consume '='

	exprR := p.parseExpression(0)
	if exprR.Failed() {
		return p.errorf(p.cur.Pos, "expected initializer expression for %q", nameTok.Text)
	}
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after declaration of %q", nameTok.Text)
	}
	p.advance()

	n := p.arena.New()
	n.Kind = ast.KAssignment
	n.Pos = nameTok.Pos
	n.Name = nameTok.Text
	n.DeclType = declType
	n.Expr = exprR.Node
	return ok(n)
}

// parseIf parses `if (<expr>) then <body> [else <body>] end`.
func (p *Parser) parseIf() Result {
	ifTok := p.cur
	p.advance() // consume 'if'

	if !p.curIs(lexer.OperatorTok, "(") {
		return p.errorf(p.cur.Pos, "expected '(' after 'if'")
	}
	p.advance()

	condR := p.parseExpression(0)
	if condR.Failed() {
		return p.errorf(p.cur.Pos, "expected condition expression")
	}
	if !p.curIs(lexer.OperatorTok, ")") {
		return p.errorf(p.cur.Pos, "expected ')' after if condition")
	}
	p.advance()

	if !p.curIs(lexer.Keyword, "then") {
		return p.errorf(p.cur.Pos, "expected 'then'")
	}
	p.advance()

	n := p.arena.New()
	n.Kind = ast.KIf
	n.Pos = ifTok.Pos
	n.Expr = condR.Node
	n.Body = p.parseBlock("else", "end")

	if p.curIs(lexer.Keyword, "else") {
		p.advance()
		n.Else = p.parseBlock("end")
	}

	if !p.curIs(lexer.Keyword, "end") {
		return p.errorf(p.cur.Pos, "expected 'end' to close 'if'")
	}
	p.advance()

	return ok(n)
}

// parseWhile parses `while (<expr>) do <body> end`.
func (p *Parser) parseWhile() Result {
	whileTok := p.cur
	p.advance() // consume 'while'

	if !p.curIs(lexer.OperatorTok, "(") {
		return p.errorf(p.cur.Pos, "expected '(' after 'while'")
	}
	p.advance()

	condR := p.parseExpression(0)
	if condR.Failed() {
		return p.errorf(p.cur.Pos, "expected condition expression")
	}
	if !p.curIs(lexer.OperatorTok, ")") {
		return p.errorf(p.cur.Pos, "expected ')' after while condition")
	}
	p.advance()

	if !p.curIs(lexer.Keyword, "do") {
		return p.errorf(p.cur.Pos, "expected 'do'")
	}
	p.advance()

	n := p.arena.New()
	n.Kind = ast.KWhile
	n.Pos = whileTok.Pos
	n.Expr = condR.Node
	n.Body = p.parseBlock("end")

	if !p.curIs(lexer.Keyword, "end") {
		return p.errorf(p.cur.Pos, "expected 'end' to close 'while'")
	}
	p.advance()

	return ok(n)
}

func (p *Parser) parseReturn() Result {
	retTok := p.cur
	p.advance() // consume 'return'

	exprR := p.parseExpression(0)
	if exprR.Failed() {
		return p.errorf(p.cur.Pos, "expected expression after 'return'")
	}
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after return statement")
	}
	p.advance()

	n := p.arena.New()
	n.Kind = ast.KReturn
	n.Pos = retTok.Pos
	n.Expr = exprR.Node
	return ok(n)
}

func (p *Parser) parseBreak() Result {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after 'break'")
	}
	p.advance()
	n := p.arena.New()
	n.Kind = ast.KBreak
	n.Pos = tok.Pos
	return ok(n)
}

func (p *Parser) parseContinue() Result {
	tok := p.cur
	p.advance()
	if !p.curIs(lexer.OperatorTok, ";") {
		return p.errorf(p.cur.Pos, "expected ';' after 'continue'")
	}
	p.advance()
	n := p.arena.New()
	n.Kind = ast.KContinue
	n.Pos = tok.Pos
	return ok(n)
}
