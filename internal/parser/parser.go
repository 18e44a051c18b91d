// Package parser implements the MyScript parser (component C4): recursive
// descent with operator-precedence climbing for expressions, producing an
// AST in a shared ast.Arena and reporting syntax errors with source
// positions.
package parser

import (
	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lexer"
)

// Parser turns a token stream into an AST. Whitespace and comments are
// filtered out before reaching cur/peek; line/column tracking for error
// messages rides on the token positions the lexer already computes.
type Parser struct {
	l      *lexer.Lexer
	arena  *ast.Arena
	cur    lexer.Token
	peek   lexer.Token
	errors []*SyntaxError
}

// New creates a Parser reading from src and allocating AST nodes in arena.
func New(src string, arena *ast.Arena) *Parser {
	p := &Parser{l: lexer.New(src), arena: arena}
	p.cur = p.nextSignificant()
	p.peek = p.nextSignificant()
	return p
}

// nextSignificant pulls tokens from the lexer until one that isn't
// Whitespace or Comment ("skipped before each
// token-match").
func (p *Parser) nextSignificant() lexer.Token {
	for {
		t := p.l.Next()
		if t.Kind != lexer.Whitespace && t.Kind != lexer.Comment {
			return t
		}
	}
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.nextSignificant()
}

func (p *Parser) curIs(kind lexer.Kind, text string) bool {
	return p.cur.Kind == kind && p.cur.Text == text
}

func (p *Parser) peekIs(kind lexer.Kind, text string) bool {
	return p.peek.Kind == kind && p.peek.Text == text
}

// mark is a saved parser position for backtracking (used by Call-vs-Name
// disambiguation, and more generally whenever a production must look ahead
// past tokens it may not end up consuming).
type mark struct {
	lexState lexer.Lexer
	cur      lexer.Token
	peek     lexer.Token
	errLen   int
}

func (p *Parser) save() mark {
	return mark{lexState: *p.l, cur: p.cur, peek: p.peek, errLen: len(p.errors)}
}

func (p *Parser) rewind(m mark) {
	*p.l = m.lexState
	p.cur = m.cur
	p.peek = m.peek
	p.errors = p.errors[:m.errLen]
}
