package parser

import (
	"unicode/utf16"

	"github.com/cwbudde/myscript/internal/ast"
	"github.com/cwbudde/myscript/internal/lang"
	"github.com/cwbudde/myscript/internal/lexer"
)

// operatorAt returns the Operator table entry for tok, if tok spells one.
// Binary operators surface either as OperatorTok ("+", "==", ...) or, for
// "and"/"or", as Keyword tokens — both are looked up the same way since
// lang.Operators is keyed purely by symbol text.
func operatorAt(tok lexer.Token) (lang.Operator, bool) {
	if tok.Kind != lexer.OperatorTok && tok.Kind != lexer.Keyword {
		return lang.Operator{}, false
	}
	return lang.Lookup(tok.Text)
}

// parseExpression implements precedence climbing: parse a
// simple expression, then repeatedly fold in a following binary operator
// whose precedence is strictly greater than minPrecedence, recursing with
// that operator's own precedence as the new minimum. The `<=` test in the
// loop termination (rather than `<`) is what makes same-precedence chains
// left-associative.
func (p *Parser) parseExpression(minPrecedence int) Result {
	left := p.parseSimple()
	if left.Failed() {
		return left
	}

	for {
		op, isOp := operatorAt(p.cur)
		if !isOp {
			return left
		}
		if op.Precedence <= minPrecedence {
			return left
		}

		opTok := p.cur
		p.advance()

		right := p.parseExpression(op.Precedence)
		if right.Failed() {
			return p.errorf(opTok.Pos, "expected expression after operator %q", op.Symbol)
		}

		node := p.arena.New()
		node.Kind = ast.KBinaryOp
		node.Pos = opTok.Pos
		node.Op = op
		node.LHS = left.Node
		node.RHS = right.Node
		left = ok(node)
	}
}

// parseSimple parses a literal, a parenthesized expression, a call, or a
// bare name reference.
func (p *Parser) parseSimple() Result {
	tok := p.cur

	switch {
	case tok.Kind == lexer.Keyword && tok.Text == "null":
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KNull
		n.Pos = tok.Pos
		return ok(n)

	case tok.Kind == lexer.Boolean:
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KBool
		n.Pos = tok.Pos
		n.BoolVal = tok.Text == "true"
		return ok(n)

	case tok.Kind == lexer.Integer:
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KInt
		n.Pos = tok.Pos
		n.IntVal = parseIntLiteral(tok.Text)
		return ok(n)

	case tok.Kind == lexer.Decimal:
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KFloat
		n.Pos = tok.Pos
		n.FloatVal = parseFloatLiteral(tok.Text)
		return ok(n)

	case tok.Kind == lexer.String:
		if len(tok.Text) < 2 || tok.Text[len(tok.Text)-1] != '"' {
			p.advance()
			return p.errorf(tok.Pos, "unterminated string literal")
		}
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KString
		n.Pos = tok.Pos
		n.StringVal = decodeStringLiteral(tok.Text)
		return ok(n)

	case tok.Kind == lexer.OperatorTok && tok.Text == "(":
		p.advance()
		inner := p.parseExpression(0)
		if inner.Failed() {
			return p.errorf(tok.Pos, "expected expression after '('")
		}
		if !p.curIs(lexer.OperatorTok, ")") {
			return p.errorf(p.cur.Pos, "expected ')'")
		}
		p.advance()
		return inner

	case tok.Kind == lexer.Identifier:
		if r := p.tryParseCall(); r.Outcome != NotMine {
			return r
		}
		// NotMine from call parsing: it's a bare name reference.
		p.advance()
		n := p.arena.New()
		n.Kind = ast.KName
		n.Pos = tok.Pos
		n.Name = tok.Text
		return ok(n)
	}

	return notMine()
}

// tryParseCall implements the Call-vs-Name disambiguation of:
// save position, consume the identifier, peek for '('. If absent, rewind
// and report NotMine so parseSimple falls through to a Name reference.
func (p *Parser) tryParseCall() Result {
	m := p.save()
	nameTok := p.cur
	p.advance() // consume identifier
	if !p.curIs(lexer.OperatorTok, "(") {
		p.rewind(m)
		return notMine()
	}
	p.advance() // consume '('

	n := p.arena.New()
	n.Kind = ast.KCall
	n.Pos = nameTok.Pos
	n.Name = nameTok.Text

	if !p.curIs(lexer.OperatorTok, ")") {
		for {
			arg := p.parseExpression(0)
			if arg.Failed() {
				return p.errorf(p.cur.Pos, "expected argument expression in call to %q", nameTok.Text)
			}
			n.Args = append(n.Args, arg.Node)
			if p.curIs(lexer.OperatorTok, ",") {
				p.advance()
				continue
			}
			break
		}
	}
	if !p.curIs(lexer.OperatorTok, ")") {
		return p.errorf(p.cur.Pos, "expected ')' to close call to %q", nameTok.Text)
	}
	p.advance()
	return ok(n)
}

func parseIntLiteral(text string) int32 {
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		var v int64
		for _, c := range text[2:] {
			v = v*16 + int64(hexDigitValue(c))
		}
		return int32(v)
	}
	var v int64
	for _, c := range text {
		v = v*10 + int64(c-'0')
	}
	return int32(v)
}

func hexDigitValue(c rune) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'a' && c <= 'f':
		return int64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int64(c-'A') + 10
	default:
		return 0
	}
}

// parseFloatLiteral implements decimal grammar directly:
// ipart + fpart/10^ndigits, with no exponent syntax.
func parseFloatLiteral(text string) float32 {
	dot := -1
	for i, c := range text {
		if c == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return float32(parseIntLiteral(text))
	}
	ipart := text[:dot]
	fpart := text[dot+1:]

	var iv int64
	for _, c := range ipart {
		iv = iv*10 + int64(c-'0')
	}
	var fv float64
	var scale float64 = 1
	for _, c := range fpart {
		fv = fv*10 + float64(c-'0')
		scale *= 10
	}
	return float32(float64(iv) + fv/scale)
}

// decodeStringLiteral evaluates the raw source text of a string literal
// (including its surrounding quotes and escapes, as the lexer hands it
// over verbatim) into a null-terminated slice of UTF-16 code units.
func decodeStringLiteral(raw string) []uint16 {
	// Strip delimiting quotes if present (an unterminated literal at EOF
	// may be missing its closing quote).
	body := raw
	if len(body) > 0 && body[0] == '"' {
		body = body[1:]
	}
	if len(body) > 0 && body[len(body)-1] == '"' {
		body = body[:len(body)-1]
	}

	var runes []rune
	r := []rune(body)
	for i := 0; i < len(r); i++ {
		if r[i] == '\\' && i+1 < len(r) {
			i++
			switch r[i] {
			case 'a':
				runes = append(runes, '\a')
			case 'b':
				runes = append(runes, '\b')
			case 'f':
				runes = append(runes, '\f')
			case 'n':
				runes = append(runes, '\n')
			case 'r':
				runes = append(runes, '\r')
			case 't':
				runes = append(runes, '\t')
			case 'v':
				runes = append(runes, '\v')
			case '\'':
				runes = append(runes, '\'')
			case '"':
				runes = append(runes, '"')
			case '\\':
				runes = append(runes, '\\')
			case '?':
				runes = append(runes, '?')
			default:
				// Any other \c emits c literally.
				runes = append(runes, r[i])
			}
			continue
		}
		runes = append(runes, r[i])
	}

	units := utf16.Encode(runes)
	units = append(units, 0)
	return units
}
