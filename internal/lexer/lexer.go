// Package lexer implements the MyScript lexer (component C3): a byte
// stream to token stream scanner with source positions. All state lives in
// the Lexer's index fields, so Next is stateless between calls beyond
// that index —'s "Stateless between calls" rule.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/myscript/internal/lang"
)

// Lexer scans MyScript source text into Tokens.
type Lexer struct {
	input    string
	position int // start of the rune at l.ch
	readPos  int // start of the next rune
	line     int
	column   int
	ch       rune
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.position = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.ch = r
	l.position = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.column}
}

func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\v' || ch == '\f'
}

// Next scans and returns the next token, advancing the lexer. At end of
// input it returns a token of kind EOF forever after.
func (l *Lexer) Next() Token {
	start := l.position
	pos := l.currentPos()

	switch {
	case l.ch == 0:
		return Token{Kind: EOF, Text: "", SourceIndex: start, Length: 0, Pos: pos}

	case isSpace(l.ch):
		for isSpace(l.ch) {
			l.readChar()
		}
		return Token{Kind: Whitespace, Text: l.input[start:l.position], SourceIndex: start, Length: l.position - start, Pos: pos}

	case isLetter(l.ch):
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.position]
		return Token{Kind: classifyWord(text), Text: text, SourceIndex: start, Length: len(text), Pos: pos}

	case isDigit(l.ch):
		return l.scanNumber(start, pos)

	case l.ch == '"':
		return l.scanString(start, pos)

	case l.ch == '/' && l.peekChar() == '/':
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		text := l.input[start:l.position]
		return Token{Kind: Comment, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
	}

	if tok, ok := l.scanOperator(start, pos); ok {
		return tok
	}

	// Fallback: one byte (really one rune) as Unknown.
	l.readChar()
	text := l.input[start:l.position]
	return Token{Kind: Unknown, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
}

// classifyWord reclassifies an identifier-shaped lexeme into Boolean,
// Keyword or Identifier.
func classifyWord(text string) Kind {
	if text == "true" || text == "false" {
		return Boolean
	}
	if lang.IsKeyword(text) {
		return Keyword
	}
	return Identifier
}

func (l *Lexer) scanNumber(start int, pos Position) Token {
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar() // '0'
		l.readChar() // 'x'
		for isHexDigit(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.position]
		return Token{Kind: Integer, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // '.'
		for isDigit(l.ch) {
			l.readChar()
		}
		text := l.input[start:l.position]
		return Token{Kind: Decimal, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
	}
	text := l.input[start:l.position]
	return Token{Kind: Integer, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
}

// scanString consumes a string literal, including its delimiting quotes, up
// to an unescaped closing quote or end of input. An unterminated string
// (ran to EOF without a closing quote) is still returned as a String token;
// the parser is responsible for rejecting it with a syntax error, since the
// lexer never fails.
func (l *Lexer) scanString(start int, pos Position) Token {
	l.readChar() // opening quote
	for l.ch != 0 {
		if l.ch == '\\' {
			l.readChar() // backslash
			if l.ch != 0 {
				l.readChar() // escaped char, consumed verbatim
			}
			continue
		}
		if l.ch == '"' {
			l.readChar() // closing quote
			break
		}
		l.readChar()
	}
	text := l.input[start:l.position]
	return Token{Kind: String, Text: text, SourceIndex: start, Length: len(text), Pos: pos}
}

// scanOperator performs a longest-match scan against lang.Operators plus
// the single-character punctuation the grammar needs that isn't itself a
// binary operator (parens, braces, comma, semicolon, colon, assign).
func (l *Lexer) scanOperator(start int, pos Position) (Token, bool) {
	// Try two-character operators before their one-character prefixes.
	if l.ch != 0 && l.peekChar() != 0 {
		two := string(l.ch) + string(l.peekChar())
		if _, ok := lang.Lookup(two); ok {
			l.readChar()
			l.readChar()
			return Token{Kind: OperatorTok, Text: two, SourceIndex: start, Length: 2, Pos: pos}, true
		}
	}

	one := string(l.ch)
	if _, ok := lang.Lookup(one); ok {
		l.readChar()
		return Token{Kind: OperatorTok, Text: one, SourceIndex: start, Length: 1, Pos: pos}, true
	}

	if strings.ContainsRune("(){}[],;:=.", l.ch) {
		l.readChar()
		return Token{Kind: OperatorTok, Text: one, SourceIndex: start, Length: 1, Pos: pos}, true
	}

	return Token{}, false
}
