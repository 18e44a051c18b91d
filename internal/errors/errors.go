// Package errors formats compiler diagnostics (parse errors and semantic
// errors from the IR compiler alike) with source context, line/column
// information and a caret pointing at the offending column, mirroring the
// teacher's internal/errors package.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/myscript/internal/lexer"
)

// CompilerError is a single diagnostic tied to a source position.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New builds a CompilerError.
func New(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source line and caret. If color is true,
// ANSI codes highlight the caret and message.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", e.Pos.Line, e.Pos.Column))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FromPositions pairs each position with the message at the same index in
// messages, building CompilerErrors bound to the given source/file, so the
// CLI can format parse and semantic diagnostics identically.
func FromPositions(positions []lexer.Position, messages []string, source, file string) []*CompilerError {
	out := make([]*CompilerError, 0, len(positions))
	for i, pos := range positions {
		out = append(out, New(pos, messages[i], source, file))
	}
	return out
}

// FormatAll renders a batch of errors separated by blank lines, the form
// the CLI prints to stderr.
func FormatAll(errs []*CompilerError, color bool) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Format(color))
	}
	return strings.Join(parts, "\n\n")
}
