// Package errors formats scmgo's error kinds with source context: the
// file and position, the offending source line, and a caret pointing at
// the column, following the teacher compiler's diagnostic style.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/scmgo/internal/lexer"
)

// Kind classifies an Error per the propagation policy: SyntaxError covers
// reader and expander failures; UnboundSymbol covers failed lookups and
// set!; TypeError covers coercion/callability failures; ArityError covers
// argument-count mismatches; AssertionFailed is raised by assert;
// IoError comes from the file-system accessor; MacroError covers
// malformed define-macro.
type Kind int

const (
	SyntaxError Kind = iota
	UnboundSymbol
	TypeError
	ArityError
	AssertionFailed
	IoError
	MacroError
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnboundSymbol:
		return "UnboundSymbol"
	case TypeError:
		return "TypeError"
	case ArityError:
		return "ArityError"
	case AssertionFailed:
		return "AssertionFailed"
	case IoError:
		return "IoError"
	case MacroError:
		return "MacroError"
	default:
		return "Error"
	}
}

// Error is scmgo's single error type, tagged with a Kind and, where
// feasible, positioned against the source for diagnostics (§7: "errors
// carry a short message and, where feasible, the printed form of the
// offending expression").
type Error struct {
	Kind    Kind
	Message string
	Expr    string // printed form of the offending expression, if known
	Source  string // full source text, for caret formatting; may be empty
	File    string
	Pos     lexer.Position
	HasPos  bool
}

// New creates an Error with no position information attached.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPos returns a copy of e with position and source context attached.
func (e *Error) WithPos(pos lexer.Position, source, file string) *Error {
	cp := *e
	cp.Pos = pos
	cp.HasPos = true
	cp.Source = source
	cp.File = file
	return &cp
}

// WithExpr returns a copy of e annotated with the printed form of the
// offending expression.
func (e *Error) WithExpr(printed string) *Error {
	cp := *e
	cp.Expr = printed
	return &cp
}

// Error implements the error interface with a one-line, caret-free
// rendering; use Format for the full diagnostic.
func (e *Error) Error() string {
	msg := e.Message
	if e.Expr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Expr)
	}
	if e.HasPos {
		if e.File != "" {
			return fmt.Sprintf("%s: %s at %s:%s", e.Kind, msg, e.File, e.Pos)
		}
		return fmt.Sprintf("%s: %s at %s", e.Kind, msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Format renders the full diagnostic: a header, the offending source
// line (if known), and a caret under the column.
func (e *Error) Format() string {
	var sb strings.Builder

	if e.HasPos {
		if e.File != "" {
			fmt.Fprintf(&sb, "%s in %s:%s: %s\n", e.Kind, e.File, e.Pos, e.Message)
		} else {
			fmt.Fprintf(&sb, "%s at %s: %s\n", e.Kind, e.Pos, e.Message)
		}

		if line := sourceLine(e.Source, e.Pos.Line); line != "" {
			prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			sb.WriteString("^\n")
		}
	} else {
		fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Message)
	}

	if e.Expr != "" {
		fmt.Fprintf(&sb, "  in: %s\n", e.Expr)
	}

	return strings.TrimRight(sb.String(), "\n")
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
