// Package errors formats compiler diagnostics as "path:row:col: message"
// and halts compilation on the first one, per the no-recovery design.
package errors

import (
	"fmt"
	"strings"

	"github.com/corelang/corec/internal/lexer"
)

// Kind classifies a diagnostic. All kinds are fatal.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindUnresolvedIdentifier
	KindTypeMismatch
	KindArityMismatch
	KindPatternMatchFailure
	KindOperatorNotFound
	KindExhaustiveness
	KindControlFlowMisuse
	KindIntrinsicMisuse
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindUnresolvedIdentifier:
		return "unresolved identifier"
	case KindTypeMismatch:
		return "type mismatch"
	case KindArityMismatch:
		return "arity mismatch"
	case KindPatternMatchFailure:
		return "pattern match failure"
	case KindOperatorNotFound:
		return "operator not found"
	case KindExhaustiveness:
		return "exhaustiveness"
	case KindControlFlowMisuse:
		return "control-flow misuse"
	case KindIntrinsicMisuse:
		return "intrinsic misuse"
	default:
		return "error"
	}
}

// Diagnostic is a single fatal compiler error with position and source
// context, used for every error kind in every pass.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     lexer.Position
	Source  string // the full text of the file Pos is in, for context lines
}

// New builds a Diagnostic.
func New(kind Kind, pos lexer.Position, source, message string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Pos:     pos,
		Source:  source,
		Message: fmt.Sprintf(message, args...),
	}
}

// Error implements the error interface with the "path:row:col: message"
// format required by spec §6.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Pos.String(), d.Message)
}

// Format renders the diagnostic with a source line and a caret pointing
// at the offending column, for terminal output.
func (d *Diagnostic) Format() string {
	var sb strings.Builder
	sb.WriteString(d.Error())

	line := sourceLine(d.Source, d.Pos.Line)
	if line != "" {
		sb.WriteString("\n")
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := d.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		sb.WriteString("^")
	}
	return sb.String()
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Fatal is the error type panicked by every pass on its first diagnostic.
// The driver recovers it, prints Format(), and exits 1 (spec §6, §7).
type Fatal struct {
	*Diagnostic
}

// Raise panics with a Fatal wrapping the given diagnostic; this is the
// single halting mechanism every pass uses (no diagnostic recovery).
func Raise(kind Kind, pos lexer.Position, source, message string, args ...any) {
	panic(Fatal{New(kind, pos, source, message, args...)})
}
