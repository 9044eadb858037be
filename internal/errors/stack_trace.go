package errors

import (
	"strings"

	"github.com/corelang/corec/internal/lexer"
)

// StackFrame is one call-frame entry of a StackTrace: the function name
// and the position of the call.
type StackFrame struct {
	FunctionName string
	Pos          lexer.Position
}

func (sf StackFrame) String() string {
	return sf.FunctionName + " [" + sf.Pos.String() + "]"
}

// StackTrace is a call stack, oldest frame first.
type StackTrace []StackFrame

// String renders the trace newest-frame-first, matching how a developer
// reads a crash report.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WithTrace attaches a call-stack trace to a diagnostic's message.
// Nothing in this module calls it; the evaluator's diagnostics carry no
// trace.
func WithTrace(d *Diagnostic, trace StackTrace) *Diagnostic {
	if len(trace) == 0 {
		return d
	}
	d.Message = d.Message + "\n" + trace.String()
	return d
}
