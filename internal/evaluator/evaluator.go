// Package evaluator implements the tree-walking interpreter the driver
// uses for `run { }` blocks (static-parameter folding is done by the
// elaborator's foldConstant, not here): a strict,
// single-threaded, deterministic walk over already-elaborated AST (spec
// §4.3, §5).
//
// Grounded on the teacher's internal/errors/stack_trace.go for the
// call-frame/StackTrace shape; non-local return is modeled as a
// recovered panic keyed by a frame id rather than a single global flag
// (spec §9, "explicit per-call-frame escape stack").
package evaluator

import (
	"fmt"
	"os"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/codegen"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// Frame is one call-frame on the evaluator's explicit stack, used both
// for diagnostics (spec's StackTrace) and as the escape-stack key for
// non-local `return`.
type Frame struct {
	Name string
	Pos  string
	id   int
}

// returnSignal is panicked by `return` and recovered by the call frame
// whose id matches, so a `return` inside a deeply nested block/loop
// unwinds straight to its owning call without needing a sentinel
// threaded through every evaluation function's result.
type returnSignal struct {
	frameID int
	value   *value.Value
}

// breakSignal is panicked by `break` and recovered by the innermost
// enclosing loop.
type breakSignal struct {
	loopID int
	value  *value.Value
}

// Env is a runtime scope: variable storage, parented for lexical
// lookup. Distinct from elaborator.Scope, which holds types; Env holds
// values.
type Env struct {
	parent *Env
	vars   map[string]*value.Value
}

// NewEnv opens a child environment of parent.
func NewEnv(parent *Env) *Env { return &Env{parent: parent, vars: map[string]*value.Value{}} }

// Get looks up name through the parent chain.
func (en *Env) Get(name string) (*value.Value, bool) {
	for cur := en; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set stores name in the nearest environment that already declares it,
// falling back to declaring it locally if none does.
func (en *Env) Set(name string, v *value.Value) {
	for cur := en; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	en.vars[name] = v
}

// Declare binds name in this environment specifically (shadowing any
// outer binding of the same name).
func (en *Env) Declare(name string, v *value.Value) { en.vars[name] = v }

// Evaluator walks elaborated AST, consulting the elaborator's side
// tables (TypeOf) when a node's runtime shape depends on its elaborated
// type (e.g. a Number literal's width).
type Evaluator struct {
	TypeOf func(ast.Node) *value.Value

	// ImportValue resolves an already-elaborated `import(path)` call to
	// its cached module value; wired by the driver, which owns file
	// resolution and mirrors (*elaborator.Elaborator).RegisterImport.
	ImportValue func(path string) *value.Value

	// EmbedExpr resolves an already-elaborated `embed(...)` call to the
	// expression parsed from its concatenated compile-time byte
	// arguments; wired by the driver to (*elaborator.Elaborator).EmbedExpr.
	EmbedExpr func(call *ast.Call) ast.Expression

	// Codegen answers size_of/c_*_size's platform-size queries (spec
	// §4.5); defaults to the host-platform oracle when the driver hasn't
	// registered a real backend.
	Codegen codegen.Codegen

	source string // full text of the file being evaluated, for Format()'s caret

	frames     []*Frame
	loopStack  []int
	nextFrame  int
	nextLoopID int
	out        *os.File
}

// New builds an Evaluator. typeOf is usually (*elaborator.Elaborator).TypeOf,
// kept as a function value to avoid importing internal/elaborator from
// here (the elaborator depends on nothing evaluator-specific, and the
// driver is the only package that needs both). source is the file text
// being evaluated, threaded through to runtime-fault diagnostics the
// same way the elaborator threads its own.
func New(typeOf func(ast.Node) *value.Value, source string) *Evaluator {
	return &Evaluator{TypeOf: typeOf, source: source, out: os.Stdout, Codegen: codegen.Native()}
}

func (ev *Evaluator) pushFrame(name, pos string) *Frame {
	ev.nextFrame++
	f := &Frame{Name: name, Pos: pos, id: ev.nextFrame}
	ev.frames = append(ev.frames, f)
	return f
}

func (ev *Evaluator) popFrame() { ev.frames = ev.frames[:len(ev.frames)-1] }

func (ev *Evaluator) currentFrameID() int {
	if len(ev.frames) == 0 {
		return 0
	}
	return ev.frames[len(ev.frames)-1].id
}

func (ev *Evaluator) pushLoop() int {
	ev.nextLoopID++
	id := ev.nextLoopID
	ev.loopStack = append(ev.loopStack, id)
	return id
}

func (ev *Evaluator) popLoop() { ev.loopStack = ev.loopStack[:len(ev.loopStack)-1] }

func (ev *Evaluator) currentLoopID() int {
	if len(ev.loopStack) == 0 {
		return 0
	}
	return ev.loopStack[len(ev.loopStack)-1]
}

// StackTrace renders the current call-frame stack, innermost first, for
// a runtime-fault diagnostic.
func (ev *Evaluator) StackTrace() []string {
	trace := make([]string, len(ev.frames))
	for i := range ev.frames {
		f := ev.frames[len(ev.frames)-1-i]
		trace[i] = fmt.Sprintf("%s (%s)", f.Name, f.Pos)
	}
	return trace
}

func (ev *Evaluator) fail(n ast.Node, format string, args ...any) {
	errors.Raise(errors.KindIntrinsicMisuse, n.Pos(), ev.source, format, args...)
}
