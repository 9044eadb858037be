// Package ast defines the AST node set of spec §3.1: a fixed, closed set
// of tagged variants, each carrying a source location. Nodes are plain Go
// heap allocations made by the parser and live for the whole
// compile; elaboration never mutates the tree, only annotates it via the
// elaborator's side tables.
package ast

import "github.com/corelang/corec/internal/lexer"

// Node is the interface every AST variant implements.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any node that produces a value when elaborated — which,
// since types are values (spec §3.2, §9), includes every type-syntax
// node (ArrayType, PointerType, StructType, ...) as well as ordinary
// value expressions.
type Expression interface {
	Node
	exprNode()
}

// Statement is a node elaborated for effect; it does not itself produce
// a value (a Block's last statement may still carry a result, tracked on
// the Block, not on the statement).
type Statement interface {
	Node
	stmtNode()
}

// base is embedded by every node to supply Pos() without repeating a
// position field and accessor on each variant.
type base struct {
	pos lexer.Position
}

func (b base) Pos() lexer.Position { return b.pos }

func newBase(pos lexer.Position) base { return base{pos: pos} }

// Param is a function/overload parameter. Static and Inferred are
// mutually exclusive; a plain runtime parameter has both false.
type Param struct {
	Name     string
	Type     Expression // nil for an inferred parameter's declared shape is still an Expression (the pattern), never nil in practice
	Static   bool       // static parameter: value known at the call site, drives monomorphization
	Inferred bool       // inferred parameter: bound by structural pattern matching
	Variadic bool       // tail parameter accepting the remaining arguments
}

// GenericParam is one `<name: constraint>` entry on a `define`.
type GenericParam struct {
	Name       string
	Constraint Expression
}

// Field is a named, typed slot: a struct member or a tagged-union item.
type Field struct {
	Name string
	Type Expression
}

// StructureFieldInit is one `name: value` (or positional `value`) entry
// in a structure literal.
type StructureFieldInit struct {
	Name  string // empty for a positional initializer
	Value Expression
}

// SwitchCase is one `case v1, v2: body` arm; Values is empty for the
// default/else arm. Binding names the payload variable introduced when
// switching on a tagged union.
type SwitchCase struct {
	Values  []Expression
	Binding string
	Body    Expression
}

// Module is the root node of a parsed file: an ordered list of
// top-level statements (defines, globals, operator overloads, the
// occasional top-level `run`).
type Module struct {
	base
	Path       string
	Statements []Statement
}

func (m *Module) String() string { return "module " + m.Path }

var _ Node = (*Module)(nil)

// NewModule builds a Module node at pos.
func NewModule(pos lexer.Position, path string, stmts []Statement) *Module {
	return &Module{base: newBase(pos), Path: path, Statements: stmts}
}
