package ast

import (
	"strings"

	"github.com/corelang/corec/internal/lexer"
)

// BinaryOp is `left OP right`, including `and`/`or`/`??`.
type BinaryOp struct {
	base
	Op          lexer.TokenType
	OpLiteral   string
	Left, Right Expression
}

func (b *BinaryOp) exprNode() {}
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.OpLiteral + " " + b.Right.String() + ")"
}

// NewBinaryOp builds a BinaryOp node.
func NewBinaryOp(pos lexer.Position, op lexer.TokenType, lit string, left, right Expression) *BinaryOp {
	return &BinaryOp{base: newBase(pos), Op: op, OpLiteral: lit, Left: left, Right: right}
}

// Unary is a prefix operator: `-x`, `!x`, `~x`.
type Unary struct {
	base
	Op        lexer.TokenType
	OpLiteral string
	Operand   Expression
}

func (u *Unary) exprNode()      {}
func (u *Unary) String() string { return u.OpLiteral + u.Operand.String() }

// NewUnary builds a Unary node.
func NewUnary(pos lexer.Position, op lexer.TokenType, lit string, operand Expression) *Unary {
	return &Unary{base: newBase(pos), Op: op, OpLiteral: lit, Operand: operand}
}

// Call is `callee(args...)`.
type Call struct {
	base
	Callee Expression
	Args   []Expression
}

func (c *Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

// NewCall builds a Call node.
func NewCall(pos lexer.Position, callee Expression, args []Expression) *Call {
	return &Call{base: newBase(pos), Callee: callee, Args: args}
}

// CallMethod is `receiver.method(args...)`, resolved against the
// receiver's operator-overload list rather than scope lookup (spec
// §4.4.5, §4.4.6).
type CallMethod struct {
	base
	Receiver Expression
	Method   string
	Args     []Expression
}

func (c *CallMethod) exprNode() {}
func (c *CallMethod) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Receiver.String() + "." + c.Method + "(" + strings.Join(args, ", ") + ")"
}

// NewCallMethod builds a CallMethod node.
func NewCallMethod(pos lexer.Position, receiver Expression, method string, args []Expression) *CallMethod {
	return &CallMethod{base: newBase(pos), Receiver: receiver, Method: method, Args: args}
}

// ArrayAccess is `left[index]`.
type ArrayAccess struct {
	base
	Left  Expression
	Index Expression
}

func (a *ArrayAccess) exprNode()      {}
func (a *ArrayAccess) String() string { return a.Left.String() + "[" + a.Index.String() + "]" }

// NewArrayAccess builds an ArrayAccess node.
func NewArrayAccess(pos lexer.Position, left, index Expression) *ArrayAccess {
	return &ArrayAccess{base: newBase(pos), Left: left, Index: index}
}

// Slice is `left[low..high]`, a borrowed array-view over a sub-range
// (distinct from ArrayAccess since its index is itself a Range).
type Slice struct {
	base
	Left      Expression
	Low, High Expression
}

func (s *Slice) exprNode() {}
func (s *Slice) String() string {
	return s.Left.String() + "[" + s.Low.String() + ".." + s.High.String() + "]"
}

// NewSlice builds a Slice node.
func NewSlice(pos lexer.Position, left, low, high Expression) *Slice {
	return &Slice{base: newBase(pos), Left: left, Low: low, High: high}
}

// StructureAccess is `value.name`.
type StructureAccess struct {
	base
	Value Expression
	Name  string
}

func (s *StructureAccess) exprNode()      {}
func (s *StructureAccess) String() string { return s.Value.String() + "." + s.Name }

// NewStructureAccess builds a StructureAccess node.
func NewStructureAccess(pos lexer.Position, value Expression, name string) *StructureAccess {
	return &StructureAccess{base: newBase(pos), Value: value, Name: name}
}

// Deoptional is `value.?`: unwraps a present optional, fatal at runtime
// if absent.
type Deoptional struct {
	base
	Value Expression
}

func (d *Deoptional) exprNode()      {}
func (d *Deoptional) String() string { return d.Value.String() + ".?" }

// NewDeoptional builds a Deoptional node.
func NewDeoptional(pos lexer.Position, value Expression) *Deoptional {
	return &Deoptional{base: newBase(pos), Value: value}
}

// Dereference is `value.*`: loads through a pointer.
type Dereference struct {
	base
	Value Expression
}

func (d *Dereference) exprNode()      {}
func (d *Dereference) String() string { return d.Value.String() + ".*" }

// NewDereference builds a Dereference node.
func NewDereference(pos lexer.Position, value Expression) *Dereference {
	return &Dereference{base: newBase(pos), Value: value}
}

// Reference is `&value`: takes the address of an l-value.
type Reference struct {
	base
	Value Expression
}

func (r *Reference) exprNode()      {}
func (r *Reference) String() string { return "&" + r.Value.String() }

// NewReference builds a Reference node.
func NewReference(pos lexer.Position, value Expression) *Reference {
	return &Reference{base: newBase(pos), Value: value}
}

// Range is `low..high`.
type Range struct {
	base
	Low, High Expression
}

func (r *Range) exprNode()      {}
func (r *Range) String() string { return r.Low.String() + ".." + r.High.String() }

// NewRange builds a Range node.
func NewRange(pos lexer.Position, low, high Expression) *Range {
	return &Range{base: newBase(pos), Low: low, High: high}
}

// Is is `value is tag`: a tagged-union tag check, or `value is Type`.
// Elaborates to `optional T` when checking a tagged-union tag (spec §8
// scenario 3).
type Is struct {
	base
	Value Expression
	Tag   Expression
}

func (is *Is) exprNode()      {}
func (is *Is) String() string { return is.Value.String() + " is " + is.Tag.String() }

// NewIs builds an Is node.
func NewIs(pos lexer.Position, value, tag Expression) *Is {
	return &Is{base: newBase(pos), Value: value, Tag: tag}
}

// Cast is `cast Type Value`: only pointer<->pointer and int->byte casts
// are permitted (spec §8 scenario 6); everything else is a type-mismatch
// diagnostic.
type Cast struct {
	base
	Type  Expression
	Value Expression
}

func (c *Cast) exprNode()      {}
func (c *Cast) String() string { return "cast " + c.Type.String() + " " + c.Value.String() }

// NewCast builds a Cast node.
func NewCast(pos lexer.Position, typ, value Expression) *Cast {
	return &Cast{base: newBase(pos), Type: typ, Value: value}
}

// Structure is a structure literal: `.{1, 2}` (positional, type inferred
// from `wanted_type`) or `Vec.{items: xs}` (named fields, explicit type).
type Structure struct {
	base
	Type   Expression // nil when the type must come from wanted_type
	Fields []StructureFieldInit
}

func (s *Structure) exprNode() {}
func (s *Structure) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name != "" {
			parts[i] = f.Name + ": " + f.Value.String()
		} else {
			parts[i] = f.Value.String()
		}
	}
	prefix := ""
	if s.Type != nil {
		prefix = s.Type.String()
	}
	return prefix + ".{" + strings.Join(parts, ", ") + "}"
}

// NewStructure builds a Structure node.
func NewStructure(pos lexer.Position, typ Expression, fields []StructureFieldInit) *Structure {
	return &Structure{base: newBase(pos), Type: typ, Fields: fields}
}
