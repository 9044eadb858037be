package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/value"
)

func (e *Elaborator) elabUnary(n *ast.Unary, ctx TemporaryContext) *value.Value {
	operand := e.Elaborate(n.Operand, TemporaryContext{WantedType: ctx.WantedType})
	switch n.Op {
	case lexer.MINUS:
		if operand.Kind != value.KindInteger && operand.Kind != value.KindFloat {
			e.fail(errors.KindTypeMismatch, n.Pos(), "unary '-' requires a numeric operand, got %s", value.String(operand))
		}
		return e.setType(n, operand)
	case lexer.BANG:
		if operand.Kind != value.KindBoolean {
			e.fail(errors.KindTypeMismatch, n.Pos(), "unary '!' requires bool, got %s", value.String(operand))
		}
		return e.setType(n, operand)
	case lexer.TILDE:
		if operand.Kind != value.KindInteger && operand.Kind != value.KindByte {
			e.fail(errors.KindTypeMismatch, n.Pos(), "unary '~' requires an integer/byte operand, got %s", value.String(operand))
		}
		return e.setType(n, operand)
	}
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "unknown unary operator %q", n.OpLiteral)
	return nil
}

var arithOrCompare = map[lexer.TokenType]bool{
	lexer.PLUS: true, lexer.MINUS: true, lexer.ASTERISK: true, lexer.SLASH: true, lexer.PERCENT: true,
}
var comparisonOps = map[lexer.TokenType]bool{
	lexer.EQ: true, lexer.NOT_EQ: true, lexer.LESS: true, lexer.GREATER: true,
	lexer.LESS_EQ: true, lexer.GREATER_EQ: true,
}

// elabBinary elaborates arithmetic/comparison/logical/coalesce
// operators, falling back to struct operator-overload resolution for
// struct operands (spec §4.4.6).
func (e *Elaborator) elabBinary(n *ast.BinaryOp, ctx TemporaryContext) *value.Value {
	left := e.Elaborate(n.Left, TemporaryContext{WantedType: ctx.WantedType})

	if left.Kind == value.KindStruct {
		right := e.Elaborate(n.Right, TemporaryContext{})
		ret := e.resolveOperatorOverload(n.Pos(), left, n.OpLiteral, []*value.Value{right})
		return e.setType(n, ret)
	}

	switch n.Op {
	case lexer.AND, lexer.OR:
		right := e.Elaborate(n.Right, TemporaryContext{WantedType: value.BoolType()})
		if left.Kind != value.KindBoolean || right.Kind != value.KindBoolean {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'%s' requires bool operands", n.OpLiteral)
		}
		return e.setType(n, value.BoolType())
	case lexer.QUESTION_QUESTION:
		if left.Kind != value.KindOptional {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'??' left operand must be optional, got %s", value.String(left))
		}
		right := e.Elaborate(n.Right, TemporaryContext{WantedType: left.InnerType})
		if !value.TypeAssignable(left.InnerType, right) {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'??' operands disagree: %s vs %s", value.String(left.InnerType), value.String(right))
		}
		return e.setType(n, left.InnerType)
	}

	right := e.Elaborate(n.Right, TemporaryContext{WantedType: left})
	if !value.TypeAssignable(left, right) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "operator '%s' operands disagree: %s vs %s", n.OpLiteral, value.String(left), value.String(right))
	}
	if comparisonOps[n.Op] {
		return e.setType(n, value.BoolType())
	}
	if arithOrCompare[n.Op] {
		if left.Kind != value.KindInteger && left.Kind != value.KindFloat && left.Kind != value.KindByte {
			e.fail(errors.KindTypeMismatch, n.Pos(), "operator '%s' requires numeric operands, got %s", n.OpLiteral, value.String(left))
		}
		return e.setType(n, left)
	}
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "unknown binary operator %q", n.OpLiteral)
	return nil
}

// elabReference requires an l-value operand and yields ^T (spec §4.4.9).
func (e *Elaborator) elabReference(n *ast.Reference) *value.Value {
	inner := e.Elaborate(n.Value, TemporaryContext{WantPointer: true})
	if !e.isLValue(n.Value) {
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "'&' requires an addressable l-value")
	}
	return e.setType(n, value.PointerTypeOf(inner))
}

func (e *Elaborator) isLValue(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.StructureAccess, *ast.ArrayAccess, *ast.Dereference:
		return true
	}
	return false
}

func (e *Elaborator) elabDereference(n *ast.Dereference) *value.Value {
	t := e.Elaborate(n.Value, TemporaryContext{})
	if t.Kind != value.KindPointer {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'.*' requires a pointer, got %s", value.String(t))
	}
	if t.PointeeType.Kind == value.KindNone {
		e.fail(errors.KindTypeMismatch, n.Pos(), "cannot dereference a ^void pointer")
	}
	return e.setType(n, t.PointeeType)
}

func (e *Elaborator) elabDeoptional(n *ast.Deoptional) *value.Value {
	t := e.Elaborate(n.Value, TemporaryContext{})
	if t.Kind != value.KindOptional {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'.?' requires an optional, got %s", value.String(t))
	}
	return e.setType(n, t.InnerType)
}

func (e *Elaborator) elabRange(n *ast.Range, ctx TemporaryContext) *value.Value {
	var want *value.Value
	if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindRange {
		want = ctx.WantedType.ElemType
	}
	low := e.Elaborate(n.Low, TemporaryContext{WantedType: want})
	high := e.Elaborate(n.High, TemporaryContext{WantedType: low})
	if !value.TypeAssignable(low, high) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "range bounds disagree: %s vs %s", value.String(low), value.String(high))
	}
	return e.setType(n, value.RangeTypeOf(low))
}

// taggedItemNames returns t's item names in order: the declared names
// for a named `tagged_union { ... }`, or the implicit "ok"/"err" pair
// for the anonymous two-field union `ok(...)`/`err(...)`/a `! ` result
// type always produce (TaggedDecl is nil precisely in that case — spec
// §4.4.8).
func taggedItemNames(t *value.Value) []string {
	if t.TaggedDecl != nil {
		names := make([]string, len(t.TaggedDecl.Items))
		for i, f := range t.TaggedDecl.Items {
			names[i] = f.Name
		}
		return names
	}
	return []string{"ok", "err"}
}

// elabIs checks a tagged-union tag (yielding ?PayloadType per spec §8
// scenario 3) or a plain type-identity check (yielding bool).
func (e *Elaborator) elabIs(n *ast.Is) *value.Value {
	left := e.Elaborate(n.Value, TemporaryContext{})
	if left.Kind == value.KindTaggedUnion {
		ident, ok := n.Tag.(*ast.Identifier)
		if !ok {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'is' tag must be an identifier naming a tagged-union item")
		}
		idx := -1
		for i, name := range taggedItemNames(left) {
			if name == ident.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "%q is not a member of this tagged union", ident.Name)
		}
		e.setData(n, &NodeData{ResolvedKind: ident.Name})
		return e.setType(n, value.OptionalTypeOf(left.FieldTypes[idx]))
	}
	e.Elaborate(n.Tag, TemporaryContext{})
	return e.setType(n, value.BoolType())
}

// elabCast permits only pointer<->pointer and int->byte conversions
// (spec §8 scenario 6, original_source/src/processor.c:1046-1047); the
// reverse byte->int direction is not a cast — it's an implicit widening
// everywhere else in this language, so a cast of it is a type mismatch.
func (e *Elaborator) elabCast(n *ast.Cast) *value.Value {
	target := e.Elaborate(n.Type, TemporaryContext{})
	src := e.Elaborate(n.Value, TemporaryContext{})
	ok := false
	switch {
	case target.Kind == value.KindPointer && src.Kind == value.KindPointer:
		ok = true
	case target.Kind == value.KindByte && src.Kind == value.KindInteger:
		ok = true
	}
	if !ok {
		e.fail(errors.KindTypeMismatch, n.Pos(), "cast not permitted: %s from %s", value.String(target), value.String(src))
	}
	return e.setType(n, target)
}
