package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

func (e *Elaborator) elabArrayAccess(n *ast.ArrayAccess) *value.Value {
	left := e.Elaborate(n.Left, TemporaryContext{})
	if left.Kind == value.KindTuple {
		idxVal := e.foldConstant(n.Index)
		if idxVal.Kind != value.KindInteger {
			e.fail(errors.KindTypeMismatch, n.Pos(), "tuple index must be a compile-time integer constant")
		}
		idx := int(idxVal.IntVal)
		if idx < 0 || idx >= len(left.ElemTypes) {
			e.fail(errors.KindArityMismatch, n.Pos(), "tuple index %d out of range (tuple has %d elements)", idx, len(left.ElemTypes))
		}
		return e.setType(n, left.ElemTypes[idx])
	}
	idx := e.Elaborate(n.Index, TemporaryContext{WantedType: value.IntegerType(false, defaultIntegerBits)})
	if idx.Kind != value.KindInteger {
		e.fail(errors.KindTypeMismatch, n.Pos(), "array index must be an integer, got %s", value.String(idx))
	}
	switch left.Kind {
	case value.KindArray, value.KindArrayView:
		return e.setType(n, left.Elem)
	}
	// operator[] overload on a struct receiver.
	if left.Kind == value.KindStruct {
		return e.setType(n, e.resolveOperatorOverload(n.Pos(), left, "[]", []*value.Value{idx}))
	}
	e.fail(errors.KindTypeMismatch, n.Pos(), "cannot index into %s", value.String(left))
	return nil
}

func (e *Elaborator) elabSlice(n *ast.Slice) *value.Value {
	left := e.Elaborate(n.Left, TemporaryContext{})
	if left.Kind != value.KindArray && left.Kind != value.KindArrayView {
		e.fail(errors.KindTypeMismatch, n.Pos(), "cannot slice %s", value.String(left))
	}
	intT := value.IntegerType(false, defaultIntegerBits)
	lo := e.Elaborate(n.Low, TemporaryContext{WantedType: intT})
	hi := e.Elaborate(n.High, TemporaryContext{WantedType: intT})
	if lo.Kind != value.KindInteger || hi.Kind != value.KindInteger {
		e.fail(errors.KindTypeMismatch, n.Pos(), "slice bounds must be integers")
	}
	return e.setType(n, value.ArrayViewTypeOf(left.Elem))
}

// elabStructureAccess resolves `value.name` against a struct's declared
// fields or a module's exported defines/globals (spec §4.4.2 — dot
// access is this language's module-qualification syntax, used instead
// of a dedicated `::` token).
func (e *Elaborator) elabStructureAccess(n *ast.StructureAccess) *value.Value {
	left := e.Elaborate(n.Value, TemporaryContext{})
	switch left.Kind {
	case value.KindStruct:
		if left.StructDecl == nil {
			e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "%q is not a member of this struct", n.Name)
		}
		for i, f := range left.StructDecl.Fields {
			if f.Name == n.Name {
				return e.setType(n, left.FieldTypes[i])
			}
		}
		e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "%q is not a member of this struct", n.Name)
	case value.KindModule:
		scope, _ := left.ModuleScope.(*Scope)
		if scope == nil {
			e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "module %q has no resolvable scope", left.ModulePath)
		}
		b, ok := scope.Resolve(n.Name)
		if !ok {
			e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "%q is not exported by module %q", n.Name, left.ModulePath)
		}
		return e.setType(n, b.Type)
	case value.KindTuple:
		e.fail(errors.KindTypeMismatch, n.Pos(), "tuples are accessed positionally, not by name")
	}
	e.fail(errors.KindTypeMismatch, n.Pos(), "%s has no member %q", value.String(left), n.Name)
	return nil
}

// elabStructure elaborates a structure literal: `.{...}` infers its
// type from wanted_type, `Type.{...}` names it explicitly (spec
// §4.4.1).
func (e *Elaborator) elabStructure(n *ast.Structure, ctx TemporaryContext) *value.Value {
	var structType *value.Value
	if n.Type != nil {
		structType = e.Elaborate(n.Type, TemporaryContext{})
	} else if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindStruct {
		structType = ctx.WantedType
	} else {
		// No explicit type and no struct-shaped wanted_type: a bare
		// `.{...}` literal is a structural tuple, typed positionally
		// from its own field expressions (spec §3.2, §4.4.4).
		return e.elabTupleLiteral(n)
	}
	if structType.StructDecl == nil {
		e.fail(errors.KindTypeMismatch, n.Pos(), "structure literal type is not a struct")
	}
	fields := structType.StructDecl.Fields
	for i, init := range n.Fields {
		idx := i
		if init.Name != "" {
			idx = -1
			for j, f := range fields {
				if f.Name == init.Name {
					idx = j
					break
				}
			}
			if idx < 0 {
				e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "%q is not a field of this struct", init.Name)
			}
		}
		if idx >= len(structType.FieldTypes) {
			e.fail(errors.KindArityMismatch, n.Pos(), "too many fields in structure literal")
		}
		got := e.Elaborate(init.Value, TemporaryContext{WantedType: structType.FieldTypes[idx]})
		if !value.TypeAssignable(structType.FieldTypes[idx], got) {
			e.fail(errors.KindTypeMismatch, init.Value.Pos(), "field %q: expected %s, got %s", fields[idx].Name, value.String(structType.FieldTypes[idx]), value.String(got))
		}
	}
	return e.setType(n, structType)
}

// elabTupleLiteral types a `.{...}` structure literal with no struct
// context as a positional tuple: each field's own elaborated type
// becomes that slot's element type, in order.
func (e *Elaborator) elabTupleLiteral(n *ast.Structure) *value.Value {
	elemTypes := make([]*value.Value, len(n.Fields))
	for i, init := range n.Fields {
		if init.Name != "" {
			e.fail(errors.KindTypeMismatch, n.Pos(), "tuple literal fields are positional, not named")
		}
		elemTypes[i] = e.Elaborate(init.Value, TemporaryContext{})
	}
	return e.setType(n, value.TupleTypeOf(elemTypes))
}
