package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

func (e *Elaborator) elabArrayType(n *ast.ArrayType) *value.Value {
	length := e.foldConstant(n.Len)
	if length.Kind != value.KindInteger {
		e.fail(errors.KindTypeMismatch, n.Pos(), "array length must be a compile-time integer")
	}
	elem := e.Elaborate(n.Elem, TemporaryContext{})
	return e.setType(n, value.ArrayTypeOf(int(length.IntVal), elem))
}

func (e *Elaborator) elabFunctionType(n *ast.FunctionType) *value.Value {
	paramTypes := make([]*value.Value, len(n.Params))
	hasStatic := false
	for i, p := range n.Params {
		if p.Static {
			hasStatic = true
			continue
		}
		paramTypes[i] = e.Elaborate(p.Type, TemporaryContext{})
	}
	var retType *value.Value
	if n.ReturnType != nil {
		retType = e.Elaborate(n.ReturnType, TemporaryContext{})
	}
	return e.setType(n, value.FunctionTypeOf(n.Decl, paramTypes, retType, hasStatic))
}

func (e *Elaborator) elabStructType(n *ast.StructType) *value.Value {
	fieldTypes := make([]*value.Value, len(n.Fields))
	for i, f := range n.Fields {
		fieldTypes[i] = e.Elaborate(f.Type, TemporaryContext{})
	}
	return e.setType(n, value.StructTypeOf(n, fieldTypes))
}

func (e *Elaborator) elabEnumType(n *ast.EnumType) *value.Value {
	return e.setType(n, value.EnumTypeOf(n))
}

func (e *Elaborator) elabTaggedUnionType(n *ast.TaggedUnionType) *value.Value {
	itemTypes := make([]*value.Value, len(n.Items))
	for i, it := range n.Items {
		itemTypes[i] = e.Elaborate(it.Type, TemporaryContext{})
	}
	return e.setType(n, value.TaggedUnionTypeOf(n, itemTypes))
}

func (e *Elaborator) elabUnionType(n *ast.UnionType) *value.Value {
	members := make([]*value.Value, len(n.Items))
	for i, it := range n.Items {
		members[i] = e.Elaborate(it, TemporaryContext{})
	}
	return e.setType(n, value.UnionTypeOf(members))
}
