package ast

import (
	"strings"

	"github.com/corelang/corec/internal/lexer"
)

// ArrayType is `[N]T`, a fixed-length array.
type ArrayType struct {
	base
	Len  Expression
	Elem Expression
}

func (a *ArrayType) exprNode()      {}
func (a *ArrayType) String() string { return "[" + a.Len.String() + "]" + a.Elem.String() }

// NewArrayType builds an ArrayType node.
func NewArrayType(pos lexer.Position, length, elem Expression) *ArrayType {
	return &ArrayType{base: newBase(pos), Len: length, Elem: elem}
}

// ArrayViewType is `[_]T`: a borrowed (length, pointer) slice.
type ArrayViewType struct {
	base
	Elem Expression
}

func (a *ArrayViewType) exprNode()      {}
func (a *ArrayViewType) String() string { return "[_]" + a.Elem.String() }

// NewArrayViewType builds an ArrayViewType node.
func NewArrayViewType(pos lexer.Position, elem Expression) *ArrayViewType {
	return &ArrayViewType{base: newBase(pos), Elem: elem}
}

// PointerType is `^T`.
type PointerType struct {
	base
	Pointee Expression
}

func (p *PointerType) exprNode()      {}
func (p *PointerType) String() string { return "^" + p.Pointee.String() }

// NewPointerType builds a PointerType node.
func NewPointerType(pos lexer.Position, pointee Expression) *PointerType {
	return &PointerType{base: newBase(pos), Pointee: pointee}
}

// OptionalType is `?T`.
type OptionalType struct {
	base
	Inner Expression
}

func (o *OptionalType) exprNode()      {}
func (o *OptionalType) String() string { return "?" + o.Inner.String() }

// NewOptionalType builds an OptionalType node.
func NewOptionalType(pos lexer.Position, inner Expression) *OptionalType {
	return &OptionalType{base: newBase(pos), Inner: inner}
}

// ResultType is `Ok ! Err`: a success-or-error sum.
type ResultType struct {
	base
	Ok, Err Expression
}

func (r *ResultType) exprNode()      {}
func (r *ResultType) String() string { return r.Ok.String() + " ! " + r.Err.String() }

// NewResultType builds a ResultType node.
func NewResultType(pos lexer.Position, ok, err Expression) *ResultType {
	return &ResultType{base: newBase(pos), Ok: ok, Err: err}
}

// FunctionType is `fn(params...) -> ReturnType`, possibly incomplete
// (awaiting static-argument resolution) when any parameter is static.
type FunctionType struct {
	base
	Params     []Param
	ReturnType Expression
	Decl       *Function // back-pointer to the declaration, nil for a bare type
}

func (f *FunctionType) exprNode() {}
func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + typeString(p.Type)
	}
	ret := ""
	if f.ReturnType != nil {
		ret = " -> " + f.ReturnType.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ")" + ret
}

func typeString(e Expression) string {
	if e == nil {
		return "_"
	}
	return e.String()
}

// NewFunctionType builds a FunctionType node.
func NewFunctionType(pos lexer.Position, params []Param, ret Expression) *FunctionType {
	return &FunctionType{base: newBase(pos), Params: params, ReturnType: ret}
}

// StructType is `struct { field: T, ...; fn OP(...) ... }`.
type StructType struct {
	base
	Fields    []Field
	Overloads []*OperatorOverloadDecl
}

func (s *StructType) exprNode() {}
func (s *StructType) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "struct { " + strings.Join(parts, "; ") + " }"
}

// NewStructType builds a StructType node.
func NewStructType(pos lexer.Position, fields []Field, overloads []*OperatorOverloadDecl) *StructType {
	return &StructType{base: newBase(pos), Fields: fields, Overloads: overloads}
}

// EnumType is `enum { A, B, C }`.
type EnumType struct {
	base
	Items []string
}

func (e *EnumType) exprNode()      {}
func (e *EnumType) String() string { return "enum { " + strings.Join(e.Items, ", ") + " }" }

// NewEnumType builds an EnumType node.
func NewEnumType(pos lexer.Position, items []string) *EnumType {
	return &EnumType{base: newBase(pos), Items: items}
}

// TaggedUnionType is `tagged_union { a: T1, b: T2 }`: a sum of labeled
// payloads with an implicit enum tag.
type TaggedUnionType struct {
	base
	Items []Field
}

func (t *TaggedUnionType) exprNode() {}
func (t *TaggedUnionType) String() string {
	parts := make([]string, len(t.Items))
	for i, f := range t.Items {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "tagged_union { " + strings.Join(parts, ", ") + " }"
}

// NewTaggedUnionType builds a TaggedUnionType node.
func NewTaggedUnionType(pos lexer.Position, items []Field) *TaggedUnionType {
	return &TaggedUnionType{base: newBase(pos), Items: items}
}

// UnionType is `union { T1, T2 }`: an untagged overlay of member types.
type UnionType struct {
	base
	Items []Expression
}

func (u *UnionType) exprNode() {}
func (u *UnionType) String() string {
	parts := make([]string, len(u.Items))
	for i, it := range u.Items {
		parts[i] = it.String()
	}
	return "union { " + strings.Join(parts, ", ") + " }"
}

// NewUnionType builds a UnionType node.
func NewUnionType(pos lexer.Position, items []Expression) *UnionType {
	return &UnionType{base: newBase(pos), Items: items}
}
