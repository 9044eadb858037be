// Package value implements the single closed tagged-value universe that
// covers both runtime values and type values (spec §3.2, §9 "type is
// value"): one Kind-tagged struct with per-kind payload fields, the
// shape internal/jsonvalue/value.go used for its own (JSON-specific)
// value universe before that package was retired.
package value

import (
	"fmt"
	"strings"

	"github.com/corelang/corec/internal/ast"
)

// Kind classifies the shape of a Value's payload. A Value of a given
// Kind can be either a runtime instance (IsType == false) or the type
// that classifies such instances (IsType == true) — the same struct
// serves both, per spec §3.2/§9.
type Kind int

const (
	KindNone Kind = iota
	KindInteger
	KindFloat
	KindByte
	KindBoolean
	KindEnum
	KindOptional
	KindRange
	KindPointer
	KindArray
	KindArrayView
	KindStruct
	KindTuple
	KindTaggedUnion
	KindUnion
	KindModule
	KindFunction
	KindTypeKind // the universe-of-types marker, the `type` intrinsic's own kind
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindByte:
		return "byte"
	case KindBoolean:
		return "boolean"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindRange:
		return "range"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindArrayView:
		return "array-view"
	case KindStruct:
		return "struct"
	case KindTuple:
		return "tuple"
	case KindTaggedUnion:
		return "tagged-union"
	case KindUnion:
		return "union"
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindTypeKind:
		return "type"
	default:
		return "?"
	}
}

// Value is the one payload struct for every Kind, both as a runtime
// instance and as the type value that classifies instances of that
// shape (IsType). The constructors below allocate on the ordinary Go
// heap; only the elaborator's per-instantiation function values are
// copied into an arena (internal/arena, Elaborator.alloc).
type Value struct {
	Kind   Kind
	IsType bool

	// Integer
	IntVal  int64
	Signed  bool
	BitSize int // 8, 16, 32, 64

	// Float
	FloatVal float64

	// Byte
	ByteVal byte

	// Boolean
	BoolVal bool

	// Enum: EnumDecl names the item list; EnumIndex selects a member
	// when this is a runtime instance.
	EnumDecl  *ast.EnumType
	EnumIndex int

	// Optional: InnerType describes the wrapped type; Present/Inner
	// carry a runtime instance's payload.
	InnerType *Value
	Present   bool
	Inner     *Value

	// Range: ElemType is the bound type; Low/High are runtime bounds.
	ElemType *Value
	Low, High *Value

	// Pointer: PointeeType is the type value; Target is the addressed
	// storage cell for a runtime pointer (nil means a null pointer).
	PointeeType *Value
	Target      *Value

	// Array / ArrayView: Elem is the element type; Length is the fixed
	// array length (-1 for an array-view type); Elems holds runtime
	// members (nil pointee of an array-view holds a view over another
	// array's backing Elems via ViewOf/ViewLen).
	Elem    *Value
	Length  int
	Elems   []*Value
	ViewOf  []*Value
	ViewLen int

	// Struct: Decl names declared fields (positional); FieldTypes or
	// Fields (runtime) hold one entry per declared field, in order.
	StructDecl *ast.StructType
	FieldTypes []*Value
	Fields     []*Value

	// Tuple: ElemTypes are positional member types; TupleElems are
	// runtime members.
	ElemTypes  []*Value
	TupleElems []*Value

	// TaggedUnion: Decl names the item list (and implied enum tag);
	// Tag selects the active item for a runtime instance; Payload is
	// its value.
	TaggedDecl *ast.TaggedUnionType
	Tag        int
	Payload    *Value

	// Union: Members lists the overlaid member types.
	Members []*Value

	// Module
	ModulePath  string
	ModuleScope any // *elaborator.Scope or *evaluator.Env; declared as any to avoid an import cycle

	// Function / function-type: Decl back-points to the declaration
	// node (spec §3.2); ParamTypes/ReturnType describe a complete
	// function type. Incomplete marks a function-type awaiting static-
	// argument resolution (has static parameters, still template-
	// world). StaticID and Closure are set once instantiated.
	Decl       *ast.Function
	ParamTypes []*Value
	ReturnType *Value
	Incomplete bool
	StaticID   int
	Closure    any // *elaborator.Scope or *evaluator.Env
}

// Void is the pointee of `^void`, against which the pointer-to-void
// subtyping rule (spec §3.4 invariant, §8) is checked by identity of
// Kind == KindNone among pointee types.
var Void = &Value{Kind: KindNone, IsType: true}

// None is the singleton `none` sentinel value (not a type).
var None = &Value{Kind: KindNone}

// NewInteger builds a runtime integer instance.
func NewInteger(v int64, signed bool, bits int) *Value {
	return &Value{Kind: KindInteger, IntVal: v, Signed: signed, BitSize: bits}
}

// IntegerType builds the type value for a signed/unsigned integer of
// the given bit width.
func IntegerType(signed bool, bits int) *Value {
	return &Value{Kind: KindInteger, IsType: true, Signed: signed, BitSize: bits}
}

// NewFloat builds a runtime 64-bit float instance.
func NewFloat(v float64) *Value { return &Value{Kind: KindFloat, FloatVal: v} }

// FloatType is the type value for `flt64`.
func FloatType() *Value { return &Value{Kind: KindFloat, IsType: true} }

// EnumTypeOf builds an enum-type value over decl's item list.
func EnumTypeOf(decl *ast.EnumType) *Value {
	return &Value{Kind: KindEnum, IsType: true, EnumDecl: decl}
}

// NewEnum builds a runtime enum instance selecting item index.
func NewEnum(decl *ast.EnumType, index int) *Value {
	return &Value{Kind: KindEnum, EnumDecl: decl, EnumIndex: index}
}

// NewByte builds a runtime byte instance.
func NewByte(b byte) *Value { return &Value{Kind: KindByte, ByteVal: b} }

// ByteType is the type value for `byte`.
func ByteType() *Value { return &Value{Kind: KindByte, IsType: true} }

// NewBool builds a runtime boolean instance.
func NewBool(b bool) *Value { return &Value{Kind: KindBoolean, BoolVal: b} }

// BoolType is the type value for `bool`.
func BoolType() *Value { return &Value{Kind: KindBoolean, IsType: true} }

// TypeKind is the value returned by the bare `type` intrinsic: the
// universe of all types, used as a generic constraint meaning "any
// type is acceptable."
func TypeKind() *Value { return &Value{Kind: KindTypeKind, IsType: true} }

// PointerTypeOf builds a pointer-type value over pointee.
func PointerTypeOf(pointee *Value) *Value {
	return &Value{Kind: KindPointer, IsType: true, PointeeType: pointee}
}

// NewPointer builds a runtime pointer to target (nil target is null).
func NewPointer(pointeeType, target *Value) *Value {
	return &Value{Kind: KindPointer, PointeeType: pointeeType, Target: target}
}

// OptionalTypeOf builds an optional-type value wrapping inner.
func OptionalTypeOf(inner *Value) *Value {
	return &Value{Kind: KindOptional, IsType: true, InnerType: inner}
}

// NewAbsent builds the absent instance of an optional type.
func NewAbsent(innerType *Value) *Value {
	return &Value{Kind: KindOptional, InnerType: innerType, Present: false}
}

// NewPresent builds the present instance of an optional type wrapping v.
func NewPresent(innerType, v *Value) *Value {
	return &Value{Kind: KindOptional, InnerType: innerType, Present: true, Inner: v}
}

// RangeTypeOf builds a range-type value over elemType.
func RangeTypeOf(elemType *Value) *Value {
	return &Value{Kind: KindRange, IsType: true, ElemType: elemType}
}

// NewRange builds a runtime range instance.
func NewRange(elemType, low, high *Value) *Value {
	return &Value{Kind: KindRange, ElemType: elemType, Low: low, High: high}
}

// ArrayTypeOf builds a fixed-length array-type value.
func ArrayTypeOf(length int, elem *Value) *Value {
	return &Value{Kind: KindArray, IsType: true, Length: length, Elem: elem}
}

// NewArray builds a runtime fixed-length array instance.
func NewArray(elem *Value, elems []*Value) *Value {
	return &Value{Kind: KindArray, Elem: elem, Length: len(elems), Elems: elems}
}

// ArrayViewTypeOf builds a borrowed-view array-type value.
func ArrayViewTypeOf(elem *Value) *Value {
	return &Value{Kind: KindArrayView, IsType: true, Length: -1, Elem: elem}
}

// NewArrayView builds a runtime view over backing, `[low, low+n)`.
func NewArrayView(elem *Value, backing []*Value, low, n int) *Value {
	return &Value{Kind: KindArrayView, Elem: elem, ViewOf: backing[low : low+n], ViewLen: n}
}

// StructTypeOf builds a struct-type value with positional field types.
func StructTypeOf(decl *ast.StructType, fieldTypes []*Value) *Value {
	return &Value{Kind: KindStruct, IsType: true, StructDecl: decl, FieldTypes: fieldTypes}
}

// NewStruct builds a runtime struct instance with positional fields.
func NewStruct(decl *ast.StructType, fields []*Value) *Value {
	return &Value{Kind: KindStruct, StructDecl: decl, Fields: fields}
}

// TupleTypeOf builds a tuple-type value.
func TupleTypeOf(elemTypes []*Value) *Value {
	return &Value{Kind: KindTuple, IsType: true, ElemTypes: elemTypes}
}

// NewTuple builds a runtime tuple instance.
func NewTuple(elemTypes, elems []*Value) *Value {
	return &Value{Kind: KindTuple, ElemTypes: elemTypes, TupleElems: elems}
}

// TaggedUnionTypeOf builds a tagged-union-type value.
func TaggedUnionTypeOf(decl *ast.TaggedUnionType, itemTypes []*Value) *Value {
	return &Value{Kind: KindTaggedUnion, IsType: true, TaggedDecl: decl, FieldTypes: itemTypes}
}

// NewTaggedUnion builds a runtime tagged-union instance selecting tag.
func NewTaggedUnion(decl *ast.TaggedUnionType, itemTypes []*Value, tag int, payload *Value) *Value {
	return &Value{Kind: KindTaggedUnion, TaggedDecl: decl, FieldTypes: itemTypes, Tag: tag, Payload: payload}
}

// UnionTypeOf builds a union-type value.
func UnionTypeOf(members []*Value) *Value {
	return &Value{Kind: KindUnion, IsType: true, Members: members}
}

// NewModule builds a module value; scope is the module's *elaborator.Scope
// (elaborator side) or *evaluator.Env (evaluator side).
func NewModule(path string, scope any) *Value {
	return &Value{Kind: KindModule, ModulePath: path, ModuleScope: scope}
}

// FunctionTypeOf builds a function-type value, possibly incomplete
// (awaiting static-argument resolution).
func FunctionTypeOf(decl *ast.Function, params []*Value, ret *Value, incomplete bool) *Value {
	return &Value{Kind: KindFunction, IsType: true, Decl: decl, ParamTypes: params, ReturnType: ret, Incomplete: incomplete}
}

// NewFunction builds a runtime function instance: a fully-instantiated
// closure over Decl at the given static id.
func NewFunction(decl *ast.Function, params []*Value, ret *Value, staticID int, closure any) *Value {
	return &Value{Kind: KindFunction, Decl: decl, ParamTypes: params, ReturnType: ret, StaticID: staticID, Closure: closure}
}

// IsVoidPointer reports whether v is a pointer type/value whose pointee
// is the void sentinel.
func IsVoidPointer(v *Value) bool {
	return v != nil && v.Kind == KindPointer && v.PointeeType != nil && v.PointeeType.Kind == KindNone
}

// Equal is the structural value-equality relation spec §3.3/§8 keys
// monomorphization memoization and `is`/switch-case comparisons on.
func Equal(a, b *Value) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.IsType != b.IsType {
		return false
	}
	switch a.Kind {
	case KindNone, KindTypeKind:
		return true
	case KindInteger:
		return (a.Signed == b.Signed && a.BitSize == b.BitSize && a.IntVal == b.IntVal) ||
			(a.IsType && a.Signed == b.Signed && a.BitSize == b.BitSize)
	case KindFloat:
		return a.IsType || a.FloatVal == b.FloatVal
	case KindByte:
		return a.IsType || a.ByteVal == b.ByteVal
	case KindBoolean:
		return a.IsType || a.BoolVal == b.BoolVal
	case KindEnum:
		return a.EnumDecl == b.EnumDecl && (a.IsType || a.EnumIndex == b.EnumIndex)
	case KindOptional:
		if !Equal(a.InnerType, b.InnerType) {
			return false
		}
		if a.IsType {
			return true
		}
		if a.Present != b.Present {
			return false
		}
		return !a.Present || Equal(a.Inner, b.Inner)
	case KindRange:
		if !Equal(a.ElemType, b.ElemType) {
			return false
		}
		return a.IsType || (Equal(a.Low, b.Low) && Equal(a.High, b.High))
	case KindPointer:
		if !Equal(a.PointeeType, b.PointeeType) {
			return false
		}
		return a.IsType || a.Target == b.Target
	case KindArray, KindArrayView:
		if !Equal(a.Elem, b.Elem) || a.Length != b.Length {
			return false
		}
		if a.IsType {
			return true
		}
		return equalValueSlices(elemsOf(a), elemsOf(b))
	case KindStruct:
		if a.StructDecl != b.StructDecl {
			return false
		}
		if a.IsType {
			return equalValueSlices(a.FieldTypes, b.FieldTypes)
		}
		return equalValueSlices(a.Fields, b.Fields)
	case KindTuple:
		if a.IsType {
			return equalValueSlices(a.ElemTypes, b.ElemTypes)
		}
		return equalValueSlices(a.TupleElems, b.TupleElems)
	case KindTaggedUnion:
		if a.TaggedDecl != b.TaggedDecl {
			return false
		}
		if a.IsType {
			return true
		}
		return a.Tag == b.Tag && Equal(a.Payload, b.Payload)
	case KindUnion:
		return equalValueSlices(a.Members, b.Members)
	case KindModule:
		return a.ModulePath == b.ModulePath
	case KindFunction:
		if a.Decl != b.Decl {
			return false
		}
		if a.IsType {
			return equalValueSlices(a.ParamTypes, b.ParamTypes) && Equal(a.ReturnType, b.ReturnType)
		}
		return a.StaticID == b.StaticID
	}
	return false
}

func elemsOf(v *Value) []*Value {
	if v.ViewOf != nil {
		return v.ViewOf
	}
	return v.Elems
}

func equalValueSlices(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TypeAssignable implements spec §4.4.4/§8: structural equality of type
// values, except the pointer-to-void subtyping rule (either side's
// pointee being void makes the assignment succeed in both directions).
func TypeAssignable(want, got *Value) bool {
	if want == nil || got == nil {
		return want == got
	}
	if want.Kind == KindPointer && got.Kind == KindPointer {
		if IsVoidPointer(want) || IsVoidPointer(got) {
			return true
		}
		return TypeAssignable(want.PointeeType, got.PointeeType)
	}
	return Equal(want, got)
}

// String renders a Value for diagnostics and debug tooling.
func String(v *Value) string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindNone:
		return "none"
	case KindInteger:
		if v.IsType {
			sign := "uint"
			if v.Signed {
				sign = "int"
			}
			return fmt.Sprintf("%s%d", sign, v.BitSize)
		}
		return fmt.Sprintf("%d", v.IntVal)
	case KindFloat:
		if v.IsType {
			return "flt64"
		}
		return fmt.Sprintf("%g", v.FloatVal)
	case KindByte:
		if v.IsType {
			return "byte"
		}
		return fmt.Sprintf("#%d", v.ByteVal)
	case KindBoolean:
		if v.IsType {
			return "bool"
		}
		return fmt.Sprintf("%t", v.BoolVal)
	case KindPointer:
		return "^" + String(v.PointeeType)
	case KindOptional:
		return "?" + String(v.InnerType)
	case KindArray:
		if v.IsType {
			return fmt.Sprintf("[%d]%s", v.Length, String(v.Elem))
		}
		return arrayLiteralString(v.Elems)
	case KindArrayView:
		return "[_]" + String(v.Elem)
	case KindStruct:
		return "struct"
	case KindTaggedUnion:
		return "tagged_union"
	case KindUnion:
		return "union"
	case KindFunction:
		return "fn(...)"
	case KindModule:
		return "module " + v.ModulePath
	case KindTypeKind:
		return "type"
	default:
		return v.Kind.String()
	}
}

func arrayLiteralString(elems []*Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = String(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
