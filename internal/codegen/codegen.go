// Package codegen defines the interface the evaluator consumes for
// everything past elaboration: platform size queries and a build
// entrypoint (spec §4.5). Its only implementation in this module is
// hostCodegen (Native), a host-layout size oracle whose Build does
// nothing; no textual IR, object file or linked executable is produced.
package codegen

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/value"
)

// Context carries whatever state a Codegen implementation needs across
// the single build-entrypoint call: the elaborated side tables
// (type_of/data_of) and source path, without tying this interface to
// any one elaborator implementation's internals.
type Context struct {
	Path   string
	TypeOf func(ast.Node) any
	DataOf func(ast.Node) any
}

// Codegen is the external interface spec §4.5 describes: a size oracle
// plus a build entrypoint invoked once after elaboration completes.
type Codegen interface {
	// SizeOf returns the byte size codegen's target platform would give
	// typeValue — the oracle size_of(T) ultimately queries.
	SizeOf(typeValue any) int64

	// CABISize returns the byte size of one of the four C ABI integer
	// classes ("char", "short", "int", "long"), for c_char_size and its
	// siblings.
	CABISize(class string) int64

	// DefaultIntegerSize is the bit width an unsuffixed integer literal
	// or an `int` type expression receives.
	DefaultIntegerSize() int

	// Build is the entrypoint invoked after elaboration with the full
	// Context and the root module node; it is responsible for every
	// build artifact spec §4.5 describes (intermediate textual module,
	// object file, linked executable) and returns the first error it
	// encounters, if any.
	Build(ctx Context, root *ast.Module) error
}

// hostCodegen is the size oracle the evaluator uses: a plain 64-bit
// host layout (no padding, no alignment) rather than any particular
// target ABI. Build is a no-op.
type hostCodegen struct{}

// Native returns the default host-platform Codegen implementation.
func Native() Codegen { return hostCodegen{} }

func (hostCodegen) SizeOf(typeValue any) int64 {
	t, _ := typeValue.(*value.Value)
	return sizeOf(t)
}

func (hostCodegen) CABISize(class string) int64 {
	switch class {
	case "char":
		return 1
	case "short":
		return 2
	case "int":
		return 4
	case "long":
		return 8
	}
	return 8
}

func (hostCodegen) DefaultIntegerSize() int { return 64 }

func (hostCodegen) Build(Context, *ast.Module) error { return nil }

// sizeOf computes hostCodegen's layout for t: scalar widths from the
// type's own BitSize, an array-view as a fat pointer (data + length),
// and aggregates as the flat sum/max of their members' sizes.
func sizeOf(t *value.Value) int64 {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case value.KindByte, value.KindBoolean:
		return 1
	case value.KindInteger, value.KindFloat:
		return int64(t.BitSize / 8)
	case value.KindPointer:
		return 8
	case value.KindEnum:
		return 4
	case value.KindOptional:
		return sizeOf(t.InnerType) + 1
	case value.KindArray:
		return int64(t.Length) * sizeOf(t.Elem)
	case value.KindArrayView:
		return 16
	case value.KindStruct:
		var total int64
		for _, ft := range t.FieldTypes {
			total += sizeOf(ft)
		}
		return total
	case value.KindTuple:
		var total int64
		for _, ft := range t.ElemTypes {
			total += sizeOf(ft)
		}
		return total
	case value.KindTaggedUnion:
		var max int64
		for _, ft := range t.FieldTypes {
			if s := sizeOf(ft); s > max {
				max = s
			}
		}
		return max + 4
	}
	return 8
}
