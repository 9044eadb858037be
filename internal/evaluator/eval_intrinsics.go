package evaluator

import (
	"fmt"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/value"
)

// evalIntrinsic evaluates a call whose callee is a recognized compiler
// intrinsic, mirroring elaborator.elabIntrinsicCall's case set but
// producing runtime values instead of type values.
func (ev *Evaluator) evalIntrinsic(n *ast.Call, internal *ast.Internal, env *Env) *value.Value {
	switch internal.Name {
	case "size_of":
		return value.NewInteger(ev.Codegen.SizeOf(ev.TypeOf(n.Args[0])), false, defaultIntegerBits)
	case "type_of":
		t := ev.TypeOf(n.Args[0])
		typ := *t
		typ.IsType = true
		return &typ
	case "type_info_of":
		t := ev.TypeOf(n.Args[0])
		return value.NewStruct(nil, []*value.Value{
			value.NewInteger(int64(t.Kind), false, defaultIntegerBits),
			value.NewInteger(ev.Codegen.SizeOf(t), false, defaultIntegerBits),
		})
	case "print":
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = value.String(ev.Eval(a, env))
		}
		fmt.Fprintln(ev.out, joinSpace(parts))
		return value.None
	case "import":
		lit := n.Args[0].(*ast.StringLit)
		if ev.ImportValue == nil {
			ev.fail(n, "import path %q was not resolved (driver must wire ImportValue)", lit.Raw)
		}
		return ev.ImportValue(lit.Raw)
	case "embed":
		if ev.EmbedExpr == nil {
			ev.fail(n, "embed was not resolved (driver must wire EmbedExpr)")
		}
		expr := ev.EmbedExpr(n)
		if expr == nil {
			ev.fail(n, "embed: no synthesized expression recorded for this call")
		}
		return ev.Eval(expr, env)
	case "ok":
		t := ev.TypeOf(n)
		payload := ev.Eval(n.Args[0], env)
		return value.NewTaggedUnion(t.TaggedDecl, t.FieldTypes, 0, payload)
	case "err":
		t := ev.TypeOf(n)
		payload := ev.Eval(n.Args[0], env)
		return value.NewTaggedUnion(t.TaggedDecl, t.FieldTypes, 1, payload)
	case "compile_error":
		ev.fail(n, "compile_error reached at runtime")
	case "int":
		return ev.TypeOf(n)
	}
	ev.fail(n, "unknown intrinsic %q", internal.Name)
	return value.None
}

// evalInternalBare evaluates a bare intrinsic reference not immediately
// called (elaborator.elabInternalBare's runtime counterpart). The
// c_*_size names are the only ones with a genuine runtime value — a
// platform-dependent integer queried from Codegen; the rest (byte,
// bool, type, int) only ever appear in type position, so their
// "value" is just the type marker already recorded by elaboration.
func (ev *Evaluator) evalInternalBare(n *ast.Internal) *value.Value {
	switch n.Name {
	case "c_char_size":
		return value.NewInteger(ev.Codegen.CABISize("char"), true, defaultIntegerBits)
	case "c_short_size":
		return value.NewInteger(ev.Codegen.CABISize("short"), true, defaultIntegerBits)
	case "c_int_size":
		return value.NewInteger(ev.Codegen.CABISize("int"), true, defaultIntegerBits)
	case "c_long_size":
		return value.NewInteger(ev.Codegen.CABISize("long"), true, defaultIntegerBits)
	}
	return ev.TypeOf(n)
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
