package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/parser"
	"github.com/corelang/corec/internal/value"
)

// elabIntrinsicCall elaborates a call whose callee is a recognized
// compiler intrinsic (spec §4.4.8).
func (e *Elaborator) elabIntrinsicCall(n *ast.Call, internal *ast.Internal, ctx TemporaryContext) *value.Value {
	switch internal.Name {
	case "size_of":
		if len(n.Args) != 1 {
			e.fail(errors.KindArityMismatch, n.Pos(), "size_of expects exactly 1 argument")
		}
		e.Elaborate(n.Args[0], TemporaryContext{})
		return e.setType(n, value.IntegerType(false, defaultIntegerBits))
	case "type_of":
		if len(n.Args) != 1 {
			e.fail(errors.KindArityMismatch, n.Pos(), "type_of expects exactly 1 argument")
		}
		e.Elaborate(n.Args[0], TemporaryContext{})
		return e.setType(n, value.TypeKind())
	case "type_info_of":
		if len(n.Args) != 1 {
			e.fail(errors.KindArityMismatch, n.Pos(), "type_info_of expects exactly 1 argument")
		}
		e.Elaborate(n.Args[0], TemporaryContext{})
		return e.setType(n, e.typeInfoStructType())
	case "print":
		for _, a := range n.Args {
			e.Elaborate(a, TemporaryContext{})
		}
		return e.setType(n, value.None)
	case "import":
		return e.setType(n, e.elabImport(n))
	case "embed":
		return e.elabEmbed(n, ctx)
	case "ok":
		if len(n.Args) != 1 {
			e.fail(errors.KindArityMismatch, n.Pos(), "ok expects exactly 1 argument")
		}
		var want *value.Value
		if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindTaggedUnion {
			want = ctx.WantedType.FieldTypes[0]
		}
		okT := e.Elaborate(n.Args[0], TemporaryContext{WantedType: want})
		if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindTaggedUnion {
			return e.setType(n, ctx.WantedType)
		}
		return e.setType(n, value.TaggedUnionTypeOf(nil, []*value.Value{okT, value.None}))
	case "err":
		if len(n.Args) != 1 {
			e.fail(errors.KindArityMismatch, n.Pos(), "err expects exactly 1 argument")
		}
		var want *value.Value
		if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindTaggedUnion {
			want = ctx.WantedType.FieldTypes[1]
		}
		errT := e.Elaborate(n.Args[0], TemporaryContext{WantedType: want})
		if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindTaggedUnion {
			return e.setType(n, ctx.WantedType)
		}
		return e.setType(n, value.TaggedUnionTypeOf(nil, []*value.Value{value.None, errT}))
	case "compile_error":
		msg := "compile_error"
		if len(n.Args) == 1 {
			if s, ok := n.Args[0].(*ast.StringLit); ok {
				msg = s.Raw
			}
		}
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "%s", msg)
	case "int":
		if len(n.Args) != 2 {
			e.fail(errors.KindArityMismatch, n.Pos(), "int(signed, size) expects exactly 2 arguments")
		}
		signed := e.foldConstant(n.Args[0])
		size := e.foldConstant(n.Args[1])
		if signed.Kind != value.KindBoolean || size.Kind != value.KindInteger {
			e.fail(errors.KindIntrinsicMisuse, n.Pos(), "int(signed, size) expects (bool, int) arguments")
		}
		return e.setType(n, value.IntegerType(signed.BoolVal, int(size.IntVal)))
	}
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "unknown intrinsic %q", internal.Name)
	return nil
}

// typeInfoStructType is the prelude `Type_Info` union's elaborated
// shape: a minimal struct carrying a kind tag and a size, enough for
// `type_info_of` callers to branch on at compile time (spec §4.4.8).
func (e *Elaborator) typeInfoStructType() *value.Value {
	return value.StructTypeOf(nil, []*value.Value{
		value.IntegerType(false, defaultIntegerBits), // kind tag
		value.IntegerType(false, defaultIntegerBits), // size in bytes
	})
}

// elabImport resolves `import(path)` through the per-compilation cache
// keyed by absolute path (spec §4.4.8, §8 scenario 5): a driver-supplied
// resolver (see internal/driver) is responsible for actually parsing and
// elaborating the target file and registering it here via RegisterImport
// before the first call that needs it is elaborated.
func (e *Elaborator) elabImport(n *ast.Call) *value.Value {
	if len(n.Args) != 1 {
		e.fail(errors.KindArityMismatch, n.Pos(), "import expects exactly 1 argument")
	}
	lit, ok := n.Args[0].(*ast.StringLit)
	if !ok {
		e.fail(errors.KindIntrinsicMisuse, n.Pos(), "import requires a string literal path")
	}
	mod, ok := e.importCache[lit.Raw]
	if !ok {
		e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "import path %q was not resolved before elaboration (driver must call RegisterImport first)", lit.Raw)
	}
	return mod
}

// RegisterImport seeds the import cache so `import(path)` resolves
// without re-entering the driver mid-elaboration (spec §6 notes the
// driver performs file resolution, not the elaborator itself).
func (e *Elaborator) RegisterImport(path string, mod *value.Value) {
	e.importCache[path] = mod
}

// elabEmbed implements `embed(bytes…)` (spec §4.4.8): its arguments are
// compile-time byte-like values (a byte, an integer narrowed to a byte,
// or an array/array-view of bytes), concatenated into source text, which
// is then re-parsed as a single expression and elaborated under the
// call's own wanted_type — quasi-quotation, not a file-embed. The parsed
// expression is stashed in embedExprs so the evaluator can run it later
// without re-parsing (see EmbedExpr).
func (e *Elaborator) elabEmbed(n *ast.Call, ctx TemporaryContext) *value.Value {
	if len(n.Args) == 0 {
		e.fail(errors.KindArityMismatch, n.Pos(), "embed expects at least 1 argument")
	}
	var buf []byte
	for _, a := range n.Args {
		buf = appendEmbedBytes(e, n.Pos(), buf, e.foldConstant(a))
	}
	expr, diags := parser.ParseExpression(string(buf), e.path)
	if len(diags) > 0 {
		e.fail(errors.KindPatternMatchFailure, n.Pos(), "embed: %s", diags[0].Error())
	}
	e.embedExprs[n] = expr
	return e.setType(n, e.Elaborate(expr, TemporaryContext{WantedType: ctx.WantedType}))
}

// appendEmbedBytes flattens one embed() argument's folded value onto buf.
func appendEmbedBytes(e *Elaborator, pos lexer.Position, buf []byte, v *value.Value) []byte {
	switch v.Kind {
	case value.KindByte:
		return append(buf, v.ByteVal)
	case value.KindInteger:
		return append(buf, byte(v.IntVal))
	case value.KindArray:
		for _, el := range v.Elems {
			buf = appendEmbedBytes(e, pos, buf, el)
		}
		return buf
	case value.KindArrayView:
		for _, el := range v.ViewOf {
			buf = appendEmbedBytes(e, pos, buf, el)
		}
		return buf
	}
	e.fail(errors.KindTypeMismatch, pos, "embed argument must be a byte, integer, or byte array/array-view")
	return buf
}

// EmbedExpr returns the expression parsed from call's concatenated
// compile-time byte arguments, or nil if call was never elaborated as an
// `embed` intrinsic. Wired by the driver into Evaluator.EmbedExpr.
func (e *Elaborator) EmbedExpr(call *ast.Call) ast.Expression {
	return e.embedExprs[call]
}
