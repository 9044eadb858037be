package elaborator

import (
	"testing"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/parser"
	"github.com/corelang/corec/internal/value"
)

// mustElaborate parses and elaborates src, turning the elaborator's
// errors.Fatal panic (if any) into an immediate test failure instead of
// letting it escape uncaught.
func mustElaborate(t *testing.T, src string) (*Elaborator, *ast.Module) {
	t.Helper()
	mod, diags := parser.ParseSource(src, "test.lang")
	if len(diags) > 0 {
		t.Fatalf("parse error: %s", diags[0].Error())
	}
	e := New(src, "test.lang")
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(errors.Fatal); ok {
				t.Fatalf("elaboration failed: %s", f.Format())
			}
			panic(r)
		}
	}()
	e.ElaborateModule(mod)
	return e, mod
}

// elaborateExpectFail parses and elaborates src, expecting elaboration
// to raise errors.Fatal of kind want; anything else fails the test.
func elaborateExpectFail(t *testing.T, src string, want errors.Kind) {
	t.Helper()
	mod, diags := parser.ParseSource(src, "test.lang")
	if len(diags) > 0 {
		t.Fatalf("parse error: %s", diags[0].Error())
	}
	e := New(src, "test.lang")
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected elaboration to fail with %v, but it succeeded", want)
		}
		f, ok := r.(errors.Fatal)
		if !ok {
			panic(r)
		}
		if f.Diagnostic.Kind != want {
			t.Errorf("failed with %v, want %v (%s)", f.Diagnostic.Kind, want, f.Format())
		}
	}()
	e.ElaborateModule(mod)
}

// TestGenericIdentityMemoization covers the "generic identity,
// memoized by static signature" scenario: two call sites that fold to
// the same argument type share one instantiation, a third with a
// different argument type gets its own.
func TestGenericIdentityMemoization(t *testing.T) {
	e, _ := mustElaborate(t, `
		define identity<T: type> where T != none = fn(x: T) -> T { x };
		define a = identity(1);
		define b = identity(2);
		define c = identity(true);
	`)
	if len(e.instantiations) != 2 {
		t.Errorf("instantiations = %d, want 2 (int shared between a/b, bool separate for c)", len(e.instantiations))
	}
}

// TestStructOperatorOverloadAssignmentTarget covers the "struct with
// operator [] overload used as an assignment target" scenario: the
// overload's declared ^flt64 return type becomes the pointee type the
// assigned value must match, not the pointer type itself.
func TestStructOperatorOverloadAssignmentTarget(t *testing.T) {
	e, mod := mustElaborate(t, `
		define Vec = struct {
			x: flt64;
			y: flt64;
			fn [](i: uint) -> ^flt64 { &self.*.x };
		};
		global v: Vec = Vec.{ x: 1.0, y: 2.0 };
		run {
			v[0] = 9.0;
		}
	`)
	runNode := mod.Statements[2].(*ast.ExprStatement).Value.(*ast.Run)
	block := runNode.Body.(*ast.Block)
	assign := block.Statements[0].(*ast.Assignment)
	access := assign.Target.(*ast.ArrayAccess)

	targetType := e.TypeOf(access)
	if targetType == nil || targetType.Kind != value.KindPointer {
		t.Fatalf("TypeOf(v[0]) = %#v, want a pointer (the [] overload's declared ^flt64)", targetType)
	}
	if targetType.PointeeType.Kind != value.KindFloat {
		t.Errorf("pointee kind = %v, want KindFloat", targetType.PointeeType.Kind)
	}
}

// TestTaggedUnionIs covers the "tagged_union value checked with is"
// scenario: a receiver of tagged-union kind resolves the tag name
// against its declaration and types the result as an optional wrapping
// that item's payload type, recording which item resolved.
func TestTaggedUnionIs(t *testing.T) {
	e := New("", "test.lang")
	pos := lexer.Position{Path: "test.lang", Line: 1, Column: 1}

	decl := ast.NewTaggedUnionType(pos, []ast.Field{
		{Name: "some", Type: ast.NewIdentifier(pos, "int")},
		{Name: "none", Type: ast.NewIdentifier(pos, "none")},
	})
	unionType := value.TaggedUnionTypeOf(decl, []*value.Value{value.IntegerType(true, 64), value.None})
	e.scope.DeclareLocal("r", unionType, nil)

	isNode := ast.NewIs(pos, ast.NewIdentifier(pos, "r"), ast.NewIdentifier(pos, "some"))
	got := e.elabIs(isNode)
	if got.Kind != value.KindOptional {
		t.Fatalf("elabIs result kind = %v, want KindOptional", got.Kind)
	}
	if got.InnerType.Kind != value.KindInteger {
		t.Errorf("optional inner type = %v, want KindInteger", got.InnerType.Kind)
	}
	data := e.DataOf(isNode)
	if data == nil || data.ResolvedKind != "some" {
		t.Errorf("ResolvedKind = %#v, want \"some\"", data)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("expected a panic resolving an unknown tagged-union item")
			}
		}()
		e.elabIs(ast.NewIs(pos, ast.NewIdentifier(pos, "r"), ast.NewIdentifier(pos, "absent")))
	}()
}

// TestStaticForUnroll covers the "static for unrolls over a
// compile-time array, one fresh static id per iteration" scenario.
func TestStaticForUnroll(t *testing.T) {
	e := New("", "test.lang")
	pos := lexer.Position{Path: "test.lang", Line: 1, Column: 1}

	arr := value.NewArray(value.IntegerType(true, 64), []*value.Value{
		value.NewInteger(10, true, 64),
		value.NewInteger(20, true, 64),
		value.NewInteger(30, true, 64),
	})
	e.moduleScope.DeclareDefine("items", value.ArrayTypeOf(3, value.IntegerType(true, 64)), arr)

	forNode := ast.NewFor(pos, true,
		[]ast.Expression{ast.NewIdentifier(pos, "items")},
		[]string{"item"},
		ast.NewIdentifier(pos, "item"),
		nil)

	result := e.elabStaticFor(forNode)
	if result.Kind != value.KindInteger || !result.IsType {
		t.Fatalf("result of static-for body = %#v, want the last iteration's elaborated int type", result)
	}
	if e.nextStaticID != 3 {
		t.Errorf("nextStaticID = %d, want 3 (one fresh id per unrolled iteration)", e.nextStaticID)
	}
}

// TestCastPolicy covers the "cast policy: pointer<->pointer and a
// one-directional int->byte narrowing only" scenario (spec §8 scenario
// 6): the reverse byte->int widening is ordinary implicit promotion
// elsewhere in the language, so casting it is rejected.
func TestCastPolicy(t *testing.T) {
	mustElaborate(t, `
		define b = cast byte 65;
	`)
	elaborateExpectFail(t, `
		define b = cast byte 65;
		define back = cast int b;
	`, errors.KindTypeMismatch)
	elaborateExpectFail(t, `define x = cast flt64 5;`, errors.KindTypeMismatch)
}

// TestWhereConstraintRejection covers the "where clause gates
// instantiation" scenario: the constraint is folded under the
// instantiation's own static scope (so it sees the bound static
// parameter), and a false fold is a pattern-match-failure diagnostic at
// the call site, not a silently-accepted instantiation.
func TestWhereConstraintRejection(t *testing.T) {
	mustElaborate(t, `
		define scaleBy<T: type> where n > 0 = fn(static n: int, x: T) -> T { x };
		define a = scaleBy(2, 5);
	`)
	elaborateExpectFail(t, `
		define scaleBy<T: type> where n > 0 = fn(static n: int, x: T) -> T { x };
		define b = scaleBy(0, 5);
	`, errors.KindPatternMatchFailure)
}

// TestTupleLiteral covers the "a `.{...}` literal with no struct
// context infers a structural tuple" scenario: positional element
// types and compile-time-constant positional access, rejecting a named
// field since a tuple has no field-name table.
func TestTupleLiteral(t *testing.T) {
	e, mod := mustElaborate(t, `
		define t = .{1, true};
		define first = t[0];
	`)
	tDef := mod.Statements[0].(*ast.Define)
	tType := e.TypeOf(tDef.Value)
	if tType.Kind != value.KindTuple {
		t.Fatalf("TypeOf(.{1, true}) = %#v, want KindTuple", tType)
	}
	if len(tType.ElemTypes) != 2 || tType.ElemTypes[0].Kind != value.KindInteger || tType.ElemTypes[1].Kind != value.KindBoolean {
		t.Fatalf("tuple element types = %#v, want [int, bool]", tType.ElemTypes)
	}
	firstDef := mod.Statements[1].(*ast.Define)
	if got := e.TypeOf(firstDef.Value); got.Kind != value.KindInteger {
		t.Errorf("TypeOf(t[0]) = %#v, want KindInteger", got)
	}
	elaborateExpectFail(t, `define t = .{x: 1, y: 2};`, errors.KindTypeMismatch)
}

// TestEmbedQuasiQuotation covers the "embed concatenates compile-time
// bytes, re-parses as an expression, elaborates under wanted_type"
// scenario (spec §4.4.8): embed is quasi-quotation, not a file read.
func TestEmbedQuasiQuotation(t *testing.T) {
	e, mod := mustElaborate(t, `
		global answer: int = embed(#52, #50);
	`)
	g := mod.Statements[0].(*ast.Global)
	call := g.Value.(*ast.Call)
	if got := e.TypeOf(call); got == nil || got.Kind != value.KindInteger {
		t.Fatalf("TypeOf(embed(...)) = %#v, want KindInteger (wanted_type from `int` annotation)", got)
	}
	expr := e.EmbedExpr(call)
	if expr == nil {
		t.Fatalf("EmbedExpr(call) = nil, want the parsed '42' expression (bytes #52 #50 spell \"42\")")
	}
	if num, ok := expr.(*ast.Number); !ok || num.Raw != "42" {
		t.Errorf("EmbedExpr(call) = %#v, want a Number node with Raw \"42\"", expr)
	}
}
