package parser

import (
	"testing"

	"github.com/corelang/corec/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, errs := ParseSource(src, "test.lang")
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("parse error: %s", e.Error())
		}
		t.FailNow()
	}
	return mod
}

func TestParseDefineSimple(t *testing.T) {
	mod := mustParse(t, `define answer = 42;`)
	if len(mod.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Statements))
	}
	def, ok := mod.Statements[0].(*ast.Define)
	if !ok {
		t.Fatalf("statement is %T, want *ast.Define", mod.Statements[0])
	}
	if def.Name != "answer" {
		t.Errorf("Name = %q, want answer", def.Name)
	}
	num, ok := def.Value.(*ast.Number)
	if !ok || num.Raw != "42" {
		t.Errorf("Value = %#v, want Number(42)", def.Value)
	}
}

func TestParseGenericDefineWithWhere(t *testing.T) {
	mod := mustParse(t, `define clamp<T: Ordered> where T != none = fn(a: T, b: T) -> T { a };`)
	def := mod.Statements[0].(*ast.Define)
	if len(def.Generics) != 1 || def.Generics[0].Name != "T" {
		t.Fatalf("Generics = %#v", def.Generics)
	}
	if _, ok := def.Generics[0].Constraint.(*ast.Identifier); !ok {
		t.Errorf("constraint = %#v, want Identifier", def.Generics[0].Constraint)
	}
	if def.Where == nil {
		t.Errorf("Where clause not parsed")
	}
	fn, ok := def.Value.(*ast.Function)
	if !ok {
		t.Fatalf("Value = %T, want *ast.Function", def.Value)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("Params = %#v", fn.Params)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	mod := mustParse(t, `define x = 1 + 2 * 3;`)
	def := mod.Statements[0].(*ast.Define)
	bin, ok := def.Value.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("Value = %T, want *ast.BinaryOp", def.Value)
	}
	if bin.OpLiteral != "+" {
		t.Fatalf("top operator = %q, want +", bin.OpLiteral)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.OpLiteral != "*" {
		t.Fatalf("rhs = %#v, want 2 * 3", bin.Right)
	}
}

func TestParseIfElseAsExpression(t *testing.T) {
	mod := mustParse(t, `define x = if a > b { a } else { b };`)
	def := mod.Statements[0].(*ast.Define)
	ifExpr, ok := def.Value.(*ast.If)
	if !ok {
		t.Fatalf("Value = %T, want *ast.If", def.Value)
	}
	if ifExpr.Else == nil {
		t.Fatalf("Else not parsed")
	}
	if !ifExpr.Then.(*ast.Block).HasResult {
		t.Errorf("then-block HasResult = false, want true")
	}
}

func TestParseStaticFor(t *testing.T) {
	mod := mustParse(t, `
		define unrolled = fn() -> none {
			static for item in items { print(item); }
		};
	`)
	def := mod.Statements[0].(*ast.Define)
	fn := def.Value.(*ast.Function)
	body := fn.Body.(*ast.Block)
	forStmt, ok := body.Statements[0].(*ast.ExprStatement).Value.(*ast.For)
	if !ok {
		t.Fatalf("statement value = %T, want *ast.For", body.Statements[0].(*ast.ExprStatement).Value)
	}
	if !forStmt.Static {
		t.Errorf("Static = false, want true")
	}
	if len(forStmt.Bindings) != 1 || forStmt.Bindings[0] != "item" {
		t.Errorf("Bindings = %#v", forStmt.Bindings)
	}
}

func TestParseStructTypeWithOperatorOverload(t *testing.T) {
	mod := mustParse(t, `
		define Vec = struct {
			x: flt64;
			y: flt64;
			fn +(other: Vec) -> Vec { self };
		};
	`)
	def := mod.Statements[0].(*ast.Define)
	st, ok := def.Value.(*ast.StructType)
	if !ok {
		t.Fatalf("Value = %T, want *ast.StructType", def.Value)
	}
	if len(st.Fields) != 2 {
		t.Fatalf("Fields = %#v", st.Fields)
	}
	if len(st.Overloads) != 1 || st.Overloads[0].Op != "+" {
		t.Fatalf("Overloads = %#v", st.Overloads)
	}
}

func TestParseGlobalArrayType(t *testing.T) {
	mod := mustParse(t, `global buf: [16]byte;`)
	g, ok := mod.Statements[0].(*ast.Global)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Global", mod.Statements[0])
	}
	arr, ok := g.Type.(*ast.ArrayType)
	if !ok {
		t.Fatalf("Type = %T, want *ast.ArrayType", g.Type)
	}
	if _, ok := arr.Len.(*ast.Number); !ok {
		t.Errorf("Len = %#v, want Number", arr.Len)
	}
}

func TestParseSliceVsIndex(t *testing.T) {
	mod := mustParse(t, `define a = xs[0]; `)
	def := mod.Statements[0].(*ast.Define)
	if _, ok := def.Value.(*ast.ArrayAccess); !ok {
		t.Fatalf("Value = %T, want *ast.ArrayAccess", def.Value)
	}

	mod = mustParse(t, `define b = xs[0..2];`)
	def = mod.Statements[0].(*ast.Define)
	if _, ok := def.Value.(*ast.Slice); !ok {
		t.Fatalf("Value = %T, want *ast.Slice", def.Value)
	}
}

func TestParseSwitchWithDefault(t *testing.T) {
	mod := mustParse(t, `
		define describe = fn(n: int) -> none {
			switch n {
				case 0 { print("zero"); }
				case 1, 2 { print("small"); }
				case { print("other"); }
			}
		};
	`)
	def := mod.Statements[0].(*ast.Define)
	fn := def.Value.(*ast.Function)
	body := fn.Body.(*ast.Block)
	sw := body.Statements[0].(*ast.ExprStatement).Value.(*ast.Switch)
	if len(sw.Cases) != 3 {
		t.Fatalf("Cases = %d, want 3", len(sw.Cases))
	}
	if len(sw.Cases[2].Values) != 0 {
		t.Errorf("default arm Values = %#v, want empty", sw.Cases[2].Values)
	}
}

func TestParseAssignment(t *testing.T) {
	mod := mustParse(t, `
		define touch = fn() -> none {
			var x = 1;
			x = 2;
		};
	`)
	def := mod.Statements[0].(*ast.Define)
	fn := def.Value.(*ast.Function)
	body := fn.Body.(*ast.Block)
	assign, ok := body.Statements[1].(*ast.Assignment)
	if !ok {
		t.Fatalf("statement = %T, want *ast.Assignment", body.Statements[1])
	}
	if _, ok := assign.Target.(*ast.Identifier); !ok {
		t.Errorf("Target = %#v, want Identifier", assign.Target)
	}
}

func TestParseResultType(t *testing.T) {
	mod := mustParse(t, `define f = fn() -> Value ! Failure { ok(1) };`)
	def := mod.Statements[0].(*ast.Define)
	fn := def.Value.(*ast.Function)
	rt, ok := fn.ReturnType.(*ast.ResultType)
	if !ok {
		t.Fatalf("ReturnType = %T, want *ast.ResultType", fn.ReturnType)
	}
	if _, ok := rt.Ok.(*ast.Identifier); !ok {
		t.Errorf("Ok = %#v, want *ast.Identifier", rt.Ok)
	}
	if _, ok := rt.Err.(*ast.Identifier); !ok {
		t.Errorf("Err = %#v, want *ast.Identifier", rt.Err)
	}
}

func TestParserAccumulatesMultipleErrors(t *testing.T) {
	_, errs := ParseSource(`define x = ; define y = ;`, "test.lang")
	if len(errs) < 2 {
		t.Fatalf("got %d errors, want at least 2 (non-fatal accumulation)", len(errs))
	}
}
