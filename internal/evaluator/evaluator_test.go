package evaluator

import (
	"testing"

	"github.com/corelang/corec/internal/elaborator"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/parser"
	"github.com/corelang/corec/internal/value"
)

// run parses, elaborates, and evaluates src's module-level globals,
// defines, and run{} blocks, returning the evaluator and its module
// environment so a test can then pull out a define and call it.
func run(t *testing.T, src string) (*Evaluator, *Env) {
	t.Helper()
	mod, diags := parser.ParseSource(src, "test.lang")
	if len(diags) > 0 {
		t.Fatalf("parse error: %s", diags[0].Error())
	}
	elab := elaborator.New(src, "test.lang")
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(errors.Fatal); ok {
				t.Fatalf("elaboration failed: %s", f.Format())
			}
			panic(r)
		}
	}()
	elab.ElaborateModule(mod)

	ev := New(elab.TypeOf, src)
	env := NewEnv(nil)
	ev.EvalModule(mod, env)
	return ev, env
}

func mustGet(t *testing.T, env *Env, name string) *value.Value {
	t.Helper()
	v, ok := env.Get(name)
	if !ok {
		t.Fatalf("%q not found in module env", name)
	}
	return v
}

// TestReturnUnwindsToOwningFrame covers non-local `return`: an early
// return from inside nested ifs/blocks reaches only the call frame
// that issued it, and an outer call proceeds normally afterward.
func TestReturnUnwindsToOwningFrame(t *testing.T) {
	_, env := run(t, `
		define pick = fn(x: int) -> int {
			if x < 0 {
				return 0;
			}
			if x > 100 {
				return 100;
			}
			x
		};
		global low: int = pick(-5);
		global mid: int = pick(42);
		global high: int = pick(999);
	`)
	if v := mustGet(t, env, "low"); v.IntVal != 0 {
		t.Errorf("pick(-5) = %d, want 0", v.IntVal)
	}
	if v := mustGet(t, env, "mid"); v.IntVal != 42 {
		t.Errorf("pick(42) = %d, want 42", v.IntVal)
	}
	if v := mustGet(t, env, "high"); v.IntVal != 100 {
		t.Errorf("pick(999) = %d, want 100", v.IntVal)
	}
}

// TestBreakUnwindsToInnermostLoop covers `break` addressed to the
// nearest enclosing loop only: an inner loop's break must not also
// stop the outer loop's remaining iterations.
func TestBreakUnwindsToInnermostLoop(t *testing.T) {
	_, env := run(t, `
		define countPairs = fn() -> int {
			var total: int = 0;
			var outer: int = 0;
			while outer < 3 {
				var inner: int = 0;
				while inner < 10 {
					if inner == 2 {
						break;
					}
					total = total + 1;
					inner = inner + 1;
				}
				outer = outer + 1;
			}
			total
		};
		global n: int = countPairs();
	`)
	if v := mustGet(t, env, "n"); v.IntVal != 6 {
		t.Errorf("countPairs() = %d, want 6 (3 outer iterations x 2 inner before break)", v.IntVal)
	}
}

// TestOperatorOverloadDispatch covers a struct's `+` overload being
// invoked both from a `BinaryOp` (`a + b`) and confirms the result
// carries the overload's own computed fields rather than a structural
// field-wise default.
func TestOperatorOverloadDispatch(t *testing.T) {
	_, env := run(t, `
		define Vec = struct {
			x: flt64;
			y: flt64;
			fn +(other: Vec) -> Vec { Vec.{ x: self.*.x + other.x, y: self.*.y + other.y } };
		};
		global a: Vec = Vec.{ x: 1.0, y: 2.0 };
		global b: Vec = Vec.{ x: 10.0, y: 20.0 };
		global sum: Vec = a + b;
	`)
	sum := mustGet(t, env, "sum")
	if sum.Kind != value.KindStruct {
		t.Fatalf("sum.Kind = %v, want KindStruct", sum.Kind)
	}
	if sum.Fields[0].FloatVal != 11.0 || sum.Fields[1].FloatVal != 22.0 {
		t.Errorf("sum = {%v, %v}, want {11, 22}", sum.Fields[0].FloatVal, sum.Fields[1].FloatVal)
	}
}

// TestForZipsMultipleIterables covers `for a, b in xs, ys { }`
// iterating to the shorter of its two sources, with both bindings
// advancing in lockstep.
func TestForZipsMultipleIterables(t *testing.T) {
	_, env := run(t, `
		define zipSum = fn() -> int {
			var total: int = 0;
			for lo, hi in 1..3, 10..20 {
				total = total + lo + hi;
			}
			total
		};
		global result: int = zipSum();
	`)
	// 1..3 has 3 elements (1,2,3); 10..20 has 11 (10..20 inclusive) — the
	// shorter iterable (length 3) bounds the loop.
	// (1+10) + (2+11) + (3+12) = 11 + 13 + 15 = 39
	if v := mustGet(t, env, "result"); v.IntVal != 39 {
		t.Errorf("zipSum() = %d, want 39", v.IntVal)
	}
}

// TestSwitchTaggedUnionAndEnum covers switch dispatch on both a
// tagged-union subject (matched by item name, with a payload binding)
// and an enum subject (matched by item name, no payload).
func TestSwitchTaggedUnionAndEnum(t *testing.T) {
	_, env := run(t, `
		define Status = enum { ready, busy, done };

		define classify = fn(s: Status) -> int {
			switch s {
			case ready { 1 }
			case busy { 2 }
			case done { 3 }
			}
		};
		global busyCode: int = classify(busy);

		define describe = fn(r: int ! int) -> int {
			switch r {
			case ok |payload| { payload * 10 }
			case err |e| { 0 - e }
			}
		};
		global okResult: int = describe(ok(4));
		global errResult: int = describe(err(7));
	`)
	if v := mustGet(t, env, "busyCode"); v.IntVal != 2 {
		t.Errorf("classify(busy) = %d, want 2", v.IntVal)
	}
	if v := mustGet(t, env, "okResult"); v.IntVal != 40 {
		t.Errorf("describe(ok(4)) = %d, want 40", v.IntVal)
	}
	if v := mustGet(t, env, "errResult"); v.IntVal != -7 {
		t.Errorf("describe(err(7)) = %d, want -7", v.IntVal)
	}
}

// TestCatchUnwrapsResult covers `catch`: the ok path passes its
// payload through untouched, the err path binds the error and
// produces a same-typed fallback.
func TestCatchUnwrapsResult(t *testing.T) {
	_, env := run(t, `
		define safeDiv = fn(a: int, b: int) -> int ! int {
			if b == 0 {
				return err(-1);
			}
			ok(a / b)
		};
		define divOrDefault = fn(a: int, b: int) -> int {
			catch safeDiv(a, b) |e| {
				0 - e
			}
		};
		global clean: int = divOrDefault(10, 2);
		global fallback: int = divOrDefault(10, 0);
	`)
	if v := mustGet(t, env, "clean"); v.IntVal != 5 {
		t.Errorf("divOrDefault(10, 2) = %d, want 5", v.IntVal)
	}
	if v := mustGet(t, env, "fallback"); v.IntVal != 1 {
		t.Errorf("divOrDefault(10, 0) = %d, want 1 (0 - (-1))", v.IntVal)
	}
}

// TestIsOnResultValue covers `is` against a plain (anonymous,
// TaggedDecl-less) result value, both the ok and err arms, each
// unwrapped through the `if ... |binding| { }` optional-binding form.
func TestIsOnResultValue(t *testing.T) {
	_, env := run(t, `
		define safeDiv = fn(a: int, b: int) -> int ! int {
			if b == 0 {
				return err(-1);
			}
			ok(a / b)
		};
		define unwrapOrElse = fn(a: int, b: int) -> int {
			if safeDiv(a, b) is ok |v| {
				v
			} else {
				0 - 1
			}
		};
		global okCase: int = unwrapOrElse(9, 3);
		global errCase: int = unwrapOrElse(9, 0);
	`)
	if v := mustGet(t, env, "okCase"); v.IntVal != 3 {
		t.Errorf("unwrapOrElse(9, 3) = %d, want 3", v.IntVal)
	}
	if v := mustGet(t, env, "errCase"); v.IntVal != -1 {
		t.Errorf("unwrapOrElse(9, 0) = %d, want -1", v.IntVal)
	}
}
