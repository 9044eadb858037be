package evaluator

import (
	"fmt"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/value"
)

// Eval evaluates expr in env, consulting ev.TypeOf for nodes whose
// runtime representation depends on elaborated type information.
func (ev *Evaluator) Eval(expr ast.Expression, env *Env) *value.Value {
	switch n := expr.(type) {
	case *ast.Number:
		return ev.evalNumber(n)
	case *ast.StringLit:
		elems := make([]*value.Value, len(n.Raw))
		for i := 0; i < len(n.Raw); i++ {
			elems[i] = value.NewByte(n.Raw[i])
		}
		return value.NewArrayView(value.ByteType(), elems, 0, len(elems))
	case *ast.Character:
		return ev.evalCharacter(n)
	case *ast.Boolean:
		return value.NewBool(n.Value)
	case *ast.Null:
		t := ev.TypeOf(n)
		if t != nil && t.Kind == value.KindPointer {
			return value.NewPointer(t.PointeeType, nil)
		}
		return value.NewAbsent(value.Void)
	case *ast.Internal:
		if v, ok := env.Get(n.Name); ok && n.Name == "self" {
			return v
		}
		return ev.evalInternalBare(n)
	case *ast.Identifier:
		if v, ok := env.Get(n.Name); ok {
			return v
		}
		// Not a variable binding: it may be a bare enum-item name,
		// resolved at elaboration time against wanted_type rather than
		// any scope entry (spec §4.4.1).
		if t := ev.TypeOf(n); t != nil && t.Kind == value.KindEnum {
			if idx := enumIndex(t.EnumDecl, n.Name); idx >= 0 {
				return value.NewEnum(t.EnumDecl, idx)
			}
		}
		ev.fail(n, "unresolved identifier %q at runtime", n.Name)
		return nil
	case *ast.Unary:
		return ev.evalUnary(n, env)
	case *ast.BinaryOp:
		return ev.evalBinary(n, env)
	case *ast.Reference:
		return ev.evalReference(n, env)
	case *ast.Dereference:
		target := ev.Eval(n.Value, env)
		if target.Target == nil {
			ev.fail(n, "dereference of a null pointer")
		}
		return target.Target
	case *ast.Deoptional:
		opt := ev.Eval(n.Value, env)
		if !opt.Present {
			ev.fail(n, "deoptional of an absent value")
		}
		return opt.Inner
	case *ast.Range:
		low := ev.Eval(n.Low, env)
		high := ev.Eval(n.High, env)
		return value.NewRange(ev.TypeOf(n).ElemType, low, high)
	case *ast.Is:
		return ev.evalIs(n, env)
	case *ast.Cast:
		return ev.evalCast(n, env)
	case *ast.Call:
		return ev.evalCall(n, env)
	case *ast.CallMethod:
		return ev.evalCallMethod(n, env)
	case *ast.ArrayAccess:
		return ev.evalArrayAccess(n, env)
	case *ast.Slice:
		return ev.evalSlice(n, env)
	case *ast.StructureAccess:
		return ev.evalStructureAccess(n, env)
	case *ast.Structure:
		return ev.evalStructure(n, env)
	case *ast.Block:
		return ev.EvalBlock(n, env)
	case *ast.If:
		return ev.evalIf(n, env)
	case *ast.While:
		return ev.evalWhile(n, env)
	case *ast.For:
		return ev.evalFor(n, env)
	case *ast.Switch:
		return ev.evalSwitch(n, env)
	case *ast.Catch:
		return ev.evalCatch(n, env)
	case *ast.Run:
		return ev.EvalBlock(n.Body.(*ast.Block), env)
	case *ast.Function:
		t := ev.TypeOf(n)
		fn := *t
		fn.IsType = false
		fn.Closure = env
		return &fn
	default:
		panic(fmt.Sprintf("evaluator: unhandled expression node %T", expr))
	}
	return value.None
}

func (ev *Evaluator) evalNumber(n *ast.Number) *value.Value {
	t := ev.TypeOf(n)
	if n.IsFloat || (t != nil && t.Kind == value.KindFloat) {
		f := parseFloat(n.Raw)
		return value.NewFloat(f)
	}
	iv, _ := parseIntLiteral(n.Raw)
	if t != nil && t.Kind == value.KindByte {
		return value.NewByte(byte(iv))
	}
	signed, bits := true, 64
	if t != nil && t.Kind == value.KindInteger {
		signed, bits = t.Signed, t.BitSize
	}
	return value.NewInteger(iv, signed, bits)
}

func (ev *Evaluator) evalCharacter(n *ast.Character) *value.Value {
	raw := n.Raw
	if len(raw) > 0 && raw[0] == '#' {
		iv, _ := parseIntLiteral(raw[1:])
		return value.NewByte(byte(iv))
	}
	if len(raw) > 0 {
		return value.NewByte(raw[0])
	}
	return value.NewByte(0)
}

func (ev *Evaluator) evalUnary(n *ast.Unary, env *Env) *value.Value {
	v := ev.Eval(n.Operand, env)
	switch n.Op {
	case lexer.MINUS:
		if v.Kind == value.KindFloat {
			return value.NewFloat(-v.FloatVal)
		}
		return value.NewInteger(-v.IntVal, v.Signed, v.BitSize)
	case lexer.BANG:
		return value.NewBool(!v.BoolVal)
	case lexer.TILDE:
		return value.NewInteger(^v.IntVal, v.Signed, v.BitSize)
	}
	panic("evaluator: unknown unary operator")
}

func (ev *Evaluator) evalReference(n *ast.Reference, env *Env) *value.Value {
	target := ev.lvalueCell(n.Value, env)
	return value.NewPointer(ev.TypeOf(n.Value), target)
}

// lvalueCell returns the live *value.Value storage cell an l-value
// expression addresses, so `&x` and assignment-through-pointer see the
// same cell a plain read of `x` would.
func (ev *Evaluator) lvalueCell(expr ast.Expression, env *Env) *value.Value {
	switch n := expr.(type) {
	case *ast.Identifier:
		v, ok := env.Get(n.Name)
		if !ok {
			ev.fail(n, "unresolved identifier %q", n.Name)
		}
		return v
	case *ast.Dereference:
		return ev.Eval(n.Value, env).Target
	case *ast.StructureAccess:
		recv := ev.Eval(n.Value, env)
		idx := fieldIndex(recv, n.Name)
		return recv.Fields[idx]
	case *ast.ArrayAccess:
		left := ev.Eval(n.Left, env)
		idx := ev.Eval(n.Index, env)
		if left.Kind == value.KindStruct {
			ptr := ev.callOverload(n.Pos(), left, "[]", []*value.Value{idx})
			return ptr.Target
		}
		return elemsOf(left)[idx.IntVal]
	}
	panic(fmt.Sprintf("evaluator: %T is not an l-value", expr))
}

func fieldIndex(recv *value.Value, name string) int {
	for i, f := range recv.StructDecl.Fields {
		if f.Name == name {
			return i
		}
	}
	panic("evaluator: unknown field " + name)
}

func elemsOf(v *value.Value) []*value.Value {
	if v.ViewOf != nil {
		return v.ViewOf
	}
	return v.Elems
}
