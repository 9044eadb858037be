package evaluator

import (
	"fmt"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/value"
)

func (ev *Evaluator) evalCall(n *ast.Call, env *Env) *value.Value {
	if internal, ok := n.Callee.(*ast.Internal); ok {
		return ev.evalIntrinsic(n, internal, env)
	}
	fn := ev.Eval(n.Callee, env)
	args := make([]*value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.Eval(a, env)
	}
	return ev.callFunction(n.Pos().String(), fn, args)
}

func (ev *Evaluator) evalCallMethod(n *ast.CallMethod, env *Env) *value.Value {
	recv := ev.evalReceiver(n.Receiver, env)
	args := make([]*value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = ev.Eval(a, env)
	}
	return ev.callOverload(n.Pos(), recv, n.Method, args)
}

// evalReceiver evaluates a method-call receiver, preferring the live
// storage cell when the expression is an l-value so mutations through
// `self` inside the overload body are observed by the caller.
func (ev *Evaluator) evalReceiver(expr ast.Expression, env *Env) *value.Value {
	switch expr.(type) {
	case *ast.Identifier, *ast.StructureAccess, *ast.ArrayAccess, *ast.Dereference:
		return ev.lvalueCell(expr, env)
	}
	return ev.Eval(expr, env)
}

// callFunction invokes fn with args, a fresh Env parented by its
// closure; `return` inside Body unwinds via a panicked returnSignal
// recovered here, keyed by this call's frame id (spec §9's explicit
// per-call escape stack, not a single global flag).
func (ev *Evaluator) callFunction(pos string, fn *value.Value, args []*value.Value) (result *value.Value) {
	decl := fn.Decl
	closure, _ := fn.Closure.(*Env)
	callEnv := NewEnv(closure)
	for i, p := range decl.Params {
		if i < len(args) {
			callEnv.Declare(p.Name, args[i])
		}
	}
	frame := ev.pushFrame(nameOf(decl), pos)
	defer ev.popFrame()

	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok && rs.frameID == frame.id {
				result = rs.value
				return
			}
			panic(r)
		}
	}()
	return ev.Eval(decl.Body, callEnv)
}

// Call invokes a top-level function value directly, bypassing
// evalCall's AST-node plumbing — used by the driver to invoke a
// script's `main`-like entry define after module-level evaluation.
func (ev *Evaluator) Call(fn *value.Value, args []*value.Value) *value.Value {
	return ev.callFunction("<entry>", fn, args)
}

func nameOf(decl *ast.Function) string {
	if decl == nil {
		return "<anonymous>"
	}
	return "fn"
}

// callOverload invokes recv's operator overload named op with args,
// binding `self` to a pointer at recv's cell.
func (ev *Evaluator) callOverload(pos interface{ String() string }, recv *value.Value, op string, args []*value.Value) (result *value.Value) {
	var ov *ast.OperatorOverloadDecl
	for _, cand := range recv.StructDecl.Overloads {
		if cand.Op == op && len(cand.Params) == len(args) {
			ov = cand
			break
		}
	}
	if ov == nil {
		panic(fmt.Sprintf("evaluator: no overload %q resolved at runtime (elaboration should have rejected this)", op))
	}
	callEnv := NewEnv(nil)
	callEnv.Declare("self", value.NewPointer(nil, recv))
	for i, p := range ov.Params {
		if i < len(args) {
			callEnv.Declare(p.Name, args[i])
		}
	}
	ev.nextFrame++
	frameID := ev.nextFrame
	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok && rs.frameID == frameID {
				result = rs.value
				return
			}
			panic(r)
		}
	}()
	return ev.Eval(ov.Body, callEnv)
}

func (ev *Evaluator) evalArrayAccess(n *ast.ArrayAccess, env *Env) *value.Value {
	left := ev.Eval(n.Left, env)
	if left.Kind == value.KindStruct {
		idx := ev.Eval(n.Index, env)
		return ev.callOverload(n.Pos(), left, "[]", []*value.Value{idx})
	}
	idx := ev.Eval(n.Index, env)
	if left.Kind == value.KindTuple {
		return left.TupleElems[idx.IntVal]
	}
	elems := elemsOf(left)
	if idx.IntVal < 0 || int(idx.IntVal) >= len(elems) {
		ev.fail(n, "array index %d out of bounds (length %d)", idx.IntVal, len(elems))
	}
	return elems[idx.IntVal]
}

func (ev *Evaluator) evalSlice(n *ast.Slice, env *Env) *value.Value {
	left := ev.Eval(n.Left, env)
	lo := ev.Eval(n.Low, env)
	hi := ev.Eval(n.High, env)
	elems := elemsOf(left)
	return value.NewArrayView(left.Elem, elems, int(lo.IntVal), int(hi.IntVal-lo.IntVal))
}

func (ev *Evaluator) evalStructureAccess(n *ast.StructureAccess, env *Env) *value.Value {
	left := ev.Eval(n.Value, env)
	if left.Kind == value.KindModule {
		modEnv, _ := left.ModuleScope.(*Env)
		v, _ := modEnv.Get(n.Name)
		return v
	}
	return left.Fields[fieldIndex(left, n.Name)]
}

func (ev *Evaluator) evalStructure(n *ast.Structure, env *Env) *value.Value {
	t := ev.TypeOf(n)
	if t.Kind == value.KindTuple {
		elems := make([]*value.Value, len(n.Fields))
		for i, init := range n.Fields {
			elems[i] = ev.Eval(init.Value, env)
		}
		return value.NewTuple(t.ElemTypes, elems)
	}
	fields := make([]*value.Value, len(t.StructDecl.Fields))
	for i, init := range n.Fields {
		idx := i
		if init.Name != "" {
			idx = declFieldIndex(t.StructDecl, init.Name)
		}
		fields[idx] = ev.Eval(init.Value, env)
	}
	return value.NewStruct(t.StructDecl, fields)
}

func declFieldIndex(decl *ast.StructType, name string) int {
	for i, f := range decl.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
