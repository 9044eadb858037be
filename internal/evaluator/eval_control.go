package evaluator

import (
	"fmt"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/value"
)

// EvalModule binds every top-level Global and Define into env (the
// module environment the driver builds once per file) in source order,
// as elaborator.ElaborateModule elaborates them, so a global's
// initializer may call any define declared before it. A define of a
// struct, enum or union type is bound to its elaborated type value. Any
// top-level `run { }` blocks execute last, in source order.
func (ev *Evaluator) EvalModule(mod *ast.Module, env *Env) {
	for _, stmt := range mod.Statements {
		switch s := stmt.(type) {
		case *ast.Global:
			var v *value.Value
			if s.Value != nil {
				v = ev.Eval(s.Value, env)
			} else {
				v = zeroValue(ev.TypeOf(s))
			}
			env.Declare(s.Name, v)
		case *ast.Define:
			switch s.Value.(type) {
			case *ast.StructType, *ast.EnumType, *ast.TaggedUnionType, *ast.UnionType:
				env.Declare(s.Name, ev.TypeOf(s.Value))
			default:
				env.Declare(s.Name, ev.Eval(s.Value, env))
			}
		}
	}
	for _, stmt := range mod.Statements {
		switch s := stmt.(type) {
		case *ast.ExprStatement:
			if r, ok := s.Value.(*ast.Run); ok {
				ev.Eval(r, env)
			}
		case *ast.Run:
			ev.Eval(s.Body, env)
		}
	}
}

// EvalBlock runs n's statements in a child environment. Defer bodies are
// collected and run in LIFO order via a Go defer, so they still execute
// when a return/break signal unwinds straight through the block (spec
// §4.4.7, §5).
func (ev *Evaluator) EvalBlock(n *ast.Block, env *Env) (result *value.Value) {
	blockEnv := NewEnv(env)
	var deferred []ast.Expression
	defer func() {
		for i := len(deferred) - 1; i >= 0; i-- {
			ev.Eval(deferred[i], blockEnv)
		}
	}()

	result = value.None
	for i, stmt := range n.Statements {
		if d, ok := stmt.(*ast.Defer); ok {
			deferred = append(deferred, d.Body)
			continue
		}
		if n.HasResult && i == len(n.Statements)-1 {
			if es, ok := stmt.(*ast.ExprStatement); ok {
				result = ev.Eval(es.Value, blockEnv)
				continue
			}
		}
		ev.EvalStatement(stmt, blockEnv)
	}
	return result
}

// EvalStatement executes stmt for effect.
func (ev *Evaluator) EvalStatement(stmt ast.Statement, env *Env) {
	switch s := stmt.(type) {
	case *ast.ExprStatement:
		ev.Eval(s.Value, env)
	case *ast.Assignment:
		ev.evalAssignment(s, env)
	case *ast.Return:
		v := value.None
		if s.Value != nil {
			v = ev.Eval(s.Value, env)
		}
		panic(returnSignal{frameID: ev.currentFrameID(), value: v})
	case *ast.Break:
		v := value.None
		if s.Value != nil {
			v = ev.Eval(s.Value, env)
		}
		panic(breakSignal{loopID: ev.currentLoopID(), value: v})
	case *ast.Defer:
		// reachable only when a Defer appears outside EvalBlock's own
		// statement scan (shouldn't happen from parsed input); no-op.
	case *ast.Run:
		ev.Eval(s.Body, env)
	case *ast.Variable:
		ev.evalVariableStmt(s, env)
	case *ast.Global:
		if _, ok := env.Get(s.Name); !ok && s.Value != nil {
			env.Declare(s.Name, ev.Eval(s.Value, env))
		}
	case *ast.Define:
		// compile-time binding; nothing to do at runtime.
	case *ast.OperatorOverloadDecl:
		// resolved by callOverload via the struct's AST, not a scope entry.
	default:
		panic(fmt.Sprintf("evaluator: unhandled statement node %T", stmt))
	}
}

func (ev *Evaluator) evalAssignment(s *ast.Assignment, env *Env) {
	cell := ev.lvalueCell(s.Target, env)
	v := ev.Eval(s.Value, env)
	*cell = *v
}

func (ev *Evaluator) evalVariableStmt(s *ast.Variable, env *Env) {
	var v *value.Value
	if s.Value != nil {
		v = ev.Eval(s.Value, env)
	} else {
		v = zeroValue(ev.TypeOf(s))
	}
	cp := *v
	env.Declare(s.Name, &cp)
}

// zeroValue builds the default value of t for an uninitialized `var`.
func zeroValue(t *value.Value) *value.Value {
	if t == nil {
		return value.None
	}
	switch t.Kind {
	case value.KindInteger:
		return value.NewInteger(0, t.Signed, t.BitSize)
	case value.KindFloat:
		return value.NewFloat(0)
	case value.KindByte:
		return value.NewByte(0)
	case value.KindBoolean:
		return value.NewBool(false)
	case value.KindPointer:
		return value.NewPointer(t.PointeeType, nil)
	case value.KindOptional:
		return value.NewAbsent(t.InnerType)
	case value.KindArray:
		elems := make([]*value.Value, t.Length)
		for i := range elems {
			elems[i] = zeroValue(t.Elem)
		}
		return value.NewArray(t.Elem, elems)
	case value.KindArrayView:
		return value.NewArrayView(t.Elem, nil, 0, 0)
	case value.KindStruct:
		fields := make([]*value.Value, len(t.FieldTypes))
		for i, ft := range t.FieldTypes {
			fields[i] = zeroValue(ft)
		}
		return value.NewStruct(t.StructDecl, fields)
	case value.KindTuple:
		elems := make([]*value.Value, len(t.ElemTypes))
		for i, et := range t.ElemTypes {
			elems[i] = zeroValue(et)
		}
		return value.NewTuple(t.ElemTypes, elems)
	case value.KindEnum:
		return value.NewEnum(t.EnumDecl, 0)
	}
	return value.None
}

func (ev *Evaluator) evalIf(n *ast.If, env *Env) *value.Value {
	cond := ev.Eval(n.Cond, env)
	if n.Binding != "" && cond.Kind == value.KindOptional {
		if cond.Present {
			childEnv := NewEnv(env)
			childEnv.Declare(n.Binding, cond.Inner)
			return ev.Eval(n.Then, childEnv)
		}
		if n.Else != nil {
			return ev.Eval(n.Else, env)
		}
		return value.None
	}
	if cond.BoolVal {
		return ev.Eval(n.Then, env)
	}
	if n.Else != nil {
		return ev.Eval(n.Else, env)
	}
	return value.None
}

// runLoopBody evaluates body, recovering a breakSignal addressed to
// loopID and reporting whether one was caught.
func (ev *Evaluator) runLoopBody(body ast.Expression, env *Env, loopID int) (result *value.Value, broke bool) {
	defer func() {
		if r := recover(); r != nil {
			if bs, ok := r.(breakSignal); ok && bs.loopID == loopID {
				result, broke = bs.value, true
				return
			}
			panic(r)
		}
	}()
	ev.Eval(body, env)
	return nil, false
}

func (ev *Evaluator) evalWhile(n *ast.While, env *Env) *value.Value {
	loopID := ev.pushLoop()
	defer ev.popLoop()
	ran := false
	for {
		cond := ev.Eval(n.Cond, env)
		if !cond.BoolVal {
			break
		}
		ran = true
		if result, broke := ev.runLoopBody(n.Body, env, loopID); broke {
			return result
		}
	}
	if !ran && n.Else != nil {
		return ev.Eval(n.Else, env)
	}
	return value.None
}

// forIterable adapts an array/array-view/range value to positional
// access, so evalFor can zip several Items by index uniformly.
type forIterable struct {
	length int
	at     func(i int) *value.Value
}

func makeForIterable(v *value.Value) forIterable {
	if v.Kind == value.KindRange {
		lo, hi := v.Low.IntVal, v.High.IntVal
		n := int(hi - lo + 1)
		if n < 0 {
			n = 0
		}
		signed, bits := v.Low.Signed, v.Low.BitSize
		return forIterable{length: n, at: func(i int) *value.Value {
			return value.NewInteger(lo+int64(i), signed, bits)
		}}
	}
	elems := elemsOf(v)
	return forIterable{length: len(elems), at: func(i int) *value.Value { return elems[i] }}
}

func (ev *Evaluator) evalFor(n *ast.For, env *Env) *value.Value {
	loopID := ev.pushLoop()
	defer ev.popLoop()

	iterables := make([]forIterable, len(n.Items))
	length := -1
	for i, it := range n.Items {
		iterables[i] = makeForIterable(ev.Eval(it, env))
		if length == -1 || iterables[i].length < length {
			length = iterables[i].length
		}
	}
	if length <= 0 {
		if n.Else != nil {
			return ev.Eval(n.Else, env)
		}
		return value.None
	}
	for k := 0; k < length; k++ {
		childEnv := NewEnv(env)
		for i, b := range n.Bindings {
			childEnv.Declare(b, iterables[i].at(k))
		}
		if result, broke := ev.runLoopBody(n.Body, childEnv, loopID); broke {
			return result
		}
	}
	return value.None
}

func tagIndex(decl *ast.TaggedUnionType, name string) int {
	for i, f := range decl.Items {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// subjectTagIndex resolves name against subject's tagged-union item
// list, falling back to the implicit "ok"/"err" pair a `! ` result
// type's anonymous union always carries (TaggedDecl is nil precisely
// then, mirroring elaborator.taggedItemNames).
func subjectTagIndex(subject *value.Value, name string) int {
	if subject.TaggedDecl != nil {
		return tagIndex(subject.TaggedDecl, name)
	}
	switch name {
	case "ok":
		return 0
	case "err":
		return 1
	}
	return -1
}

func enumIndex(decl *ast.EnumType, name string) int {
	for i, it := range decl.Items {
		if it == name {
			return i
		}
	}
	return -1
}

func (ev *Evaluator) evalSwitch(n *ast.Switch, env *Env) *value.Value {
	subject := ev.Eval(n.Cond, env)
	var defaultCase *ast.SwitchCase
	for ci := range n.Cases {
		c := &n.Cases[ci]
		if len(c.Values) == 0 {
			defaultCase = c
			continue
		}
		for _, caseExpr := range c.Values {
			if subject.Kind == value.KindTaggedUnion {
				if ident, ok := caseExpr.(*ast.Identifier); ok {
					if subject.Tag == subjectTagIndex(subject, ident.Name) {
						childEnv := env
						if c.Binding != "" {
							childEnv = NewEnv(env)
							childEnv.Declare(c.Binding, subject.Payload)
						}
						return ev.Eval(c.Body, childEnv)
					}
					continue
				}
			}
			if subject.Kind == value.KindEnum {
				if ident, ok := caseExpr.(*ast.Identifier); ok {
					if subject.EnumIndex == enumIndex(subject.EnumDecl, ident.Name) {
						return ev.Eval(c.Body, env)
					}
					continue
				}
			}
			if value.Equal(subject, ev.Eval(caseExpr, env)) {
				return ev.Eval(c.Body, env)
			}
		}
	}
	if defaultCase != nil {
		return ev.Eval(defaultCase.Body, env)
	}
	return value.None
}

// evalCatch evaluates a result-typed Value: the Ok payload passes
// through untouched, the Err payload is bound to ErrBinding and Body
// runs (producing an Ok-typed value, or diverging via return/break).
func (ev *Evaluator) evalCatch(n *ast.Catch, env *Env) *value.Value {
	v := ev.Eval(n.Value, env)
	if v.Tag == 0 {
		return v.Payload
	}
	childEnv := NewEnv(env)
	childEnv.Declare(n.ErrBinding, v.Payload)
	return ev.Eval(n.Body, childEnv)
}
