package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// elabBlock elaborates every statement in sequence, except that Defer
// statements are elaborated after all the others; the final statement
// contributes the block's value when HasResult is set (spec §4.2).
func (e *Elaborator) elabBlock(n *ast.Block, ctx TemporaryContext) *value.Value {
	diverges := false
	var result *value.Value = value.None
	var defers []*ast.Defer

	for i, stmt := range n.Statements {
		last := i == len(n.Statements)-1
		if last && n.HasResult {
			exprStmt, ok := stmt.(*ast.ExprStatement)
			if !ok {
				panic("elaborator: Block.HasResult set but last statement is not an ExprStatement")
			}
			result = e.Elaborate(exprStmt.Value, ctx)
			continue
		}
		if d, ok := stmt.(*ast.Defer); ok {
			defers = append(defers, d)
			continue
		}
		e.ElaborateStatement(stmt)
		if d := e.DataOf(stmt); d != nil && d.Diverges {
			diverges = true
		}
	}
	for _, d := range defers {
		e.ElaborateStatement(d)
	}
	e.setData(n, &NodeData{Diverges: diverges})
	return e.setType(n, result)
}

// elabExprStatement enforces the unused-value rule (DESIGN.md Open
// Question (c)): a bare expression statement's type must be `none`.
func (e *Elaborator) elabExprStatement(n *ast.ExprStatement) {
	t := e.Elaborate(n.Value, TemporaryContext{})
	if t != nil && t.Kind != value.KindNone {
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "unused non-none value in statement position")
	}
}

func (e *Elaborator) elabReturn(n *ast.Return) {
	if len(e.funcReturnStack) == 0 {
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "'return' outside a function body")
	}
	want := e.funcReturnStack[len(e.funcReturnStack)-1]
	if n.Value == nil {
		if want != nil && want.Kind != value.KindNone {
			e.fail(errors.KindTypeMismatch, n.Pos(), "bare 'return' in a function returning %s", value.String(want))
		}
	} else {
		got := e.Elaborate(n.Value, TemporaryContext{WantedType: want})
		if want != nil && !value.TypeAssignable(want, got) {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'return' value %s does not match declared return type %s", value.String(got), value.String(want))
		}
	}
	e.setData(n, &NodeData{Diverges: true})
}

func (e *Elaborator) elabBreak(n *ast.Break) {
	if len(e.loopStack) == 0 {
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "'break' outside a loop")
	}
	ls := e.loopStack[len(e.loopStack)-1]
	if n.Value != nil {
		got := e.Elaborate(n.Value, TemporaryContext{WantedType: ls.breakType})
		if ls.seen && !value.TypeAssignable(ls.breakType, got) {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'break' values disagree across the loop")
		}
		ls.breakType, ls.seen = got, true
	}
	e.setData(n, &NodeData{Diverges: true})
}

func blockDiverges(e *Elaborator, n ast.Expression) bool {
	if d := e.DataOf(n); d != nil {
		return d.Diverges
	}
	return false
}

// elabIf elaborates both a runtime `if` and a `static if` (spec
// §4.4.7); the static form folds Cond at compile time and elaborates
// only the taken branch.
func (e *Elaborator) elabIf(n *ast.If, ctx TemporaryContext) *value.Value {
	if n.Static {
		cond := e.foldConstant(n.Cond)
		if cond.Kind != value.KindBoolean {
			e.fail(errors.KindTypeMismatch, n.Pos(), "static if condition must fold to bool")
		}
		if cond.BoolVal {
			return e.setType(n, e.Elaborate(n.Then, ctx))
		}
		if n.Else != nil {
			return e.setType(n, e.Elaborate(n.Else, ctx))
		}
		return e.setType(n, value.None)
	}

	condType := e.Elaborate(n.Cond, TemporaryContext{})
	thenScope := e.scope
	if n.Binding != "" {
		if condType.Kind != value.KindOptional {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'if |binding|' requires an optional condition")
		}
		thenScope = NewScope(e.scope)
		thenScope.DeclareLocal(n.Binding, condType.InnerType, nil)
	} else if condType.Kind != value.KindBoolean {
		e.fail(errors.KindTypeMismatch, n.Pos(), "if condition must be bool, got %s", value.String(condType))
	}

	prev := e.scope
	e.scope = thenScope
	thenType := e.Elaborate(n.Then, ctx)
	e.scope = prev

	if n.Else == nil {
		return e.setType(n, value.None)
	}
	elseType := e.Elaborate(n.Else, ctx)
	if !value.TypeAssignable(thenType, elseType) && !blockDiverges(e, n.Then) && !blockDiverges(e, n.Else) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "if/else branches disagree: %s vs %s", value.String(thenType), value.String(elseType))
	}
	if blockDiverges(e, n.Then) {
		return e.setType(n, elseType)
	}
	return e.setType(n, thenType)
}

func (e *Elaborator) elabWhile(n *ast.While, ctx TemporaryContext) *value.Value {
	condType := e.Elaborate(n.Cond, TemporaryContext{})
	if condType.Kind != value.KindBoolean {
		e.fail(errors.KindTypeMismatch, n.Pos(), "while condition must be bool, got %s", value.String(condType))
	}
	ls := &loopState{}
	e.loopStack = append(e.loopStack, ls)
	e.Elaborate(n.Body, TemporaryContext{})
	e.loopStack = e.loopStack[:len(e.loopStack)-1]
	if n.Else != nil {
		e.Elaborate(n.Else, TemporaryContext{})
	}
	if ls.seen {
		return e.setType(n, ls.breakType)
	}
	return e.setType(n, value.None)
}

// elabFor binds Bindings to the element type of each Items expression
// (spec §4.4.7). The static form unrolls a compile-time-known array,
// allocating a fresh static id per iteration so each iteration's body is
// elaborated (and can diagnose) independently.
func (e *Elaborator) elabFor(n *ast.For, ctx TemporaryContext) *value.Value {
	if n.Static {
		return e.setType(n, e.elabStaticFor(n))
	}

	loopScope := NewScope(e.scope)
	for i, item := range n.Items {
		it := e.Elaborate(item, TemporaryContext{})
		var elem *value.Value
		switch it.Kind {
		case value.KindArray, value.KindArrayView:
			elem = it.Elem
		case value.KindRange:
			elem = it.ElemType
		default:
			e.fail(errors.KindTypeMismatch, item.Pos(), "'for' requires an array, array-view, or range, got %s", value.String(it))
		}
		if i < len(n.Bindings) {
			loopScope.DeclareLocal(n.Bindings[i], elem, nil)
		}
	}
	prev := e.scope
	e.scope = loopScope
	ls := &loopState{}
	e.loopStack = append(e.loopStack, ls)
	e.Elaborate(n.Body, TemporaryContext{})
	e.loopStack = e.loopStack[:len(e.loopStack)-1]
	e.scope = prev
	if n.Else != nil {
		e.Elaborate(n.Else, TemporaryContext{})
	}
	if ls.seen {
		return e.setType(n, ls.breakType)
	}
	return e.setType(n, value.None)
}

func (e *Elaborator) elabStaticFor(n *ast.For) *value.Value {
	arrays := make([][]*value.Value, len(n.Items))
	length := -1
	for i, item := range n.Items {
		v := e.foldConstant(item)
		if v.Kind != value.KindArray {
			e.fail(errors.KindTypeMismatch, item.Pos(), "'static for' requires a compile-time array, got %s", value.String(v))
		}
		arrays[i] = v.Elems
		if length == -1 {
			length = len(v.Elems)
		} else if length != len(v.Elems) {
			e.fail(errors.KindArityMismatch, item.Pos(), "'static for' items have mismatched lengths")
		}
	}
	prevID, prevScope := e.curStaticID, e.scope
	var last *value.Value = value.None
	for iter := 0; iter < length; iter++ {
		id := e.allocStaticID()
		e.curStaticID = id
		e.scope = NewScope(prevScope)
		for i, name := range n.Bindings {
			if i < len(arrays) {
				e.scope.DeclareStatic(name, typeOfStaticValue(arrays[i][iter]), arrays[i][iter])
			}
		}
		last = e.Elaborate(n.Body, TemporaryContext{})
	}
	e.curStaticID, e.scope = prevID, prevScope
	if length <= 0 {
		return value.None
	}
	return last
}

// elabSwitch elaborates both runtime and static switches, and checks
// exhaustiveness over an enum/tagged-union subject when no default arm
// is present (spec §4.4.7, §8 scenario 3).
func (e *Elaborator) elabSwitch(n *ast.Switch, ctx TemporaryContext) *value.Value {
	if n.Static {
		return e.setType(n, e.elabStaticSwitch(n, ctx))
	}

	condType := e.Elaborate(n.Cond, TemporaryContext{})
	var resultType *value.Value
	anyTaken := false
	hasDefault := false
	covered := map[int]bool{}

	for _, c := range n.Cases {
		caseScope := e.scope
		if len(c.Values) == 0 {
			hasDefault = true
		}
		for _, val := range c.Values {
			if condType.Kind == value.KindTaggedUnion {
				ident, ok := val.(*ast.Identifier)
				if !ok {
					e.fail(errors.KindTypeMismatch, val.Pos(), "tagged-union case label must name an item")
				}
				idx := -1
				for i, name := range taggedItemNames(condType) {
					if name == ident.Name {
						idx = i
						break
					}
				}
				if idx < 0 {
					e.fail(errors.KindUnresolvedIdentifier, val.Pos(), "%q is not a member of this tagged union", ident.Name)
				}
				covered[idx] = true
				if c.Binding != "" {
					caseScope = NewScope(e.scope)
					caseScope.DeclareLocal(c.Binding, condType.FieldTypes[idx], nil)
				}
			} else if condType.Kind == value.KindEnum {
				ident, ok := val.(*ast.Identifier)
				if ok {
					for i, item := range condType.EnumDecl.Items {
						if item == ident.Name {
							covered[i] = true
						}
					}
				}
				got := e.Elaborate(val, TemporaryContext{WantedType: condType})
				if !value.TypeAssignable(condType, got) {
					e.fail(errors.KindTypeMismatch, val.Pos(), "case value does not match switch subject type")
				}
			} else {
				got := e.Elaborate(val, TemporaryContext{WantedType: condType})
				if !value.TypeAssignable(condType, got) {
					e.fail(errors.KindTypeMismatch, val.Pos(), "case value does not match switch subject type")
				}
			}
		}
		prev := e.scope
		e.scope = caseScope
		t := e.Elaborate(c.Body, ctx)
		e.scope = prev
		if anyTaken {
			if !value.TypeAssignable(resultType, t) && !blockDiverges(e, c.Body) {
				e.fail(errors.KindTypeMismatch, c.Body.Pos(), "switch case types disagree")
			}
		} else {
			resultType, anyTaken = t, true
		}
	}

	if !hasDefault && (condType.Kind == value.KindEnum || condType.Kind == value.KindTaggedUnion) {
		total := 0
		switch condType.Kind {
		case value.KindEnum:
			total = len(condType.EnumDecl.Items)
		case value.KindTaggedUnion:
			total = len(taggedItemNames(condType))
		}
		if len(covered) != total {
			e.fail(errors.KindExhaustiveness, n.Pos(), "switch does not cover every case and has no default arm")
		}
	}

	if !anyTaken {
		return e.setType(n, value.None)
	}
	return e.setType(n, resultType)
}

func (e *Elaborator) elabStaticSwitch(n *ast.Switch, ctx TemporaryContext) *value.Value {
	cond := e.foldConstant(n.Cond)
	for _, c := range n.Cases {
		if len(c.Values) == 0 {
			return e.Elaborate(c.Body, ctx)
		}
		for _, val := range c.Values {
			v := e.foldConstant(val)
			if value.Equal(cond, v) {
				return e.Elaborate(c.Body, ctx)
			}
		}
	}
	return value.None
}

// elabCatch binds the error payload of a failed result and elaborates
// Body on the failure path; the success path yields the result's ok
// payload directly.
func (e *Elaborator) elabCatch(n *ast.Catch, ctx TemporaryContext) *value.Value {
	resultType := e.Elaborate(n.Value, TemporaryContext{})
	if resultType.Kind != value.KindTaggedUnion || len(resultType.FieldTypes) != 2 {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'catch' requires a result (Ok ! Err) value, got %s", value.String(resultType))
	}
	okType, errType := resultType.FieldTypes[0], resultType.FieldTypes[1]
	prev := e.scope
	e.scope = NewScope(e.scope)
	e.scope.DeclareLocal(n.ErrBinding, errType, nil)
	bodyType := e.Elaborate(n.Body, TemporaryContext{WantedType: okType})
	e.scope = prev
	if !value.TypeAssignable(okType, bodyType) && !blockDiverges(e, n.Body) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'catch' body type %s does not match success type %s", value.String(bodyType), value.String(okType))
	}
	return e.setType(n, okType)
}

// elabRun elaborates a `run { }` block; the driver/evaluator is
// responsible for actually executing it at compile time once typing
// succeeds (spec §4.4.8, §5).
func (e *Elaborator) elabRun(n *ast.Run, ctx TemporaryContext) *value.Value {
	return e.setType(n, e.Elaborate(n.Body, ctx))
}
