package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// declWhere records a generic Define's `where` clause, keyed by the
// underlying Function node, since ast.Function carries no back-pointer
// to the Define that introduced it (DESIGN.md Open Question (a)).
var declWhere = map[*ast.Function]ast.Expression{}

// elabDefine binds Name to Value's compile-time value (spec §4.4.3). A
// generic define (non-empty Generics) is only partially elaborated now:
// its body is type-checked by instantiateAndCall, at a fresh static id,
// once per distinct static-argument signature; call sites with the same
// signature share that instantiation.
func (e *Elaborator) elabDefine(n *ast.Define) {
	if len(n.Generics) == 0 {
		t := e.Elaborate(n.Value, TemporaryContext{})
		val := t
		if t.Kind == value.KindFunction {
			val.StaticID = 0
		} else {
			val = e.tryFoldValue(n.Value, t)
		}
		e.moduleScope.DeclareDefine(n.Name, t, val)
		return
	}

	fn, ok := n.Value.(*ast.Function)
	if !ok {
		e.fail(errors.KindArityMismatch, n.Pos(), "generic 'define' value must be a function literal")
	}
	names := make([]string, len(n.Generics))
	for i, g := range n.Generics {
		names[i] = g.Name
	}
	declGenerics[fn] = names
	if n.Where != nil {
		declWhere[fn] = n.Where
	}
	template := value.FunctionTypeOf(fn, nil, nil, true)
	e.moduleScope.DeclareDefine(n.Name, template, template)
}

// tryFoldValue best-effort folds a define's right-hand side to a
// compile-time constant (for use as a static argument elsewhere);
// expressions outside the limited constant grammar keep a nil Value —
// they're still usable as ordinary typed references, just not as static
// arguments.
func (e *Elaborator) tryFoldValue(expr ast.Expression, t *value.Value) *value.Value {
	switch expr.(type) {
	case *ast.Number, *ast.Boolean:
		return e.foldConstant(expr)
	}
	if t.IsType {
		return t
	}
	return nil
}

func (e *Elaborator) elabVariable(n *ast.Variable) {
	var declaredType *value.Value
	if n.Type != nil {
		declaredType = e.Elaborate(n.Type, TemporaryContext{})
	}
	var valType *value.Value
	if n.Value != nil {
		valType = e.Elaborate(n.Value, TemporaryContext{WantedType: declaredType})
		if declaredType != nil && !value.TypeAssignable(declaredType, valType) {
			e.fail(errors.KindTypeMismatch, n.Pos(), "initializer type %s does not match declared type %s", value.String(valType), value.String(declaredType))
		}
	} else if declaredType == nil {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'var %s' needs either a type or an initializer", n.Name)
	}
	finalType := declaredType
	if finalType == nil {
		finalType = valType
	}
	e.setType(n, finalType)
	if n.IsStatic {
		if n.Value == nil {
			e.fail(errors.KindPatternMatchFailure, n.Pos(), "'static %s' requires a compile-time initializer", n.Name)
		}
		e.scope.DeclareStaticVar(n.Name, finalType, e.foldConstant(n.Value))
		return
	}
	e.scope.DeclareLocal(n.Name, finalType, nil)
}

func (e *Elaborator) elabGlobal(n *ast.Global) {
	if _, ok := e.moduleScope.Locals[n.Name]; ok {
		return // a global of this name is already declared; this one is ignored
	}
	var declaredType *value.Value
	if n.Type != nil {
		declaredType = e.Elaborate(n.Type, TemporaryContext{})
	}
	var valType *value.Value
	if n.Value != nil {
		valType = e.Elaborate(n.Value, TemporaryContext{WantedType: declaredType})
	}
	finalType := declaredType
	if finalType == nil {
		finalType = valType
	}
	if finalType == nil {
		e.fail(errors.KindTypeMismatch, n.Pos(), "'global %s' needs either a type or an initializer", n.Name)
	}
	e.setType(n, finalType)
	e.moduleScope.DeclareLocal(n.Name, finalType, nil)
}

// elabFunctionLiteral fully instantiates a non-generic function literal
// at the elaborator's current static id (spec §4.4.5). A generic
// template's Function node is never reached here directly — it is only
// elaborated through instantiateAndCall, under a fresh static id per
// instantiation.
func (e *Elaborator) elabFunctionLiteral(n *ast.Function) *value.Value {
	paramTypes := make([]*value.Value, len(n.Params))
	fnScope := NewScope(e.scope)
	hasStatic := false
	for i, p := range n.Params {
		if p.Static {
			hasStatic = true
			continue
		}
		pt := e.Elaborate(p.Type, TemporaryContext{})
		paramTypes[i] = pt
		fnScope.DeclareParam(p.Name, pt)
	}
	if hasStatic {
		return e.setType(n, value.FunctionTypeOf(n, paramTypes, nil, true))
	}

	var retType *value.Value
	if n.ReturnType != nil {
		retType = e.Elaborate(n.ReturnType, TemporaryContext{})
	}
	prev := e.scope
	e.scope = fnScope
	e.funcReturnStack = append(e.funcReturnStack, retType)
	bodyType := e.Elaborate(n.Body, TemporaryContext{WantedType: retType})
	e.funcReturnStack = e.funcReturnStack[:len(e.funcReturnStack)-1]
	e.scope = prev

	if retType == nil {
		retType = bodyType
	} else if !value.TypeAssignable(retType, bodyType) && !blockDiverges(e, n.Body) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "function body type %s does not match declared return type %s", value.String(bodyType), value.String(retType))
	}
	return e.setType(n, value.FunctionTypeOf(n, paramTypes, retType, false))
}
