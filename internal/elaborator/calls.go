package elaborator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/value"
)

// elabCall dispatches intrinsic calls (callee is an *ast.Internal) to
// intrinsics.go, otherwise resolves the callee to a function binding and
// elaborates/instantiates it (spec §4.4.5).
func (e *Elaborator) elabCall(n *ast.Call, ctx TemporaryContext) *value.Value {
	if internal, ok := n.Callee.(*ast.Internal); ok {
		return e.elabIntrinsicCall(n, internal, ctx)
	}

	ident, ok := n.Callee.(*ast.Identifier)
	if !ok {
		// A called expression that isn't a bare name (e.g. a struct
		// member holding a function value): elaborate it structurally
		// and call through its function type.
		callee := e.Elaborate(n.Callee, TemporaryContext{})
		if callee.Kind != value.KindFunction {
			e.fail(errors.KindTypeMismatch, n.Pos(), "called expression is not a function")
		}
		return e.setType(n, e.elabPlainCall(n, callee, nil))
	}

	b, ok := e.scope.Resolve(ident.Name)
	if !ok {
		e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "unresolved identifier %q", ident.Name)
	}
	if b.Value == nil || b.Value.Kind != value.KindFunction {
		e.fail(errors.KindTypeMismatch, n.Pos(), "%q is not callable", ident.Name)
	}
	fnVal := b.Value
	if fnVal.Incomplete {
		return e.setType(n, e.instantiateAndCall(n, fnVal))
	}
	return e.setType(n, e.elabPlainCall(n, fnVal, nil))
}

// elabPlainCall type-checks a fully-instantiated (non-generic) call.
func (e *Elaborator) elabPlainCall(n *ast.Call, fnVal *value.Value, prepend []*value.Value) *value.Value {
	params := fnVal.ParamTypes
	args := n.Args
	variadic := len(fnVal.Decl.Params) > 0 && fnVal.Decl.Params[len(fnVal.Decl.Params)-1].Variadic
	if !variadic && len(prepend)+len(args) != len(params) {
		e.fail(errors.KindArityMismatch, n.Pos(), "call expects %d arguments, got %d", len(params)-len(prepend), len(args))
	}
	for i, arg := range args {
		pi := i + len(prepend)
		var want *value.Value
		if pi < len(params) {
			want = params[pi]
		} else if variadic {
			want = params[len(params)-1]
		}
		got := e.Elaborate(arg, TemporaryContext{WantedType: want})
		if want != nil && !value.TypeAssignable(want, got) {
			e.fail(errors.KindTypeMismatch, arg.Pos(), "argument %d: expected %s, got %s", pi+1, value.String(want), value.String(got))
		}
	}
	return fnVal.ReturnType
}

// instantiateAndCall resolves a generic Define's static parameters from
// the call's argument types (spec §4.4.3, §4.4.5): each generic name is
// bound by finding the first declared parameter whose type expression is
// exactly that identifier and taking the corresponding call argument's
// elaborated type; each `static name: Type` parameter is bound to the
// folded compile-time value of its corresponding argument. Memoized by
// value-equality of the resulting signature (spec §8 scenario 1).
func (e *Elaborator) instantiateAndCall(n *ast.Call, template *value.Value) *value.Value {
	decl := template.Decl
	sig, sigKey := e.computeStaticSignature(n, decl)

	if inst, ok := e.instantiations[sigKey]; ok {
		return e.elabPlainCall(n, inst, nil)
	}

	staticID := e.allocStaticID()
	prevID, prevScope := e.curStaticID, e.scope
	e.curStaticID = staticID
	e.scope = NewScope(e.moduleScope)
	for name, v := range sig {
		e.scope.DeclareStatic(name, typeOfStaticValue(v), v)
	}

	if where, ok := declWhere[decl]; ok {
		cond := e.foldConstant(where)
		if cond.Kind != value.KindBoolean {
			e.fail(errors.KindTypeMismatch, n.Pos(), "'where' clause must fold to bool")
		}
		if !cond.BoolVal {
			e.fail(errors.KindPatternMatchFailure, n.Pos(), "'where' constraint rejected this instantiation (%s)", sigKey)
		}
	}

	paramTypes := make([]*value.Value, len(decl.Params))
	fnScope := NewScope(e.scope)
	for i, p := range decl.Params {
		if p.Static {
			// Bound by name in sig, not re-declared as a runtime param.
			b, _ := e.scope.Resolve(p.Name)
			paramTypes[i] = b.Type
			continue
		}
		pt := e.Elaborate(p.Type, TemporaryContext{})
		paramTypes[i] = pt
		fnScope.DeclareParam(p.Name, pt)
	}
	e.scope = fnScope
	var retType *value.Value
	if decl.ReturnType != nil {
		retType = e.Elaborate(decl.ReturnType, TemporaryContext{})
	}
	bodyType := e.Elaborate(decl.Body, TemporaryContext{WantedType: retType})
	if retType == nil {
		retType = bodyType
	} else if !value.TypeAssignable(retType, bodyType) && !blockDiverges(e, decl.Body) {
		e.fail(errors.KindTypeMismatch, decl.Pos(), "function body type %s does not match declared return type %s", value.String(bodyType), value.String(retType))
	}

	inst := e.alloc(value.NewFunction(decl, paramTypes, retType, staticID, e.scope))
	e.instantiations[sigKey] = inst

	e.curStaticID, e.scope = prevID, prevScope
	return e.elabPlainCall(n, inst, nil)
}

func typeOfStaticValue(v *value.Value) *value.Value {
	if v.IsType {
		return v
	}
	switch v.Kind {
	case value.KindInteger:
		return value.IntegerType(v.Signed, v.BitSize)
	case value.KindFloat:
		return value.FloatType()
	case value.KindBoolean:
		return value.BoolType()
	case value.KindByte:
		return value.ByteType()
	}
	return v
}

// computeStaticSignature binds every Generic and static Param to a
// value.Value and returns both the binding map and a stable memo key.
func (e *Elaborator) computeStaticSignature(n *ast.Call, decl *ast.Function) (map[string]*value.Value, string) {
	sig := map[string]*value.Value{}

	// static Params: bind directly from the corresponding argument,
	// folding a literal constant where possible.
	for i, p := range decl.Params {
		if !p.Static {
			continue
		}
		if i >= len(n.Args) {
			e.fail(errors.KindArityMismatch, n.Pos(), "missing static argument for parameter %q", p.Name)
		}
		sig[p.Name] = e.foldConstant(n.Args[i])
	}

	// Generic/inferred parameters: structurally match against the first
	// sibling parameter whose declared type is exactly that identifier.
	names := genericNames(decl)
	for _, name := range names {
		if _, ok := sig[name]; ok {
			continue
		}
		found := false
		for i, p := range decl.Params {
			if id, ok := p.Type.(*ast.Identifier); ok && id.Name == name {
				if p.Variadic {
					e.fail(errors.KindPatternMatchFailure, n.Pos(), "generic %q only appears in a variadic tail parameter", name)
				}
				if i >= len(n.Args) {
					e.fail(errors.KindArityMismatch, n.Pos(), "missing argument to infer generic %q", name)
				}
				sig[name] = e.Elaborate(n.Args[i], TemporaryContext{})
				found = true
				break
			}
		}
		if !found {
			e.fail(errors.KindPatternMatchFailure, n.Pos(), "cannot infer generic %q from call arguments", name)
		}
	}

	parts := make([]string, 0, len(sig))
	for name, v := range sig {
		parts = append(parts, name+"="+value.String(v))
	}
	sort.Strings(parts)
	return sig, fmt.Sprintf("%p|%s", decl, strings.Join(parts, ","))
}

// genericNames returns the Define-level generic names attached to decl,
// recovered from the elaborator's define table (set by elabDefine).
func genericNames(decl *ast.Function) []string {
	return declGenerics[decl]
}

// declGenerics records, per Function node, the Generics list of the
// Define that introduced it — populated by elabDefine, since ast.Function
// itself carries no back-pointer to its enclosing Define.
var declGenerics = map[*ast.Function][]string{}

// foldConstant evaluates the limited set of compile-time-constant
// expression forms a static parameter argument (or a `where`/`static
// if` condition) may take: literals, references to other static/define
// bindings, and the comparison/logical/arithmetic operators over those —
// enough to express a `where` constraint like `N > 0` or `T != none`.
// Anything richer belongs to `run { }` + the evaluator, not
// static-parameter folding.
func (e *Elaborator) foldConstant(expr ast.Expression) *value.Value {
	switch node := expr.(type) {
	case *ast.Number:
		e.Elaborate(node, TemporaryContext{})
		return e.numericLiteralValue(node)
	case *ast.Boolean:
		return value.NewBool(node.Value)
	case *ast.Character:
		e.Elaborate(node, TemporaryContext{})
		if len(node.Raw) > 1 && node.Raw[0] == '#' {
			iv, _ := parseIntLiteral(node.Raw[1:])
			return value.NewByte(byte(iv))
		}
		if len(node.Raw) > 0 {
			return value.NewByte(node.Raw[0])
		}
		return value.NewByte(0)
	case *ast.Identifier:
		b, ok := e.scope.Resolve(node.Name)
		if !ok || b.Value == nil {
			e.fail(errors.KindPatternMatchFailure, node.Pos(), "%q is not a compile-time constant", node.Name)
		}
		return b.Value
	case *ast.Unary:
		return e.foldUnary(node)
	case *ast.BinaryOp:
		return e.foldBinary(node)
	default:
		// A type expression (e.g. a static type parameter given as
		// `int`, `Vec`, `[4]byte`) folds to its own elaborated type
		// value.
		return e.Elaborate(expr, TemporaryContext{})
	}
}

// foldUnary folds a unary operator over a compile-time-constant operand.
func (e *Elaborator) foldUnary(n *ast.Unary) *value.Value {
	v := e.foldConstant(n.Operand)
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
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "unknown unary operator %q", n.OpLiteral)
	return nil
}

// foldBinary folds a binary operator over compile-time-constant operands
// — the real arithmetic/comparison this package's `where`/`static if`
// conditions need, as opposed to elabBinary's type-level check (which
// only ever establishes that the *result* is bool/int, not what value it
// folds to).
func (e *Elaborator) foldBinary(n *ast.BinaryOp) *value.Value {
	left := e.foldConstant(n.Left)
	switch n.Op {
	case lexer.AND:
		return value.NewBool(left.BoolVal && e.foldConstant(n.Right).BoolVal)
	case lexer.OR:
		return value.NewBool(left.BoolVal || e.foldConstant(n.Right).BoolVal)
	}
	right := e.foldConstant(n.Right)
	switch n.Op {
	case lexer.EQ:
		return value.NewBool(value.Equal(left, right))
	case lexer.NOT_EQ:
		return value.NewBool(!value.Equal(left, right))
	}
	lf, rf := foldNumeric(left), foldNumeric(right)
	switch n.Op {
	case lexer.LESS:
		return value.NewBool(lf < rf)
	case lexer.GREATER:
		return value.NewBool(lf > rf)
	case lexer.LESS_EQ:
		return value.NewBool(lf <= rf)
	case lexer.GREATER_EQ:
		return value.NewBool(lf >= rf)
	case lexer.PLUS:
		return foldArith(left, lf+rf)
	case lexer.MINUS:
		return foldArith(left, lf-rf)
	case lexer.ASTERISK:
		return foldArith(left, lf*rf)
	case lexer.SLASH:
		return foldArith(left, lf/rf)
	case lexer.PERCENT:
		return value.NewInteger(left.IntVal%right.IntVal, left.Signed, left.BitSize)
	}
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "unknown binary operator %q", n.OpLiteral)
	return nil
}

// foldNumeric extracts v's scalar magnitude as a float64 for ordering
// comparisons, regardless of whether it was folded as an integer, float,
// or byte.
func foldNumeric(v *value.Value) float64 {
	switch v.Kind {
	case value.KindFloat:
		return v.FloatVal
	case value.KindByte:
		return float64(v.ByteVal)
	default:
		return float64(v.IntVal)
	}
}

// foldArith rebuilds an arithmetic fold's result in left's own kind
// (float stays float; everything else folds to an integer), mirroring
// elabBinary's "result takes the left operand's type" rule.
func foldArith(left *value.Value, result float64) *value.Value {
	if left.Kind == value.KindFloat {
		return value.NewFloat(result)
	}
	return value.NewInteger(int64(result), left.Signed, left.BitSize)
}

// elabCallMethod resolves `receiver.method(args)` against the receiver
// struct type's operator-overload list, the receiver pointer passed as
// argument 0 (spec §4.4.6).
func (e *Elaborator) elabCallMethod(n *ast.CallMethod, ctx TemporaryContext) *value.Value {
	recv := e.Elaborate(n.Receiver, TemporaryContext{WantPointer: true})
	if recv.Kind != value.KindStruct {
		e.fail(errors.KindTypeMismatch, n.Pos(), "method call on a non-struct value (%s)", value.String(recv))
	}
	argTypes := make([]*value.Value, len(n.Args))
	for i, a := range n.Args {
		argTypes[i] = e.Elaborate(a, TemporaryContext{})
	}
	ret := e.resolveOperatorOverload(n.Pos(), recv, n.Method, argTypes)
	e.setData(n, &NodeData{ResolvedKind: "overload:" + n.Method})
	return e.setType(n, ret)
}

// resolveOperatorOverload searches recv's struct declaration for an
// overload named op whose non-receiver parameter types match argTypes,
// elaborating that overload's body once (cached by the decl node) and
// returning its return type.
func (e *Elaborator) resolveOperatorOverload(pos lexer.Position, recv *value.Value, op string, argTypes []*value.Value) *value.Value {
	decl := recv.StructDecl
	if decl == nil {
		e.failOverload(pos, op)
	}
	for _, ov := range decl.Overloads {
		if ov.Op != op || len(ov.Params) != len(argTypes) {
			continue
		}
		match := true
		paramTypes := make([]*value.Value, len(ov.Params))
		for i, p := range ov.Params {
			pt := e.Elaborate(p.Type, TemporaryContext{})
			paramTypes[i] = pt
			if !value.TypeAssignable(pt, argTypes[i]) {
				match = false
			}
		}
		if !match {
			continue
		}
		return e.elabOverloadBody(ov, recv, paramTypes)
	}
	e.failOverload(pos, op)
	return nil
}

func (e *Elaborator) failOverload(pos lexer.Position, op string) {
	errors.Raise(errors.KindOperatorNotFound, pos, e.source, "no operator overload %q matches these argument types", op)
}

func (e *Elaborator) elabOverloadBody(ov *ast.OperatorOverloadDecl, recv *value.Value, paramTypes []*value.Value) *value.Value {
	if t := e.TypeOf(ov); t != nil {
		return t
	}
	prevScope := e.scope
	e.scope = NewScope(e.moduleScope)
	e.scope.DeclareLocal("self", value.PointerTypeOf(recv), nil)
	for i, p := range ov.Params {
		e.scope.DeclareParam(p.Name, paramTypes[i])
	}
	var retType *value.Value
	if ov.ReturnType != nil {
		retType = e.Elaborate(ov.ReturnType, TemporaryContext{})
	}
	bodyType := e.Elaborate(ov.Body, TemporaryContext{WantedType: retType})
	if retType == nil {
		retType = bodyType
	}
	e.scope = prevScope
	return e.setType(ov, retType)
}
