package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// elabIdentifier resolves a name through the scope chain's precedence
// order (spec §4.4.2): local var, function param, static binding,
// static variable, block/module `define`. When wanted_type is an enum
// type, a name matching one of its items resolves as that enum value
// directly, without a scope-lookup fallback (spec §4.4.1).
func (e *Elaborator) elabIdentifier(n *ast.Identifier, ctx TemporaryContext) *value.Value {
	if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindEnum {
		for _, item := range ctx.WantedType.EnumDecl.Items {
			if item == n.Name {
				e.setData(n, &NodeData{ResolvedKind: "enum-item"})
				return e.setType(n, ctx.WantedType)
			}
		}
	}
	b, ok := e.scope.Resolve(n.Name)
	if !ok {
		e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "unresolved identifier %q", n.Name)
	}
	kind := "local"
	switch {
	case e.scopeHas(e.scope, b, func(s *Scope) map[string]*Binding { return s.Params }):
		kind = "param"
	case e.scopeHas(e.scope, b, func(s *Scope) map[string]*Binding { return s.StaticBindings }):
		kind = "static"
	case e.scopeHas(e.scope, b, func(s *Scope) map[string]*Binding { return s.StaticVars }):
		kind = "static-var"
	case e.scopeHas(e.scope, b, func(s *Scope) map[string]*Binding { return s.Defines }):
		kind = "define"
	}
	e.setData(n, &NodeData{ResolvedKind: kind})
	return e.setType(n, b.Type)
}

func (e *Elaborator) scopeHas(start *Scope, b *Binding, pick func(*Scope) map[string]*Binding) bool {
	for cur := start; cur != nil; cur = cur.Parent {
		for _, v := range pick(cur) {
			if v == b {
				return true
			}
		}
	}
	return false
}

// elabInternalBare types a bare intrinsic reference not immediately
// called, e.g. `self`, `byte`, `type`, `int` used as a type expression
// (spec §4.4.8).
func (e *Elaborator) elabInternalBare(n *ast.Internal) *value.Value {
	switch n.Name {
	case "self":
		sc := e.scope
		for sc != nil {
			if b, ok := sc.Locals["self"]; ok {
				return e.setType(n, b.Type)
			}
			sc = sc.Parent
		}
		e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "'self' used outside a method body")
	case "byte":
		return e.setType(n, value.ByteType())
	case "bool":
		return e.setType(n, value.BoolType())
	case "flt64":
		return e.setType(n, value.FloatType())
	case "type":
		return e.setType(n, value.TypeKind())
	case "uint":
		return e.setType(n, value.IntegerType(false, defaultIntegerBits))
	case "uint8":
		return e.setType(n, value.IntegerType(false, 8))
	case "int":
		return e.setType(n, value.IntegerType(true, defaultIntegerBits))
	case "c_char_size", "c_short_size", "c_int_size", "c_long_size":
		return e.setType(n, value.IntegerType(true, defaultIntegerBits))
	}
	e.fail(errors.KindIntrinsicMisuse, n.Pos(), "intrinsic %q cannot be used as a bare value", n.Name)
	return nil
}
