package elaborator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// elabAssignment type-checks `target = value;` (spec §4.4.9): the
// target must be a mutable l-value, and the right-hand side must be
// assignable to its type. A struct `operator []` overload used as an
// assignment target (spec §8 scenario 2) is expected to return ^T; the
// pointee type is what the assigned value must match.
func (e *Elaborator) elabAssignment(n *ast.Assignment) {
	if !e.isLValue(n.Target) {
		e.fail(errors.KindControlFlowMisuse, n.Pos(), "assignment target is not an l-value")
	}

	var targetType *value.Value
	if ident, ok := n.Target.(*ast.Identifier); ok {
		b, found := e.scope.Resolve(ident.Name)
		if !found {
			e.fail(errors.KindUnresolvedIdentifier, n.Pos(), "unresolved identifier %q", ident.Name)
		}
		if !b.Mutable {
			e.fail(errors.KindControlFlowMisuse, n.Pos(), "cannot assign to immutable binding %q", ident.Name)
		}
		targetType = b.Type
		e.setType(ident, b.Type)
	} else {
		targetType = e.Elaborate(n.Target, TemporaryContext{AssignValue: true})
	}
	if targetType.Kind == value.KindPointer {
		if _, isArrAccess := n.Target.(*ast.ArrayAccess); isArrAccess {
			targetType = targetType.PointeeType
		}
	}

	valType := e.Elaborate(n.Value, TemporaryContext{WantedType: targetType, AssignValue: true})
	if !value.TypeAssignable(targetType, valType) {
		e.fail(errors.KindTypeMismatch, n.Pos(), "cannot assign %s to target of type %s", value.String(valType), value.String(targetType))
	}
}
