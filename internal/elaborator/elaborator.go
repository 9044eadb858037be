// Package elaborator implements resolution, bidirectional typing,
// generic monomorphization, operator-overload resolution and
// exhaustiveness checking over the internal/ast node set (spec §4.4,
// the specification's "hard part").
//
// Grounded on the teacher's internal/semantic/analyzer.go and pass.go
// for the scope/symbol-table shape and fatal-on-first-diagnostic
// convention, and on internal/semantic/operator_overloads.go /
// overload_resolution.go for the overload search-then-rewrite pattern.
// Monomorphization memoization is grounded on the Instantiation /
// finalizeInstantiations pattern in
// _examples/other_examples/9b34095a_funvibe-funxy__internal-analyzer-analyzer.go.go.
package elaborator

import (
	"fmt"

	"github.com/corelang/corec/internal/arena"
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/value"
)

// NodeData is the elaborator's per-node side annotation (spec §4.1
// `data_of`): whether the subtree provably diverges (always
// returns/breaks, exempting it from value-production equality checks
// across an if/switch's arms) and which overload or binding resolved an
// ambiguous reference, kept for diagnostics and for the evaluator.
type NodeData struct {
	Diverges     bool
	ResolvedKind string // "local" (also globals), "param", "static", "static-var", "define", "enum-item", "overload:<op>", or a tagged-union item name for `is`
}

type nodeKey struct {
	staticID int
	node     ast.Node
}

// TemporaryContext is the bidirectional-typing context threaded down
// through Elaborate calls (spec §4.4): WantedType drives literal and
// structure-literal typing, WantPointer asks an l-value position to
// yield a Pointer value rather than load through it, AssignValue marks
// an assignment's right-hand side, and the CallArgumentTypes/
// CallWantedType pair lets a callee's `wanted_type` see the shape of the
// argument list before committing to an instantiation.
type TemporaryContext struct {
	WantedType        *value.Value
	WantPointer       bool
	AssignValue       bool
	CallArgumentTypes []*value.Value
	CallWantedType    *value.Value
}

// Elaborator holds the per-compilation side tables the spec's
// `elaborate`/`type_of`/`data_of`/`reset` contract describes, keyed by
// (static_id, node) so a template (`static_id == 0`) and each of its
// monomorphizations can carry distinct node data for the same syntax.
type Elaborator struct {
	Values *arena.Arena[value.Value]

	types map[nodeKey]*value.Value
	datas map[nodeKey]*NodeData

	curStaticID  int
	nextStaticID int

	instantiations map[string]*value.Value // memo key: template Function node address + static-argument signature

	scope       *Scope
	moduleScope *Scope

	// importCache memoizes `import(path)` by absolute path (spec §4.4.8,
	// §8 scenario 5): re-importing the same file returns the cached
	// module value instead of re-parsing/re-elaborating.
	importCache map[string]*value.Value

	// embedExprs records, per `embed(...)` call node, the expression
	// parsed from that call's concatenated compile-time byte arguments
	// (spec §4.4.8), so the evaluator can run it without re-parsing.
	embedExprs map[*ast.Call]ast.Expression

	source string
	path   string

	funcReturnStack []*value.Value
	loopStack       []*loopState
}

// loopState accumulates the unified type of every `break value;` inside
// one While/For, so the loop expression's own type can be computed once
// elaboration of its body completes.
type loopState struct {
	breakType *value.Value
	seen      bool
}

// New builds an Elaborator over a module-level scope.
func New(source, path string) *Elaborator {
	e := &Elaborator{
		Values:         &arena.Arena[value.Value]{},
		types:          map[nodeKey]*value.Value{},
		datas:          map[nodeKey]*NodeData{},
		instantiations: map[string]*value.Value{},
		importCache:    map[string]*value.Value{},
		embedExprs:     map[*ast.Call]ast.Expression{},
		source:         source,
		path:           path,
	}
	e.moduleScope = NewScope(nil)
	e.scope = e.moduleScope
	// The internal prelude (spec §4.4.2, "falls through to the internal
	// prelude's top-level defines"): Type_Info is the only prelude name
	// this implementation constructs directly rather than parsing from a
	// .lang source file, since type_info_of's return shape is already
	// built in Go (typeInfoStructType).
	e.moduleScope.DeclareDefine("Type_Info", value.TypeKind(), e.typeInfoStructType())
	// `none` (spec §3.3's closed tag set, "plus ... a `none` sentinel") is
	// nameable in source the same way any other type-valued define is —
	// `fn() -> none { ... }`'s return annotation and a `where T != none`
	// constraint both resolve it through ordinary identifier lookup, not a
	// dedicated keyword.
	e.moduleScope.DeclareDefine("none", value.None, value.None)
	return e
}

// ModuleScope exposes the module-level scope so the driver can expose
// it as an importing module's qualified-access scope
// (value.NewModule's ModuleScope argument, spec §4.4.2).
func (e *Elaborator) ModuleScope() *Scope {
	return e.moduleScope
}

// alloc copies v into the elaborator's value arena and returns the
// stable slot address — used for the per-instantiation function-type
// values monomorphization produces in bulk, so a busy generic call site
// doesn't churn the regular Go heap one allocation per monomorphization
// (internal/arena, spec §9's pointer-stability invariant).
func (e *Elaborator) alloc(v *value.Value) *value.Value {
	return arena.New(e.Values, *v)
}

func (e *Elaborator) key(n ast.Node) nodeKey { return nodeKey{staticID: e.curStaticID, node: n} }

// type_of returns the previously-elaborated type of node under the
// elaborator's current static id, or nil if it has not been elaborated
// yet (spec §4.1).
func (e *Elaborator) TypeOf(n ast.Node) *value.Value {
	return e.types[e.key(n)]
}

// DataOf returns node's side annotation, or nil.
func (e *Elaborator) DataOf(n ast.Node) *NodeData {
	return e.datas[e.key(n)]
}

// Reset discards node's cached type/data under the current static id,
// forcing the next Elaborate(node, ...) to redo the work — used when a
// `wanted_type` changes between two call sites of the same generic body
// (spec §4.1 `reset`).
func (e *Elaborator) Reset(n ast.Node) {
	delete(e.types, e.key(n))
	delete(e.datas, e.key(n))
}

func (e *Elaborator) setType(n ast.Node, t *value.Value) *value.Value {
	e.types[e.key(n)] = t
	return t
}

func (e *Elaborator) setData(n ast.Node, d *NodeData) { e.datas[e.key(n)] = d }

func (e *Elaborator) fail(kind errors.Kind, pos lexer.Position, format string, args ...any) {
	errors.Raise(kind, pos, e.source, format, args...)
}

// allocStaticID hands out a fresh monomorphization id; id 0 is reserved
// for the template world (spec §4.4.3).
func (e *Elaborator) allocStaticID() int {
	e.nextStaticID++
	return e.nextStaticID
}

// ElaborateModule elaborates every top-level statement of mod in
// declaration order, at static id 0 (spec §4.4, §6 driver contract).
func (e *Elaborator) ElaborateModule(mod *ast.Module) {
	// A global is visible only to the statements after it, the same as a
	// define; its initializer may use any define declared before it.
	for _, stmt := range mod.Statements {
		e.ElaborateStatement(stmt)
	}
}

// Elaborate is the central dispatch spec §4.1 names: given a node and a
// TemporaryContext, produce (and cache) its type value. Every
// Expression variant has a case; unhandled cases are a local bug, not a
// user-facing diagnostic, so they panic with a plain Go panic rather
// than errors.Raise.
func (e *Elaborator) Elaborate(n ast.Expression, ctx TemporaryContext) *value.Value {
	if t := e.TypeOf(n); t != nil {
		return t
	}
	switch node := n.(type) {
	case *ast.Number:
		return e.elabNumber(node, ctx)
	case *ast.StringLit:
		return e.setType(node, value.ArrayViewTypeOf(value.ByteType()))
	case *ast.Character:
		return e.setType(node, value.ByteType())
	case *ast.Boolean:
		return e.setType(node, value.BoolType())
	case *ast.Null:
		return e.elabNull(node, ctx)
	case *ast.Identifier:
		return e.elabIdentifier(node, ctx)
	case *ast.Internal:
		return e.elabInternalBare(node)
	case *ast.Unary:
		return e.elabUnary(node, ctx)
	case *ast.BinaryOp:
		return e.elabBinary(node, ctx)
	case *ast.Reference:
		return e.elabReference(node)
	case *ast.Dereference:
		return e.elabDereference(node)
	case *ast.Deoptional:
		return e.elabDeoptional(node)
	case *ast.Range:
		return e.elabRange(node, ctx)
	case *ast.Is:
		return e.elabIs(node)
	case *ast.Cast:
		return e.elabCast(node)
	case *ast.Call:
		return e.elabCall(node, ctx)
	case *ast.CallMethod:
		return e.elabCallMethod(node, ctx)
	case *ast.ArrayAccess:
		return e.elabArrayAccess(node)
	case *ast.Slice:
		return e.elabSlice(node)
	case *ast.StructureAccess:
		return e.elabStructureAccess(node)
	case *ast.Structure:
		return e.elabStructure(node, ctx)
	case *ast.Block:
		return e.elabBlock(node, ctx)
	case *ast.If:
		return e.elabIf(node, ctx)
	case *ast.While:
		return e.elabWhile(node, ctx)
	case *ast.For:
		return e.elabFor(node, ctx)
	case *ast.Switch:
		return e.elabSwitch(node, ctx)
	case *ast.Catch:
		return e.elabCatch(node, ctx)
	case *ast.Run:
		return e.elabRun(node, ctx)
	case *ast.Function:
		return e.elabFunctionLiteral(node)
	case *ast.ArrayType:
		return e.elabArrayType(node)
	case *ast.ArrayViewType:
		return e.setType(node, value.ArrayViewTypeOf(e.Elaborate(node.Elem, TemporaryContext{})))
	case *ast.PointerType:
		return e.setType(node, value.PointerTypeOf(e.Elaborate(node.Pointee, TemporaryContext{})))
	case *ast.OptionalType:
		return e.setType(node, value.OptionalTypeOf(e.Elaborate(node.Inner, TemporaryContext{})))
	case *ast.ResultType:
		ok := e.Elaborate(node.Ok, TemporaryContext{})
		errT := e.Elaborate(node.Err, TemporaryContext{})
		return e.setType(node, value.TaggedUnionTypeOf(nil, []*value.Value{ok, errT}))
	case *ast.FunctionType:
		return e.elabFunctionType(node)
	case *ast.StructType:
		return e.elabStructType(node)
	case *ast.EnumType:
		return e.elabEnumType(node)
	case *ast.TaggedUnionType:
		return e.elabTaggedUnionType(node)
	case *ast.UnionType:
		return e.elabUnionType(node)
	default:
		panic(fmt.Sprintf("elaborator: unhandled expression node %T", n))
	}
}

// ElaborateStatement elaborates a Statement for effect (spec §4.4.7/.9).
func (e *Elaborator) ElaborateStatement(s ast.Statement) {
	switch node := s.(type) {
	case *ast.ExprStatement:
		e.elabExprStatement(node)
	case *ast.Assignment:
		e.elabAssignment(node)
	case *ast.Return:
		e.elabReturn(node)
	case *ast.Break:
		e.elabBreak(node)
	case *ast.Defer:
		e.Elaborate(node.Body, TemporaryContext{})
	case *ast.Run:
		e.elabRun(node, TemporaryContext{})
	case *ast.Variable:
		e.elabVariable(node)
	case *ast.Global:
		e.elabGlobal(node)
	case *ast.Define:
		e.elabDefine(node)
	case *ast.OperatorOverloadDecl:
		// Resolved lazily by elabStructType when attached to a struct;
		// a bare top-level overload decl has no receiver type to attach
		// to.
		e.fail(errors.KindControlFlowMisuse, node.Pos(), "operator overload declared outside a struct body")
	default:
		panic(fmt.Sprintf("elaborator: unhandled statement node %T", s))
	}
}
