package elaborator

import "github.com/corelang/corec/internal/value"

// Binding is one resolved name: a local variable, a function parameter,
// a static (generic) binding, a static variable, or a block-local
// `define`. Mutable is true for every DeclareLocal binding (`var`
// locals, globals and other local bindings) and for static variables;
// only assignment checks it.
type Binding struct {
	Name    string
	Type    *value.Value
	Value   *value.Value // compile-time value when known (statics, defines)
	Mutable bool
}

// Scope is one link in the lexical scope chain (spec §3.3): locals,
// function parameters, static (generic) bindings, static variables and
// block-local defines all live in the same link, checked in that
// precedence order, before falling through to Parent.
type Scope struct {
	Parent *Scope

	Locals         map[string]*Binding
	Params         map[string]*Binding
	StaticBindings map[string]*Binding
	StaticVars     map[string]*Binding
	Defines        map[string]*Binding

	Owner               interface{} // the ast.Node that introduced this scope (function, block, for, ...)
	AmbientFunctionType *value.Value
}

// NewScope opens a child scope of parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		Parent:         parent,
		Locals:         map[string]*Binding{},
		Params:         map[string]*Binding{},
		StaticBindings: map[string]*Binding{},
		StaticVars:     map[string]*Binding{},
		Defines:        map[string]*Binding{},
	}
}

// Resolve walks the precedence chain spec §4.4.2 describes: within one
// scope link, local var, then function param, then static binding, then
// static variable, then block `define`, before moving to Parent. The
// outermost link (the module scope) holds every top-level `define` and
// `global`, which is where unqualified references to either eventually
// resolve.
func (s *Scope) Resolve(name string) (*Binding, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if b, ok := cur.Locals[name]; ok {
			return b, true
		}
		if b, ok := cur.Params[name]; ok {
			return b, true
		}
		if b, ok := cur.StaticBindings[name]; ok {
			return b, true
		}
		if b, ok := cur.StaticVars[name]; ok {
			return b, true
		}
		if b, ok := cur.Defines[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// DeclareLocal adds a mutable local variable binding to s.
func (s *Scope) DeclareLocal(name string, typ, val *value.Value) {
	s.Locals[name] = &Binding{Name: name, Type: typ, Value: val, Mutable: true}
}

// DeclareParam adds an immutable function-parameter binding to s.
func (s *Scope) DeclareParam(name string, typ *value.Value) {
	s.Params[name] = &Binding{Name: name, Type: typ, Mutable: false}
}

// DeclareStatic adds an immutable static (generic-argument) binding.
func (s *Scope) DeclareStatic(name string, typ, val *value.Value) {
	s.StaticBindings[name] = &Binding{Name: name, Type: typ, Value: val, Mutable: false}
}

// DeclareStaticVar adds a mutable compile-time static variable.
func (s *Scope) DeclareStaticVar(name string, typ, val *value.Value) {
	s.StaticVars[name] = &Binding{Name: name, Type: typ, Value: val, Mutable: true}
}

// DeclareDefine adds a block-local or module-level `define` binding.
func (s *Scope) DeclareDefine(name string, typ, val *value.Value) {
	s.Defines[name] = &Binding{Name: name, Type: typ, Value: val, Mutable: false}
}
