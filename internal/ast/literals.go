package ast

import "github.com/corelang/corec/internal/lexer"

// Number is an integer or decimal literal. Its concrete width/signedness
// is not decided until elaboration sees a `wanted_type` (spec §4.4.1).
type Number struct {
	base
	Raw     string
	IsFloat bool
}

func (n *Number) exprNode()      {}
func (n *Number) String() string { return n.Raw }

// NewNumber builds a Number node.
func NewNumber(pos lexer.Position, raw string, isFloat bool) *Number {
	return &Number{base: newBase(pos), Raw: raw, IsFloat: isFloat}
}

// String is a string literal; escape expansion happens in the elaborator.
type StringLit struct {
	base
	Raw string
}

func (s *StringLit) exprNode()      {}
func (s *StringLit) String() string { return `"` + s.Raw + `"` }

// NewString builds a StringLit node.
func NewString(pos lexer.Position, raw string) *StringLit {
	return &StringLit{base: newBase(pos), Raw: raw}
}

// Character is a character literal, e.g. `#65` or `#$41`.
type Character struct {
	base
	Raw string
}

func (c *Character) exprNode()      {}
func (c *Character) String() string { return c.Raw }

// NewCharacter builds a Character node.
func NewCharacter(pos lexer.Position, raw string) *Character {
	return &Character{base: newBase(pos), Raw: raw}
}

// Boolean is a `true`/`false` literal.
type Boolean struct {
	base
	Value bool
}

func (b *Boolean) exprNode() {}
func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// NewBoolean builds a Boolean node.
func NewBoolean(pos lexer.Position, value bool) *Boolean {
	return &Boolean{base: newBase(pos), Value: value}
}

// Null is the `null` literal (the absent value of an optional or a void
// pointer).
type Null struct{ base }

func (n *Null) exprNode()      {}
func (n *Null) String() string { return "null" }

// NewNull builds a Null node.
func NewNull(pos lexer.Position) *Null { return &Null{base: newBase(pos)} }

// Identifier is a scope-resolved name lookup (spec §4.4.2).
type Identifier struct {
	base
	Name string
}

func (i *Identifier) exprNode()      {}
func (i *Identifier) String() string { return i.Name }

// NewIdentifier builds an Identifier node.
func NewIdentifier(pos lexer.Position, name string) *Identifier {
	return &Identifier{base: newBase(pos), Name: name}
}

// Internal is a compiler intrinsic recognized by name at parse time
// (spec §4.4.8): `uint`, `byte`, `type`, `self`, `size_of`, `print`,
// `import`, `embed`, `type_info_of`, `ok`, `err`, `compile_error`, the
// `int(signed, size)` family, and the platform C-size queries. A bare
// intrinsic name (`self`, `byte`) is an Internal with no Args; one
// invoked like a function (`size_of(T)`) is wrapped in a Call whose
// Callee is the Internal node.
type Internal struct {
	base
	Name string
}

func (in *Internal) exprNode()      {}
func (in *Internal) String() string { return "@" + in.Name }

// NewInternal builds an Internal node.
func NewInternal(pos lexer.Position, name string) *Internal {
	return &Internal{base: newBase(pos), Name: name}
}

// IntrinsicNames is the fixed set of identifiers the parser rewrites to
// Internal nodes instead of Identifier nodes.
var IntrinsicNames = map[string]bool{
	"uint": true, "uint8": true, "type": true, "byte": true, "flt64": true,
	"bool": true, "int": true, "type_of": true, "self": true, "size_of": true,
	"c_char_size": true, "c_short_size": true, "c_int_size": true, "c_long_size": true,
	"print": true, "embed": true, "import": true, "type_info_of": true,
	"ok": true, "err": true, "compile_error": true,
}
