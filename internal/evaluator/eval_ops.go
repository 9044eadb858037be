package evaluator

import (
	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/lexer"
	"github.com/corelang/corec/internal/value"
)

func (ev *Evaluator) evalBinary(n *ast.BinaryOp, env *Env) *value.Value {
	if n.Op == lexer.AND {
		left := ev.Eval(n.Left, env)
		if !left.BoolVal {
			return value.NewBool(false)
		}
		return ev.Eval(n.Right, env)
	}
	if n.Op == lexer.OR {
		left := ev.Eval(n.Left, env)
		if left.BoolVal {
			return value.NewBool(true)
		}
		return ev.Eval(n.Right, env)
	}
	if n.Op == lexer.QUESTION_QUESTION {
		left := ev.Eval(n.Left, env)
		if left.Present {
			return left.Inner
		}
		return ev.Eval(n.Right, env)
	}

	left := ev.Eval(n.Left, env)
	if left.Kind == value.KindStruct {
		right := ev.Eval(n.Right, env)
		return ev.callOverload(n.Pos(), left, n.OpLiteral, []*value.Value{right})
	}
	right := ev.Eval(n.Right, env)

	if left.Kind == value.KindFloat {
		l, r := left.FloatVal, right.FloatVal
		switch n.Op {
		case lexer.PLUS:
			return value.NewFloat(l + r)
		case lexer.MINUS:
			return value.NewFloat(l - r)
		case lexer.ASTERISK:
			return value.NewFloat(l * r)
		case lexer.SLASH:
			return value.NewFloat(l / r)
		case lexer.EQ:
			return value.NewBool(l == r)
		case lexer.NOT_EQ:
			return value.NewBool(l != r)
		case lexer.LESS:
			return value.NewBool(l < r)
		case lexer.GREATER:
			return value.NewBool(l > r)
		case lexer.LESS_EQ:
			return value.NewBool(l <= r)
		case lexer.GREATER_EQ:
			return value.NewBool(l >= r)
		}
	}

	var l, r int64
	if left.Kind == value.KindByte {
		l, r = int64(left.ByteVal), int64(right.ByteVal)
	} else {
		l, r = left.IntVal, right.IntVal
	}
	switch n.Op {
	case lexer.PLUS:
		return wrapInt(left, l+r)
	case lexer.MINUS:
		return wrapInt(left, l-r)
	case lexer.ASTERISK:
		return wrapInt(left, l*r)
	case lexer.SLASH:
		return wrapInt(left, l/r)
	case lexer.PERCENT:
		return wrapInt(left, l%r)
	case lexer.EQ:
		return value.NewBool(l == r)
	case lexer.NOT_EQ:
		return value.NewBool(l != r)
	case lexer.LESS:
		return value.NewBool(l < r)
	case lexer.GREATER:
		return value.NewBool(l > r)
	case lexer.LESS_EQ:
		return value.NewBool(l <= r)
	case lexer.GREATER_EQ:
		return value.NewBool(l >= r)
	}
	panic("evaluator: unknown binary operator " + n.OpLiteral)
}

func wrapInt(like *value.Value, v int64) *value.Value {
	if like.Kind == value.KindByte {
		return value.NewByte(byte(v))
	}
	return value.NewInteger(v, like.Signed, like.BitSize)
}

func (ev *Evaluator) evalIs(n *ast.Is, env *Env) *value.Value {
	left := ev.Eval(n.Value, env)
	if left.Kind == value.KindTaggedUnion {
		ident := n.Tag.(*ast.Identifier)
		idx := subjectTagIndex(left, ident.Name)
		if left.Tag == idx {
			return value.NewPresent(left.FieldTypes[idx], left.Payload)
		}
		return value.NewAbsent(ev.TypeOf(n).InnerType)
	}
	return value.NewBool(value.Equal(ev.TypeOf(n.Value), ev.TypeOf(n.Tag)))
}

func (ev *Evaluator) evalCast(n *ast.Cast, env *Env) *value.Value {
	v := ev.Eval(n.Value, env)
	target := ev.TypeOf(n)
	switch {
	case target.Kind == value.KindPointer:
		return value.NewPointer(target.PointeeType, v.Target)
	case target.Kind == value.KindByte:
		return value.NewByte(byte(v.IntVal))
	case target.Kind == value.KindInteger:
		return value.NewInteger(int64(v.ByteVal), target.Signed, target.BitSize)
	}
	return v
}
