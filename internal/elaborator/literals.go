package elaborator

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/corelang/corec/internal/ast"
	"github.com/corelang/corec/internal/errors"
	"github.com/corelang/corec/internal/value"
)

// elabNumber assigns a numeric literal its concrete width/signedness
// from wanted_type when one flows down, defaulting to the platform's
// default integer size or flt64 otherwise (spec §4.4.1).
func (e *Elaborator) elabNumber(n *ast.Number, ctx TemporaryContext) *value.Value {
	if n.IsFloat {
		if ctx.WantedType != nil && ctx.WantedType.Kind == value.KindFloat {
			return e.setType(n, ctx.WantedType)
		}
		return e.setType(n, value.FloatType())
	}
	if ctx.WantedType != nil {
		switch ctx.WantedType.Kind {
		case value.KindInteger, value.KindByte, value.KindFloat:
			return e.setType(n, ctx.WantedType)
		}
	}
	return e.setType(n, value.IntegerType(true, defaultIntegerBits))
}

// defaultIntegerBits is the platform default integer width (spec §4.5
// `default_integer_size`); 64 matches the evaluator's host arithmetic.
const defaultIntegerBits = 64

func (e *Elaborator) elabNull(n *ast.Null, ctx TemporaryContext) *value.Value {
	if ctx.WantedType != nil {
		switch ctx.WantedType.Kind {
		case value.KindOptional, value.KindPointer:
			return e.setType(n, ctx.WantedType)
		}
	}
	return e.setType(n, value.OptionalTypeOf(value.Void))
}

// parseIntLiteral folds a Number's raw text into an int64 after removing
// `_` separators. The lexer hands integer literals over as plain digit
// runs; no `$hex`, `0x` or `0b` form reaches this function.
func parseIntLiteral(raw string) (int64, bool) {
	raw = strings.ReplaceAll(raw, "_", "")
	v, err := strconv.ParseInt(raw, 0, 64)
	return v, err == nil
}

func (e *Elaborator) numericLiteralValue(n *ast.Number) *value.Value {
	t := e.TypeOf(n)
	if n.IsFloat {
		return value.NewFloat(foldDecimalLiteral(n.Raw))
	}
	iv, ok := parseIntLiteral(n.Raw)
	if !ok {
		e.fail(errors.KindIntrinsicMisuse, n.Pos(), "malformed numeric literal %q", n.Raw)
	}
	if t != nil && t.Kind == value.KindByte {
		return value.NewByte(byte(iv))
	}
	signed, bits := true, defaultIntegerBits
	if t != nil && t.Kind == value.KindInteger {
		signed, bits = t.Signed, t.BitSize
	}
	return value.NewInteger(iv, signed, bits)
}

// foldDecimalLiteral parses a float literal's raw text through
// decimal.Decimal rather than straight to float64, so that a long
// digit sequence is held exactly until the single truncation back to
// the IEEE-754 double the rest of the evaluator works in (spec §4.1).
// It serves the elaborator's constant folding; the evaluator parses a
// float literal's text on its own, with strconv.ParseFloat
// (evaluator/util.go).
func foldDecimalLiteral(raw string) float64 {
	raw = strings.ReplaceAll(raw, "_", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	}
	f, _ := d.Float64()
	return f
}
