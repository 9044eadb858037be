package evaluator

import (
	"strconv"
	"strings"
)

// defaultIntegerBits mirrors elaborator.defaultIntegerBits; duplicated
// rather than imported to keep the evaluator free of an elaborator
// dependency (evaluator.go's New doc comment explains why).
const defaultIntegerBits = 64

func parseIntLiteral(raw string) (int64, bool) {
	raw = strings.ReplaceAll(raw, "_", "")
	v, err := strconv.ParseInt(raw, 0, 64)
	return v, err == nil
}

func parseFloat(raw string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(raw, "_", ""), 64)
	return f
}
