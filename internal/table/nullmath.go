package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/guregu/null"
)

// Arithmetic over nullable cells. Every operation defines its behavior for
// missing inputs: missing in, missing out. Nothing here ever substitutes zero
// for a missing value.

// SubFloat returns b - a, or invalid when either operand is invalid.
func SubFloat(b, a null.Float) null.Float {
	if !a.Valid || !b.Valid {
		return null.Float{}
	}
	return null.FloatFrom(b.Float64 - a.Float64)
}

// DivFloat returns num / den. The result is invalid when either operand is
// invalid, when den is zero, or when the division is not finite. Division by
// zero is deliberately surfaced as a missing cell for manual review rather
// than as ±Inf or an error.
func DivFloat(num, den null.Float) null.Float {
	if !num.Valid || !den.Valid || den.Float64 == 0 {
		return null.Float{}
	}
	q := num.Float64 / den.Float64
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return null.Float{}
	}
	return null.FloatFrom(q)
}

// IntToFloat widens a nullable integer cell, preserving invalidity.
func IntToFloat(v null.Int) null.Float {
	if !v.Valid {
		return null.Float{}
	}
	return null.FloatFrom(float64(v.Int64))
}

// ParseFloat parses a numeric cell. Whitespace is trimmed first; anything that
// does not parse as a finite float becomes an invalid cell, never zero.
// Eurostat cells like ":" (not available) or "123.4 e" (value with flag) fall
// out as missing, matching the coerce-to-missing contract.
func ParseFloat(s string) null.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// ParseInt parses an integer cell. Sources hand integers through float
// formatting ("70629.0"), so the cell is parsed as a float and rounded to the
// nearest integer. Non-numeric content becomes an invalid cell, not an error.
func ParseInt(s string) null.Int {
	f := ParseFloat(s)
	if !f.Valid {
		return null.Int{}
	}
	return null.IntFrom(int64(math.Round(f.Float64)))
}
