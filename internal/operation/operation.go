// Package operation implements the arithmetic and coercion rules applied by
// compiled formulas to cell values.
//
// Every rule dispatches on the operand kinds only. Operand combinations a
// rule cannot handle fail with a value type error from package sheeterr.
package operation

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// arith rounds results to 20 significant digits, half up. No condition is
// trapped: dividing by zero yields an infinity, 0/0 yields NaN.
var arith = apd.Context{
	Precision:   20,
	Rounding:    apd.RoundHalfUp,
	MaxExponent: apd.MaxExponent,
	MinExponent: apd.MinExponent,
}

// Text repetition past these limits fails the cell with a value type error.
const (
	maxTextLength  = 1<<29 - 24
	maxRepeatCount = 1<<32 - 1
)

type decimalOp func(d, x, y *apd.Decimal) (apd.Condition, error)

// Add concatenates when either operand is text and sums two decimals.
func Add(a, b value.Value) (value.Value, error) {
	if a.Kind() == value.KindText || b.Kind() == value.KindText {
		return value.Text(a.String() + b.String()), nil
	}
	if x, y, ok := decimals(a, b); ok {
		return apply(arith.Add, x, y)
	}
	return value.Value{}, sheeterr.ValueTypef("invalid addend types: %s + %s", a.Kind(), b.Kind())
}

// Subtract removes the last occurrence of b's string form from text a, or
// subtracts two decimals.
func Subtract(a, b value.Value) (value.Value, error) {
	if s, ok := a.AsText(); ok {
		needle := b.String()
		if i := strings.LastIndex(s, needle); i >= 0 {
			return value.Text(s[:i] + s[i+len(needle):]), nil
		}
		return a, nil
	}
	if x, y, ok := decimals(a, b); ok {
		return apply(arith.Sub, x, y)
	}
	return value.Value{}, sheeterr.ValueTypef("invalid subtraction types: %s - %s", a.Kind(), b.Kind())
}

// Multiply multiplies two decimals, or repeats a text operand floor(n)
// times when the other operand is the decimal n. The operands commute.
func Multiply(a, b value.Value) (value.Value, error) {
	if x, y, ok := decimals(a, b); ok {
		return apply(arith.Mul, x, y)
	}
	if s, ok := a.AsText(); ok {
		if n, ok := b.AsDecimal(); ok {
			return repeat(s, n)
		}
	}
	if n, ok := a.AsDecimal(); ok {
		if s, ok := b.AsText(); ok {
			return repeat(s, n)
		}
	}
	return value.Value{}, sheeterr.ValueTypef("invalid multiplicand types: %s * %s", a.Kind(), b.Kind())
}

// Divide divides two decimals.
func Divide(a, b value.Value) (value.Value, error) {
	if x, y, ok := decimals(a, b); ok {
		return apply(arith.Quo, x, y)
	}
	return value.Value{}, sheeterr.ValueTypef("invalid division types: %s / %s", a.Kind(), b.Kind())
}

// ToDecimal coerces v to a decimal. Decimals pass through unchanged.
func ToDecimal(v value.Value) (value.Value, error) {
	s, ok := v.AsText()
	if !ok {
		return v, nil
	}
	d, err := textToDecimal(s)
	if err != nil {
		return value.Value{}, err
	}
	return value.Decimal(d), nil
}

// Negate negates v, parsing text first.
func Negate(v value.Value) (value.Value, error) {
	var d *apd.Decimal
	if s, ok := v.AsText(); ok {
		var err error
		if d, err = textToDecimal(s); err != nil {
			return value.Value{}, err
		}
	} else {
		d, _ = v.AsDecimal()
	}
	return value.Decimal(new(apd.Decimal).Neg(d)), nil
}

func decimals(a, b value.Value) (*apd.Decimal, *apd.Decimal, bool) {
	x, ok := a.AsDecimal()
	if !ok {
		return nil, nil, false
	}
	y, ok := b.AsDecimal()
	if !ok {
		return nil, nil, false
	}
	return x, y, true
}

func apply(op decimalOp, x, y *apd.Decimal) (value.Value, error) {
	d := new(apd.Decimal)
	if _, err := op(d, x, y); err != nil {
		return value.Value{}, fmt.Errorf("decimal arithmetic: %w", err)
	}
	return value.Decimal(d), nil
}

func textToDecimal(s string) (*apd.Decimal, error) {
	d, ok := value.ParseDecimal(s)
	if !ok || d.Form == apd.NaN || d.Form == apd.NaNSignaling {
		return nil, sheeterr.ValueTypef("text is not numeric: %s", s)
	}
	return d, nil
}

func repeat(s string, n *apd.Decimal) (value.Value, error) {
	count := repeatCount(n)
	if count == 0 {
		return value.Text(""), nil
	}
	if count > maxRepeatCount || int64(len(s))*count > maxTextLength {
		return value.Value{}, sheeterr.ValueTypef("text repetition too large: %q repeated %s times", truncate(s), value.FormatDecimal(n))
	}
	return value.Text(strings.Repeat(s, int(count))), nil
}

// repeatCount floors n and clamps negative and NaN counts to zero. Counts
// beyond maxRepeatCount are reported as maxRepeatCount+1.
func repeatCount(n *apd.Decimal) int64 {
	switch {
	case n.Form == apd.NaN, n.Form == apd.NaNSignaling, n.Negative:
		return 0
	case n.Form == apd.Infinite:
		return maxRepeatCount + 1
	}
	var whole, frac apd.Decimal
	n.Modf(&whole, &frac)
	if whole.Cmp(apd.New(maxRepeatCount, 0)) > 0 {
		return maxRepeatCount + 1
	}
	i, err := whole.Int64()
	if err != nil {
		return maxRepeatCount + 1
	}
	return i
}

func truncate(s string) string {
	const limit = 16
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
