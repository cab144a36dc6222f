// Package value implements the immutable cell value: either text or an
// arbitrary-precision decimal.
package value

import (
	"github.com/cockroachdb/apd/v3"
)

// Kind is the active variant of a Value.
type Kind uint8

const (
	// KindText holds a string.
	KindText Kind = iota
	// KindDecimal holds an arbitrary-precision decimal.
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union. The zero Value is empty text.
type Value struct {
	kind Kind
	text string
	dec  *apd.Decimal
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Decimal returns a decimal value holding a copy of d.
func Decimal(d *apd.Decimal) Value {
	return Value{kind: KindDecimal, dec: new(apd.Decimal).Set(d)}
}

// Int returns a decimal value for an integer. Handy for literals in code and tests.
func Int(i int64) Value {
	return Value{kind: KindDecimal, dec: apd.New(i, 0)}
}

// Kind returns the active variant.
func (v Value) Kind() Kind {
	return v.kind
}

// AsText returns the text payload and whether v is text.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsDecimal returns a copy of the decimal payload and whether v is a decimal.
func (v Value) AsDecimal() (*apd.Decimal, bool) {
	if v.kind != KindDecimal {
		return nil, false
	}
	return new(apd.Decimal).Set(v.dec), true
}

// String returns the text payload, or the canonical form of a decimal.
func (v Value) String() string {
	if v.kind == KindDecimal {
		return FormatDecimal(v.dec)
	}
	return v.text
}

// Equal reports whether both values have the same kind and string form.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.String() == other.String()
}
