package value

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// numericText is the accepted decimal grammar, sign included.
var numericText = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// Exponent bounds outside of which decimals are written in exponent notation.
const (
	expPos = 21
	expNeg = -7
)

// ParseDecimal parses s as a decimal number. Besides plain and exponent
// notation it accepts "Infinity", "-Infinity" and "NaN" (case-sensitive).
func ParseDecimal(s string) (*apd.Decimal, bool) {
	body := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	switch {
	case numericText.MatchString(s):
	case body == "Infinity", body == "NaN":
	default:
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return d, true
}

// FormatDecimal renders d in canonical form: no trailing zeros, unsigned
// zero, exponent notation only for very large or very small magnitudes.
func FormatDecimal(d *apd.Decimal) string {
	if d == nil {
		return "0"
	}
	switch d.Form {
	case apd.Infinite:
		if d.Negative {
			return "-Infinity"
		}
		return "Infinity"
	case apd.NaN, apd.NaNSignaling:
		return "NaN"
	}
	if d.IsZero() {
		return "0"
	}

	var r apd.Decimal
	r.Reduce(d)
	sign := ""
	if r.Negative {
		sign = "-"
		r.Negative = false
	}

	digits := r.Coeff.String()
	adj := int64(len(digits)) + int64(r.Exponent) - 1
	if adj >= expPos || adj <= expNeg {
		var sb strings.Builder
		sb.WriteString(sign)
		sb.WriteByte(digits[0])
		if len(digits) > 1 {
			sb.WriteByte('.')
			sb.WriteString(digits[1:])
		}
		sb.WriteByte('e')
		if adj < 0 {
			sb.WriteByte('-')
			adj = -adj
		} else {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.FormatInt(adj, 10))
		return sb.String()
	}
	return sign + r.Text('f')
}
