package value

// ParseLiteral classifies literal cell text: anything that parses as a
// decimal becomes a decimal, everything else is kept as text.
func ParseLiteral(text string) Value {
	if d, ok := ParseDecimal(text); ok {
		return Value{kind: KindDecimal, dec: d}
	}
	return Text(text)
}
