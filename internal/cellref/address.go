// internal/cellref/address.go
package cellref

import (
	"fmt"
	"strconv"
)

// String serializes the address in its canonical upper-case form, e.g. `B7`.
func (a Address) String() string {
	if a.Row < 0 || a.Column < 0 {
		return fmt.Sprintf("R%dC%d", a.Row, a.Column)
	}
	return ColumnName(a.Column) + strconv.Itoa(a.Row+1)
}

// ColumnName returns the letters naming a zero-based column index.
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
