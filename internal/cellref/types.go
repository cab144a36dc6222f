// internal/cellref/types.go
package cellref

// MaxColumnLetters bounds the length of the column part of an address so
// column indexes always fit in an int.
const MaxColumnLetters = 7

// Address is a zero-based cell coordinate.
type Address struct {
	Row    int
	Column int
}

// In reports whether the address lies inside a grid of the given size.
func (a Address) In(rows, columns int) bool {
	return a.Row >= 0 && a.Row < rows && a.Column >= 0 && a.Column < columns
}
