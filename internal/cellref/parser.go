// internal/cellref/parser.go
package cellref

import (
	"fmt"
	"regexp"
	"strconv"
)

// addressRegex splits an address into its column letters and row digits.
var addressRegex = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// Parse converts a textual address into its coordinate.
func Parse(raw string) (Address, error) {
	matches := addressRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid cell address: %q", raw)
	}

	column, err := ColumnIndex(matches[1])
	if err != nil {
		return Address{}, err
	}

	row, err := strconv.Atoi(matches[2])
	if err != nil || row < 1 {
		return Address{}, fmt.Errorf("invalid row in cell address: %q", raw)
	}

	return Address{Row: row - 1, Column: column}, nil
}

// ColumnIndex returns the zero-based index named by column letters.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("column name cannot be empty")
	}
	if len(letters) > MaxColumnLetters {
		return 0, fmt.Errorf("column name too long: %q", letters)
	}

	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		switch {
		case c >= 'A' && c <= 'Z':
			n = n*26 + int(c-'A') + 1
		case c >= 'a' && c <= 'z':
			n = n*26 + int(c-'a') + 1
		default:
			return 0, fmt.Errorf("invalid column name: %q", letters)
		}
	}
	return n - 1, nil
}
