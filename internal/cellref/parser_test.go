// internal/cellref/parser_test.go
package cellref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedAddr Address
	}{
		{name: "first cell", raw: "A1", expectedAddr: Address{Row: 0, Column: 0}},
		{name: "lower case", raw: "b7", expectedAddr: Address{Row: 6, Column: 1}},
		{name: "last single letter", raw: "Z99", expectedAddr: Address{Row: 98, Column: 25}},
		{name: "two letters", raw: "AA3", expectedAddr: Address{Row: 2, Column: 26}},
		{name: "mixed case", raw: "aB10", expectedAddr: Address{Row: 9, Column: 27}},
		{name: "leading zeros", raw: "C007", expectedAddr: Address{Row: 6, Column: 2}},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - row zero", raw: "A0", expectErr: true},
		{name: "error - no row", raw: "AB", expectErr: true},
		{name: "error - no column", raw: "12", expectErr: true},
		{name: "error - reversed", raw: "1A", expectErr: true},
		{name: "error - trailing garbage", raw: "A1x", expectErr: true},
		{name: "error - sign", raw: "A-1", expectErr: true},
		{name: "error - too many letters", raw: "ABCDEFGH1", expectErr: true},
		{name: "error - row overflow", raw: "A99999999999999999999", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedAddr, addr)
		})
	}
}

func TestColumnIndex(t *testing.T) {
	testCases := map[string]int{
		"A":   0,
		"Z":   25,
		"AA":  26,
		"AZ":  51,
		"BA":  52,
		"ZZ":  701,
		"AAA": 702,
	}
	for letters, want := range testCases {
		got, err := ColumnIndex(letters)
		require.NoError(t, err, letters)
		assert.Equal(t, want, got, letters)
		assert.Equal(t, letters, ColumnName(want))
	}

	_, err := ColumnIndex("A1")
	assert.Error(t, err)
}
