// Package loader reads raw cell texts from sheet files.
//
// Two formats are understood, chosen by file extension:
//
//	.hcl  a `sheet` block with a `rows` tuple, plus `cell "B2"` blocks
//	.csv  one record per row
//
// Every format yields a rectangular [][]string; short rows are padded with
// empty cells.
package loader
