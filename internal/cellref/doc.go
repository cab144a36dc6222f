// internal/cellref/doc.go

/*
Package cellref converts between textual cell addresses such as `B7` and
zero-based (row, column) coordinates.

An address is one or more column letters followed by a 1-based row number.
Letters are case-insensitive. Columns are numbered in bijective base 26:
`A` is column 0, `Z` is 25, `AA` is 26 and so on.
*/
package cellref
