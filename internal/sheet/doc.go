// Package sheet evaluates a rectangular grid of cells.
//
// Each cell input is a literal value, a compiled formula or a carried
// failure. New maps the grid onto a dag.Graph with one node per cell,
// resolving formula references through package cellref. Problems in a single
// cell, such as a bad reference or a cycle, turn that cell into a node which
// fails on every read. The rest of the grid stays readable.
package sheet
