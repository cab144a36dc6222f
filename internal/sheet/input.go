package sheet

import (
	"github.com/vk/sheetcalc/internal/formula"
	"github.com/vk/sheetcalc/internal/value"
)

// InputKind tells which variant a CellInput holds.
type InputKind uint8

const (
	InputLiteral InputKind = iota
	InputFormula
	InputFailed
)

// CellInput describes what a cell contains before evaluation. The zero
// CellInput is an empty text literal.
type CellInput struct {
	kind    InputKind
	literal value.Value
	formula *formula.Compiled
	err     error
}

// Literal returns an input holding a constant value.
func Literal(v value.Value) CellInput {
	return CellInput{kind: InputLiteral, literal: v}
}

// Formula returns an input evaluating a compiled formula.
func Formula(c *formula.Compiled) CellInput {
	return CellInput{kind: InputFormula, formula: c}
}

// Failed returns an input that fails with err on every read. Domain errors
// become failed cell outputs; any other error aborts sheet construction.
func Failed(err error) CellInput {
	return CellInput{kind: InputFailed, err: err}
}

// Kind returns the active variant.
func (in CellInput) Kind() InputKind {
	return in.kind
}
