package sheet

import (
	"strings"

	"github.com/vk/sheetcalc/internal/formula"
	"github.com/vk/sheetcalc/internal/value"
)

// FormulaPrefix marks cell text that holds a formula.
const FormulaPrefix = "="

// Parser turns raw cell text into cell inputs.
type Parser struct {
	cache *formula.Cache
}

// NewParser returns a parser compiling formulas through cache.
func NewParser(cache *formula.Cache) *Parser {
	return &Parser{cache: cache}
}

// Parse classifies one cell. Text starting with "=" is compiled as a
// formula and a compile failure becomes a failed input. Anything else is a
// literal: a decimal when it parses as one, text otherwise.
func (p *Parser) Parse(text string) CellInput {
	src, ok := strings.CutPrefix(text, FormulaPrefix)
	if !ok {
		return Literal(value.ParseLiteral(text))
	}
	compiled, err := p.cache.Compile(src)
	if err != nil {
		return Failed(err)
	}
	return Formula(compiled)
}

// ParseGrid parses every cell of rows, keeping its shape.
func (p *Parser) ParseGrid(rows [][]string) [][]CellInput {
	grid := make([][]CellInput, len(rows))
	for r, row := range rows {
		grid[r] = make([]CellInput, len(row))
		for c, text := range row {
			grid[r][c] = p.Parse(text)
		}
	}
	return grid
}
