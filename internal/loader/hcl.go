package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sheetcalc/internal/cellref"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// rootSchema lists the top-level blocks of an HCL sheet file.
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "sheet"},
		{Type: "cell", LabelNames: []string{"address"}},
	},
}

// sheetBlock is the body of the `sheet` block.
type sheetBlock struct {
	Rows cty.Value `hcl:"rows,optional"`
}

// cellBlock is the body of a `cell "ADDR"` block.
type cellBlock struct {
	Input cty.Value `hcl:"input"`
}

func (l *Loader) loadHCL(path string) ([][]string, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL sheet file %s: %w", path, diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL sheet file %s: %w", path, diags)
	}

	var rows [][]string
	block, diags := findUniqueBlock(content.Blocks, "sheet")
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL sheet file %s: %w", path, diags)
	}
	if block != nil {
		var sb sheetBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &sb); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode sheet block in %s: %w", path, diags)
		}
		var err error
		if rows, err = decodeRows(sb.Rows); err != nil {
			return nil, fmt.Errorf("invalid rows in %s: %w", path, err)
		}
	}

	for _, block := range content.Blocks {
		if block.Type != "cell" {
			continue
		}
		addr, err := cellref.Parse(block.Labels[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", block.DefRange, err)
		}
		if !addr.In(MaxRows, MaxColumns) {
			return nil, fmt.Errorf("%s: cell %s is outside the maximum sheet size of %d rows by %d columns", block.DefRange, addr, MaxRows, MaxColumns)
		}
		var cb cellBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &cb); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode cell %s in %s: %w", addr, path, diags)
		}
		text, err := cellText(cb.Input)
		if err != nil {
			return nil, fmt.Errorf("%s: cell %s: %w", block.DefRange, addr, err)
		}
		rows = set(rows, addr.Row, addr.Column, text)
	}
	return rows, nil
}

// findUniqueBlock returns the block of the given type, or nil when there is
// none. More than one such block is an error.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed.",
				Subject:  &block.DefRange,
			})
		}
		found = block
	}

	return found, diags
}

// decodeRows turns a tuple (or list) of tuples into cell texts.
func decodeRows(v cty.Value) ([][]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() || !isSequence(v.Type()) {
		return nil, fmt.Errorf("rows must be a list of lists, got %s", v.Type().FriendlyName())
	}

	var rows [][]string
	for it := v.ElementIterator(); it.Next(); {
		_, row := it.Element()
		if row.IsNull() {
			rows = append(rows, nil)
			continue
		}
		if !row.IsKnown() || !isSequence(row.Type()) {
			return nil, fmt.Errorf("row %d must be a list, got %s", len(rows)+1, row.Type().FriendlyName())
		}
		var texts []string
		for cit := row.ElementIterator(); cit.Next(); {
			_, cell := cit.Element()
			text, err := cellText(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", len(rows)+1, len(texts)+1, err)
			}
			texts = append(texts, text)
		}
		rows = append(rows, texts)
	}
	return rows, nil
}

func isSequence(t cty.Type) bool {
	return t.IsTupleType() || t.IsListType()
}

// cellText converts a primitive value to cell text. Null is an empty cell.
func cellText(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("cell value must be known")
	}
	if !v.Type().IsPrimitiveType() {
		return "", fmt.Errorf("cell value must be a string, number or bool, got %s", v.Type().FriendlyName())
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}
