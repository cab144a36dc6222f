package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/sheetcalc/internal/ctxlog"
)

// Sheets larger than MaxRows by MaxColumns are rejected.
const (
	MaxRows    = 1 << 20
	MaxColumns = 1 << 14
)

// Loader reads sheet files.
type Loader struct{}

// New creates a new sheet loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the sheet file at path and returns its cell texts row by row.
func (l *Loader) Load(ctx context.Context, path string) ([][]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Sheet loader started.", "path", path)

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		rows, err = l.loadHCL(path)
	case ".csv":
		rows, err = l.loadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported sheet file extension %q: expected .hcl or .csv", ext)
	}
	if err != nil {
		return nil, err
	}

	rows = pad(rows)
	columns := 0
	if len(rows) > 0 {
		columns = len(rows[0])
	}
	if len(rows) > MaxRows || columns > MaxColumns {
		return nil, fmt.Errorf("sheet %s has %d rows by %d columns, more than the maximum of %d by %d", path, len(rows), columns, MaxRows, MaxColumns)
	}
	logger.Debug("Sheet loaded.", "rows", len(rows), "columns", columns)
	return rows, nil
}

// pad extends every row to the width of the widest one.
func pad(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		if len(row) < width {
			rows[i] = append(row, make([]string, width-len(row))...)
		}
	}
	return rows
}

// set stores text at (row, column), growing rows as needed.
func set(rows [][]string, row, column int, text string) [][]string {
	for len(rows) <= row {
		rows = append(rows, nil)
	}
	if len(rows[row]) <= column {
		rows[row] = append(rows[row], make([]string, column+1-len(rows[row]))...)
	}
	rows[row][column] = text
	return rows
}
