package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/sheetcalc/internal/cellref"
	"github.com/vk/sheetcalc/internal/ctxlog"
	"github.com/vk/sheetcalc/internal/dag"
	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// Sheet is a wired grid of cells. It is not safe for concurrent use.
type Sheet struct {
	graph   *dag.Graph
	rows    int
	columns int
	logger  *slog.Logger
}

type options struct {
	maxDepth int
}

// Option configures a Sheet.
type Option func(*options)

// WithMaxDepth bounds how long a chain of uncached references a single read
// may walk.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// New builds a sheet from a rectangular grid of inputs. Cells are wired in
// row-major order. Only unexpected failures are returned; bad cells become
// failing nodes.
func New(ctx context.Context, inputs [][]CellInput, opts ...Option) (*Sheet, error) {
	o := options{maxDepth: dag.DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}

	rows := len(inputs)
	columns := 0
	if rows > 0 {
		columns = len(inputs[0])
	}
	for r, row := range inputs {
		if len(row) != columns {
			return nil, fmt.Errorf("grid is not rectangular: row %d has %d cells, expected %d", r+1, len(row), columns)
		}
	}

	s := &Sheet{
		graph:   dag.New(dag.WithMaxDepth(o.maxDepth)),
		rows:    rows,
		columns: columns,
		logger:  ctxlog.FromContext(ctx),
	}
	for range rows * columns {
		s.graph.AddNode()
	}

	for r, row := range inputs {
		for c, in := range row {
			if err := s.wire(cellref.Address{Row: r, Column: c}, in); err != nil {
				return nil, err
			}
		}
	}
	s.logger.Debug("Sheet wired.", "rows", rows, "columns", columns)
	return s, nil
}

// Evaluate builds a sheet and reads every cell.
func Evaluate(ctx context.Context, inputs [][]CellInput, opts ...Option) ([][]dag.Output, error) {
	s, err := New(ctx, inputs, opts...)
	if err != nil {
		return nil, err
	}
	return s.Outputs()
}

// Rows returns the number of rows.
func (s *Sheet) Rows() int { return s.rows }

// Columns returns the number of columns.
func (s *Sheet) Columns() int { return s.columns }

// Output reads a single cell.
func (s *Sheet) Output(addr cellref.Address) (dag.Output, error) {
	id, err := s.nodeID(addr)
	if err != nil {
		return dag.Output{}, err
	}
	out, err := s.graph.Output(id)
	if err != nil {
		return dag.Output{}, fmt.Errorf("reading %s: %w", addr, err)
	}
	return out, nil
}

// Outputs reads every cell in row-major order.
func (s *Sheet) Outputs() ([][]dag.Output, error) {
	result := make([][]dag.Output, s.rows)
	failed := 0
	for r := range result {
		result[r] = make([]dag.Output, s.columns)
		for c := range result[r] {
			out, err := s.Output(cellref.Address{Row: r, Column: c})
			if err != nil {
				return nil, err
			}
			if out.Failed() {
				failed++
			}
			result[r][c] = out
		}
	}
	s.logger.Debug("Sheet evaluated.", "cells", s.rows*s.columns, "failed", failed)
	return result, nil
}

// Set replaces the input of one cell. Cached outputs depending on the cell
// are dropped, so the next read recomputes exactly what changed.
func (s *Sheet) Set(addr cellref.Address, in CellInput) error {
	id, err := s.nodeID(addr)
	if err != nil {
		return err
	}
	if err := s.graph.Invalidate(id); err != nil {
		return err
	}
	return s.wire(addr, in)
}

// wire installs the input of the cell at addr. Domain failures turn the
// cell into a node raising that failure.
func (s *Sheet) wire(addr cellref.Address, in CellInput) error {
	id, err := s.nodeID(addr)
	if err != nil {
		return err
	}

	err = s.rewire(id, in)
	if err == nil {
		return nil
	}
	se, ok := sheeterr.As(err)
	if !ok {
		return fmt.Errorf("wiring %s: %w", addr, err)
	}
	s.logger.Debug("Cell wiring failed.", "cell", addr.String(), "kind", se.Kind.String(), "error", se.Msg)
	return s.graph.Rewire(id, nil, raise(se))
}

func (s *Sheet) rewire(id dag.NodeID, in CellInput) error {
	switch in.kind {
	case InputLiteral:
		v := in.literal
		return s.graph.Rewire(id, nil, func([]value.Value) (value.Value, error) { return v, nil })

	case InputFormula:
		addresses := in.formula.Addresses()
		deps := make([]dag.NodeID, len(addresses))
		for i, raw := range addresses {
			dep, ok := s.resolve(raw)
			if !ok {
				return sheeterr.Referencef("invalid reference: %s", raw)
			}
			deps[i] = dep
		}
		return s.graph.Rewire(id, deps, dag.Formula(in.formula.Eval))

	case InputFailed:
		if in.err == nil {
			return fmt.Errorf("failed cell input without an error")
		}
		return in.err

	default:
		return fmt.Errorf("unknown cell input kind %d", in.kind)
	}
}

// resolve maps a textual address to the node of a cell inside the grid.
func (s *Sheet) resolve(raw string) (dag.NodeID, bool) {
	addr, err := cellref.Parse(raw)
	if err != nil || !addr.In(s.rows, s.columns) {
		return 0, false
	}
	return dag.NodeID(addr.Row*s.columns + addr.Column), true
}

func (s *Sheet) nodeID(addr cellref.Address) (dag.NodeID, error) {
	if !addr.In(s.rows, s.columns) {
		return 0, fmt.Errorf("cell %s is outside the %dx%d grid", addr, s.rows, s.columns)
	}
	return dag.NodeID(addr.Row*s.columns + addr.Column), nil
}

func raise(err *sheeterr.Error) dag.Formula {
	return func([]value.Value) (value.Value, error) {
		return value.Value{}, err
	}
}
