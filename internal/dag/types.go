package dag

import (
	"errors"
	"fmt"

	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// DefaultMaxDepth bounds how deep a single Output call may recurse through
// uncached inputs.
const DefaultMaxDepth = 10000

// ErrDepthExceeded is returned when computing an output would recurse deeper
// than the configured maximum depth.
var ErrDepthExceeded = errors.New("dependency chain too deep")

// NodeID addresses a node within its Graph.
type NodeID int

// Formula computes a node's value from the values of its inputs, in input
// order. Errors that are *sheeterr.Error become failed outputs; any other
// error is returned from Graph.Output.
type Formula func(args []value.Value) (value.Value, error)

// Output is the result of reading a node.
type Output struct {
	// Value is the computed value, or the rendered diagnostic of a failure.
	Value value.Value
	// Err is set when the node failed.
	Err *sheeterr.Error
}

// ErrorOutput wraps a domain error as a failed output.
func ErrorOutput(err *sheeterr.Error) Output {
	return Output{
		Value: value.Text(fmt.Sprintf("⚠️ %s [%s]", err.Msg, err.Kind)),
		Err:   err,
	}
}

// Failed reports whether the output carries an error.
func (o Output) Failed() bool {
	return o.Err != nil
}

func (o Output) String() string {
	return o.Value.String()
}

// Graph is an arena of nodes and the edges between them.
type Graph struct {
	nodes    []*node
	maxDepth int
}

// node is one arena slot. Its dependents set is derived from the inputs of
// other nodes and is only ever updated by Rewire.
type node struct {
	id         NodeID
	inputs     []NodeID
	formula    Formula
	cached     *Output
	dependents map[NodeID]struct{}
}

// Option configures a Graph.
type Option func(*Graph)

// WithMaxDepth sets the maximum recursion depth of Output. Values below one
// are ignored.
func WithMaxDepth(depth int) Option {
	return func(g *Graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

func emptyFormula([]value.Value) (value.Value, error) {
	return value.Text(""), nil
}
