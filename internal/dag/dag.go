package dag

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/sheetcalc/internal/sheeterr"
)

// New creates and returns an initialized, empty Graph.
func New(opts ...Option) *Graph {
	g := &Graph{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode appends a node with no inputs and a formula producing empty text.
func (g *Graph) AddNode() NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &node{
		id:         id,
		formula:    emptyFormula,
		dependents: make(map[NodeID]struct{}),
	})
	return id
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Rewire replaces the inputs and formula of node id. Inputs may repeat.
//
// Every candidate input is checked before anything changes: an input that is
// id itself, or that reaches id over input edges, fails the call with a
// reference error and leaves the node's wiring and cache untouched. On
// success the node's own cache is cleared; dependents keep theirs.
func (g *Graph) Rewire(id NodeID, inputs []NodeID, f Formula) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	for _, in := range inputs {
		if _, err := g.node(in); err != nil {
			return fmt.Errorf("rewiring node %d: %w", id, err)
		}
	}
	for _, in := range inputs {
		if g.reaches(in, id) {
			return sheeterr.Referencef(sheeterr.MsgCyclicDependency)
		}
	}

	for _, old := range n.inputs {
		delete(g.nodes[old].dependents, id)
	}
	if f == nil {
		f = emptyFormula
	}
	n.inputs = slices.Clone(inputs)
	n.formula = f
	n.cached = nil
	for _, in := range n.inputs {
		g.nodes[in].dependents[id] = struct{}{}
	}
	return nil
}

// reaches reports whether target equals from or can be reached from it by
// following input edges.
func (g *Graph) reaches(from, target NodeID) bool {
	visited := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true
		stack = append(stack, g.nodes[cur].inputs...)
	}
	return false
}

// Inputs returns the inputs of node id in order.
func (g *Graph) Inputs(id NodeID) ([]NodeID, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.inputs), nil
}

// Dependents returns the nodes listing id among their inputs, sorted.
func (g *Graph) Dependents(id NodeID) ([]NodeID, error) {
	n, err := g.node(id)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(n.dependents)), nil
}

// Cached returns the cached output of node id, if present.
func (g *Graph) Cached(id NodeID) (Output, bool) {
	n, err := g.node(id)
	if err != nil || n.cached == nil {
		return Output{}, false
	}
	return *n.cached, true
}

func (g *Graph) node(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("node not found: %d", id)
	}
	return g.nodes[id], nil
}
