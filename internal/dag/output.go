package dag

import (
	"fmt"

	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// Invalidate clears the cached output of node id and of every transitive
// dependent holding one. Propagation stops at nodes without a cached output,
// so invalidating an uncached node does nothing.
func (g *Graph) Invalidate(id NodeID) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	g.invalidate(n)
	return nil
}

func (g *Graph) invalidate(start *node) {
	work := []*node{start}
	for len(work) > 0 {
		n := work[len(work)-1]
		work = work[:len(work)-1]
		if n.cached == nil {
			continue
		}
		n.cached = nil
		for dep := range n.dependents {
			work = append(work, g.nodes[dep])
		}
	}
}

func (g *Graph) invalidateDependents(n *node) {
	for dep := range n.dependents {
		g.invalidate(g.nodes[dep])
	}
}

// Output returns the output of node id, computing and caching it when
// needed.
//
// A node whose inputs include a failed output fails with "error in
// referenced cells" without running its formula. Domain errors from the
// formula become failed outputs and are cached. Other errors, including
// ErrDepthExceeded, are returned and leave nothing cached for the nodes
// whose computation they interrupted.
func (g *Graph) Output(id NodeID) (Output, error) {
	n, err := g.node(id)
	if err != nil {
		return Output{}, err
	}
	return g.output(n, 0)
}

func (g *Graph) output(n *node, depth int) (Output, error) {
	if n.cached != nil {
		return *n.cached, nil
	}
	if depth >= g.maxDepth {
		return Output{}, fmt.Errorf("%w: more than %d levels at node %d", ErrDepthExceeded, g.maxDepth, n.id)
	}

	out, err := g.compute(n, depth)
	if err != nil {
		return Output{}, err
	}
	n.cached = &out
	g.invalidateDependents(n)
	return out, nil
}

func (g *Graph) compute(n *node, depth int) (Output, error) {
	for _, in := range n.inputs {
		out, err := g.output(g.nodes[in], depth+1)
		if err != nil {
			return Output{}, err
		}
		if out.Failed() {
			return ErrorOutput(&sheeterr.Error{Kind: sheeterr.KindReference, Msg: sheeterr.MsgReferencedError}), nil
		}
	}

	args := make([]value.Value, len(n.inputs))
	for i, in := range n.inputs {
		out, err := g.output(g.nodes[in], depth+1)
		if err != nil {
			return Output{}, err
		}
		args[i] = out.Value
	}

	v, err := n.formula(args)
	if err != nil {
		se, ok := sheeterr.As(err)
		if !ok {
			return Output{}, fmt.Errorf("evaluating node %d: %w", n.id, err)
		}
		return ErrorOutput(se), nil
	}
	return Output{Value: v}, nil
}
