package dag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sheetcalc/internal/operation"
	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// constant returns a formula that always yields v and counts its calls.
func constant(v value.Value, calls *int) Formula {
	return func([]value.Value) (value.Value, error) {
		if calls != nil {
			*calls++
		}
		return v, nil
	}
}

func sum(args []value.Value) (value.Value, error) {
	acc := value.Int(0)
	for _, a := range args {
		var err error
		if acc, err = operation.Add(acc, a); err != nil {
			return value.Value{}, err
		}
	}
	return acc, nil
}

func raising(err error) Formula {
	return func([]value.Value) (value.Value, error) {
		return value.Value{}, err
	}
}

// newGraph adds n nodes to a fresh graph.
func newGraph(t *testing.T, n int, opts ...Option) (*Graph, []NodeID) {
	t.Helper()
	g := New(opts...)
	ids := make([]NodeID, n)
	for i := range ids {
		ids[i] = g.AddNode()
	}
	return g, ids
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, DefaultMaxDepth, g.maxDepth)

	g = New(WithMaxDepth(5), WithMaxDepth(0))
	assert.Equal(t, 5, g.maxDepth)
}

func TestAddNode(t *testing.T) {
	g := New()

	a := g.AddNode()
	b := g.AddNode()
	assert.Equal(t, NodeID(0), a)
	assert.Equal(t, NodeID(1), b)
	assert.Equal(t, 2, g.Len())

	out, err := g.Output(a)
	require.NoError(t, err)
	assert.False(t, out.Failed())
	assert.Equal(t, "", out.String())
}

func TestRewire(t *testing.T) {
	t.Run("maintains dependents", func(t *testing.T) {
		g, ids := newGraph(t, 3)
		a, b, c := ids[0], ids[1], ids[2]

		require.NoError(t, g.Rewire(c, []NodeID{a, b, a}, sum))

		inputs, err := g.Inputs(c)
		require.NoError(t, err)
		assert.Equal(t, []NodeID{a, b, a}, inputs)
		deps, err := g.Dependents(a)
		require.NoError(t, err)
		assert.Equal(t, []NodeID{c}, deps)

		// Rewiring away from a detaches c from it.
		require.NoError(t, g.Rewire(c, []NodeID{b}, sum))
		deps, err = g.Dependents(a)
		require.NoError(t, err)
		assert.Empty(t, deps)
		deps, err = g.Dependents(b)
		require.NoError(t, err)
		assert.Equal(t, []NodeID{c}, deps)
	})

	t.Run("self reference is rejected", func(t *testing.T) {
		g, ids := newGraph(t, 1)

		err := g.Rewire(ids[0], []NodeID{ids[0]}, sum)
		assert.True(t, errors.Is(err, &sheeterr.Error{Kind: sheeterr.KindReference, Msg: sheeterr.MsgCyclicDependency}))
	})

	t.Run("transitive cycle leaves prior wiring and cache untouched", func(t *testing.T) {
		// --- Arrange ---
		g, ids := newGraph(t, 3)
		a, b, c := ids[0], ids[1], ids[2]
		require.NoError(t, g.Rewire(a, nil, constant(value.Int(1), nil)))
		require.NoError(t, g.Rewire(b, []NodeID{a}, sum))
		require.NoError(t, g.Rewire(c, []NodeID{b}, sum))
		before, err := g.Output(a)
		require.NoError(t, err)

		// --- Act ---
		err = g.Rewire(a, []NodeID{c}, sum)

		// --- Assert ---
		se, ok := sheeterr.As(err)
		require.True(t, ok)
		assert.Equal(t, sheeterr.KindReference, se.Kind)
		assert.Equal(t, "cyclic dependency", se.Msg)

		inputs, err := g.Inputs(a)
		require.NoError(t, err)
		assert.Empty(t, inputs)
		deps, err := g.Dependents(c)
		require.NoError(t, err)
		assert.Empty(t, deps)
		cached, ok := g.Cached(a)
		require.True(t, ok)
		assert.Equal(t, before, cached)
	})

	t.Run("unknown input is not a domain error", func(t *testing.T) {
		g, ids := newGraph(t, 1)

		err := g.Rewire(ids[0], []NodeID{42}, sum)
		require.Error(t, err)
		assert.False(t, sheeterr.IsSheetError(err))
		assert.ErrorContains(t, err, "node not found: 42")
	})

	t.Run("clears only the node's own cache", func(t *testing.T) {
		g, ids := newGraph(t, 2)
		a, b := ids[0], ids[1]
		require.NoError(t, g.Rewire(a, nil, constant(value.Int(1), nil)))
		require.NoError(t, g.Rewire(b, []NodeID{a}, sum))
		_, err := g.Output(b)
		require.NoError(t, err)

		require.NoError(t, g.Rewire(a, nil, constant(value.Int(2), nil)))

		_, ok := g.Cached(a)
		assert.False(t, ok)
		_, ok = g.Cached(b)
		assert.True(t, ok)
	})
}

func TestOutput_Memoizes(t *testing.T) {
	g, ids := newGraph(t, 1)
	calls := 0
	require.NoError(t, g.Rewire(ids[0], nil, constant(value.Int(7), &calls)))

	first, err := g.Output(ids[0])
	require.NoError(t, err)
	second, err := g.Output(ids[0])
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "7", second.String())
	assert.Equal(t, 1, calls)
}

func TestOutput_Failures(t *testing.T) {
	t.Run("domain error becomes failed output", func(t *testing.T) {
		g, ids := newGraph(t, 1)
		require.NoError(t, g.Rewire(ids[0], nil, raising(sheeterr.ValueTypef("text is not numeric: x"))))

		out, err := g.Output(ids[0])

		require.NoError(t, err)
		require.True(t, out.Failed())
		assert.Equal(t, sheeterr.KindValueType, out.Err.Kind)
		assert.Equal(t, "⚠️ text is not numeric: x [ValueTypeError]", out.String())
		_, cached := g.Cached(ids[0])
		assert.True(t, cached)
	})

	t.Run("failed input short-circuits the formula", func(t *testing.T) {
		g, ids := newGraph(t, 3)
		bad, good, c := ids[0], ids[1], ids[2]
		calls := 0
		require.NoError(t, g.Rewire(bad, nil, raising(sheeterr.Syntaxf("oops"))))
		require.NoError(t, g.Rewire(c, []NodeID{good, bad}, func(args []value.Value) (value.Value, error) {
			calls++
			return sum(args)
		}))

		out, err := g.Output(c)

		require.NoError(t, err)
		require.True(t, out.Failed())
		assert.Equal(t, sheeterr.KindReference, out.Err.Kind)
		assert.Equal(t, "error in referenced cells", out.Err.Msg)
		assert.Zero(t, calls)
	})

	t.Run("unexpected error propagates uncached", func(t *testing.T) {
		g, ids := newGraph(t, 2)
		boom := errors.New("boom")
		require.NoError(t, g.Rewire(ids[0], nil, raising(boom)))
		require.NoError(t, g.Rewire(ids[1], []NodeID{ids[0]}, sum))

		_, err := g.Output(ids[1])

		require.ErrorIs(t, err, boom)
		_, cached := g.Cached(ids[0])
		assert.False(t, cached)
		_, cached = g.Cached(ids[1])
		assert.False(t, cached)
	})
}

func TestOutput_InvalidatesDependents(t *testing.T) {
	g, ids := newGraph(t, 2)
	a, b := ids[0], ids[1]
	require.NoError(t, g.Rewire(a, nil, constant(value.Int(2), nil)))
	require.NoError(t, g.Rewire(b, []NodeID{a}, sum))

	out, err := g.Output(b)
	require.NoError(t, err)
	assert.Equal(t, "2", out.String())

	// a is rewired without invalidation, so b still holds a stale value
	// until a is read again.
	require.NoError(t, g.Rewire(a, nil, constant(value.Int(5), nil)))
	_, err = g.Output(a)
	require.NoError(t, err)

	_, cached := g.Cached(b)
	assert.False(t, cached)
	out, err = g.Output(b)
	require.NoError(t, err)
	assert.Equal(t, "5", out.String())
}

func TestInvalidate(t *testing.T) {
	t.Run("uncached node is a no-op", func(t *testing.T) {
		g, ids := newGraph(t, 2)
		a, b := ids[0], ids[1]
		require.NoError(t, g.Rewire(b, []NodeID{a}, sum))
		// Cache b only by hand-reading, then drop a's cache.
		_, err := g.Output(b)
		require.NoError(t, err)
		g.nodes[a].cached = nil

		require.NoError(t, g.Invalidate(a))

		_, cached := g.Cached(b)
		assert.True(t, cached, "invalidation must not recurse from an uncached node")
	})

	t.Run("clears transitive dependents only", func(t *testing.T) {
		// --- Arrange ---
		// a <- b <- c, and an unrelated d.
		g, ids := newGraph(t, 4)
		a, b, c, d := ids[0], ids[1], ids[2], ids[3]
		require.NoError(t, g.Rewire(a, nil, constant(value.Int(1), nil)))
		require.NoError(t, g.Rewire(b, []NodeID{a}, sum))
		require.NoError(t, g.Rewire(c, []NodeID{b}, sum))
		for _, id := range ids {
			_, err := g.Output(id)
			require.NoError(t, err)
		}

		// --- Act ---
		require.NoError(t, g.Invalidate(a))

		// --- Assert ---
		for _, id := range []NodeID{a, b, c} {
			_, cached := g.Cached(id)
			assert.False(t, cached, "node %d", id)
		}
		_, cached := g.Cached(d)
		assert.True(t, cached)
	})

	t.Run("unknown node", func(t *testing.T) {
		g := New()
		assert.ErrorContains(t, g.Invalidate(3), "node not found")
	})
}

func TestOutput_RecomputesAfterUpdate(t *testing.T) {
	g, ids := newGraph(t, 3)
	a, b, c := ids[0], ids[1], ids[2]
	require.NoError(t, g.Rewire(a, nil, constant(value.Int(2), nil)))
	require.NoError(t, g.Rewire(b, nil, constant(value.Int(3), nil)))
	require.NoError(t, g.Rewire(c, []NodeID{a, b}, sum))

	out, err := g.Output(c)
	require.NoError(t, err)
	assert.Equal(t, "5", out.String())

	require.NoError(t, g.Invalidate(a))
	require.NoError(t, g.Rewire(a, nil, constant(value.Int(4), nil)))

	out, err = g.Output(c)
	require.NoError(t, err)
	assert.Equal(t, "7", out.String())
}

func TestOutput_DepthGuard(t *testing.T) {
	const chain = 50
	g, ids := newGraph(t, chain, WithMaxDepth(10))
	require.NoError(t, g.Rewire(ids[0], nil, constant(value.Int(1), nil)))
	for i := 1; i < chain; i++ {
		require.NoError(t, g.Rewire(ids[i], []NodeID{ids[i-1]}, sum))
	}

	_, err := g.Output(ids[chain-1])
	require.ErrorIs(t, err, ErrDepthExceeded)
	assert.False(t, sheeterr.IsSheetError(err))
	for _, id := range ids[chain-10:] {
		_, cached := g.Cached(id)
		assert.False(t, cached, fmt.Sprintf("node %d", id))
	}

	// Reading bottom-up keeps every call shallow.
	for _, id := range ids {
		_, err := g.Output(id)
		require.NoError(t, err)
	}
	out, err := g.Output(ids[chain-1])
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())
}
