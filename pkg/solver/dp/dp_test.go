package dp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/perm"
	"github.com/matzehuels/okplanar/pkg/solver"
)

func complete(n int) *graph.Graph {
	g := graph.New(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			_, _ = g.AddEdge(u, v)
		}
	}
	return g
}

func cycle(n int) *graph.Graph {
	g := graph.New(n)
	for i := 0; i < n; i++ {
		_, _ = g.AddEdge(i, (i+1)%n)
	}
	return g
}

func bipartite(a, b int) *graph.Graph {
	g := graph.New(a + b)
	for u := 0; u < a; u++ {
		for v := a; v < a+b; v++ {
			_, _ = g.AddEdge(u, v)
		}
	}
	return g
}

func wheel(rim int) *graph.Graph {
	g := graph.New(rim + 1)
	for i := 1; i <= rim; i++ {
		_, _ = g.AddEdge(0, i)
		_, _ = g.AddEdge(i, i%rim+1)
	}
	return g
}

func prism() *graph.Graph {
	return graph.MustFromEdges(6, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{3, 4}, {4, 5}, {5, 3},
		{0, 3}, {1, 4}, {2, 5},
	})
}

// bruteForce returns the minimum local crossing number over all circular
// orders that fix vertex 0 first.
func bruteForce(t *testing.T, g *graph.Graph) int {
	t.Helper()
	n := g.N()
	best := -1
	for _, p := range perm.Generate(n-1, 0) {
		order := make([]int, n)
		for i, x := range p {
			order[i+1] = x + 1
		}
		k, err := graph.MaxCrossing(g, order)
		require.NoError(t, err)
		if best < 0 || k < best {
			best = k
		}
	}
	return best
}

func TestSolveKnownValues(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
		want int
	}{
		{"triangle", cycle(3), 0},
		{"k4", complete(4), 1},
		{"k5", complete(5), 2},
		{"k23", bipartite(2, 3), 1},
		{"c6", cycle(6), 0},
		{"wheel4", wheel(4), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(0, nil).Solve(context.Background(), tt.g, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.CrossingNumber)
			assert.NoError(t, solver.Verify(tt.g, res))
		})
	}
}

func TestSolveMatchesBruteForce(t *testing.T) {
	graphs := map[string]*graph.Graph{
		"k33":          bipartite(3, 3),
		"k24":          bipartite(2, 4),
		"wheel5":       wheel(5),
		"prism":        prism(),
		"c6 diagonals": graph.MustFromEdges(6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {0, 3}, {1, 4}, {2, 5}}),
		"k6":           complete(6),
		"c7 chords":    graph.MustFromEdges(7, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 0}, {0, 2}, {1, 5}, {3, 6}}),
	}
	for name, g := range graphs {
		t.Run(name, func(t *testing.T) {
			res, err := New(0, nil).Solve(context.Background(), g, 0)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(t, g), res.CrossingNumber)
			assert.NoError(t, solver.Verify(g, res))
		})
	}
}

func TestSolveSmallGraphsSkipSearch(t *testing.T) {
	for _, g := range []*graph.Graph{
		graph.New(1),
		graph.MustFromEdges(2, [][2]int{{0, 1}}),
		graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}}),
	} {
		res, err := New(0, nil).Solve(context.Background(), g, 0)
		require.NoError(t, err)
		assert.Zero(t, res.CrossingNumber)
		assert.Len(t, res.Order, g.N())
	}
}

func TestSolveDeterministic(t *testing.T) {
	g := bipartite(3, 3)
	first, err := New(0, nil).Solve(context.Background(), g, 0)
	require.NoError(t, err)
	second, err := New(0, nil).Solve(context.Background(), g, 0)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSolveHigherBound(t *testing.T) {
	// Starting above the minimum still yields a valid drawing within the
	// bound, and the report matches the drawing.
	g := bipartite(2, 3)
	res, err := New(0, nil).Solve(context.Background(), g, 3)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.CrossingNumber, 3)
	assert.NoError(t, solver.Verify(g, res))

	// K4 has exactly one crossing per diagonal in every order.
	res, err = New(0, nil).Solve(context.Background(), complete(4), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CrossingNumber)
}

func TestSolveErrors(t *testing.T) {
	bowtie := graph.MustFromEdges(5, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 2}})

	_, err := New(0, nil).Solve(context.Background(), bowtie, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeNotBiconnected), "bowtie: %v", err)

	_, err = New(1, nil).Solve(context.Background(), complete(5), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsolved), "ceiling: %v", err)

	_, err = New(0, nil).Solve(context.Background(), graph.MustFromEdges(4, [][2]int{{0, 1}, {2, 3}}), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeNotConnected), "disconnected: %v", err)

	_, err = New(0, nil).Solve(context.Background(), cycle(MaxVertices+1), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeTooLarge), "too large: %v", err)

	_, err = New(errors.MaxCeiling+1, nil).Solve(context.Background(), complete(4), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "ceiling too high: %v", err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(0, nil).Solve(ctx, complete(5), 0)
	assert.ErrorIs(t, err, context.Canceled)
}
