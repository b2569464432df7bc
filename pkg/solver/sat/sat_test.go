package sat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
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

func TestSolve(t *testing.T) {
	tests := []struct {
		name string
		g    *graph.Graph
		want int
	}{
		{"triangle", graph.MustFromEdges(3, [][2]int{{0, 1}, {1, 2}, {2, 0}}), 0},
		{"k4", complete(4), 1},
		{"k5", complete(5), 2},
		{"k23", graph.MustFromEdges(5, [][2]int{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}}), 1},
		{"c6", graph.MustFromEdges(6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}}), 0},
		{"bowtie", graph.MustFromEdges(5, [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 2}}), 0},
		{"k6", complete(6), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(0, nil).Solve(context.Background(), tt.g, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.CrossingNumber)
			assert.Equal(t, 0, res.Order[0], "vertex 0 is pinned first")
			assert.NoError(t, solver.Verify(tt.g, res))
		})
	}
}

func TestSolveUnsolved(t *testing.T) {
	_, err := New(1, nil).Solve(context.Background(), complete(5), 0)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsolved), "err = %v", err)
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(0, nil).Solve(ctx, complete(5), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodingSize(t *testing.T) {
	// K4 has three pairs of independent edges.
	enc := encode(complete(4), 1)
	assert.Equal(t, 6+3, enc.vars)

	// 3 pins, 24 transitivity clauses, 8 per crossing variable, and no
	// at-most-one clause can fire since every edge has one crossing
	// variable.
	assert.Equal(t, 3+24+3*8, enc.clauses)
}
