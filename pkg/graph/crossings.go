package graph

import (
	"github.com/matzehuels/okplanar/pkg/errors"
)

// Positions inverts a circular vertex order: pos[v] is the index of v in
// order. It fails unless order is a permutation of 0..n-1.
func Positions(n int, order []int) ([]int, error) {
	if len(order) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "order has %d vertices, graph has %d", len(order), n)
	}
	pos := make([]int, n)
	for i := range pos {
		pos[i] = -1
	}
	for i, v := range order {
		if v < 0 || v >= n {
			return nil, errors.New(errors.ErrCodeInvalidInput, "order contains out-of-range vertex %d", v)
		}
		if pos[v] >= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "order repeats vertex %d", v)
		}
		pos[v] = i
	}
	return pos, nil
}

// Crosses reports whether the chords e and f cross when the vertices sit on
// a circle at the given positions. Chords that share an endpoint never
// cross. Two chords cross exactly when one endpoint of f lies strictly
// inside the span of e and the other strictly outside.
func Crosses(pos []int, e, f Edge) bool {
	if e.Has(f.U) || e.Has(f.V) {
		return false
	}
	lo, hi := pos[e.U], pos[e.V]
	if lo > hi {
		lo, hi = hi, lo
	}
	inU := lo < pos[f.U] && pos[f.U] < hi
	inV := lo < pos[f.V] && pos[f.V] < hi
	return inU != inV
}

// EdgeCrossings returns, for each edge id, the number of other edges it
// crosses in the circular drawing given by order.
//
// It runs in O(M²) time, which is negligible next to any exact solver.
func EdgeCrossings(g *Graph, order []int) ([]int, error) {
	pos, err := Positions(g.N(), order)
	if err != nil {
		return nil, err
	}
	counts := make([]int, g.M())
	edges := g.Edges()
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if Crosses(pos, edges[i], edges[j]) {
				counts[i]++
				counts[j]++
			}
		}
	}
	return counts, nil
}

// MaxCrossing returns the local crossing number of the drawing given by
// order: the largest number of crossings on any single edge.
func MaxCrossing(g *Graph, order []int) (int, error) {
	counts, err := EdgeCrossings(g, order)
	if err != nil {
		return 0, err
	}
	best := 0
	for _, c := range counts {
		best = max(best, c)
	}
	return best, nil
}
