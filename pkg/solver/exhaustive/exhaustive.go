// Package exhaustive is a branch-and-bound reference solver.
//
// It places vertices one at a time after vertex 0 and keeps per-edge crossing
// counts incrementally: a pair of edges is counted the moment the later of
// the two is completed, so counts never decrease along a branch and any
// count above the bound prunes it. It is exact for every connected graph and
// practical only for small ones, which makes it the yardstick the other back
// ends are tested against.
package exhaustive

import (
	"context"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// MaxVertices bounds the input size; the search is factorial.
const MaxVertices = 16

// Solver is the exhaustive back end.
type Solver struct {
	Ceiling int
}

// New returns an exhaustive solver.
func New(ceiling int) *Solver { return &Solver{Ceiling: ceiling} }

// Solve implements solver.Solver.
func (s *Solver) Solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	return solver.Observe(ctx, solver.MethodExhaustive, g, func() (solver.Result, error) {
		return s.solve(ctx, g, bound)
	})
}

func (s *Solver) solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	if err := g.RequireConnected(); err != nil {
		return solver.Result{}, err
	}
	if g.N() <= 3 {
		return solver.Trivial(g), nil
	}
	if g.N() > MaxVertices {
		return solver.Result{}, errors.New(errors.ErrCodeTooLarge,
			"graph has %d vertices, exhaustive search handles at most %d", g.N(), MaxVertices)
	}
	ceiling := solver.Ceiling(s.Ceiling)
	if err := errors.ValidateCeiling(ceiling); err != nil {
		return solver.Result{}, err
	}

	for k := max(bound, 0); k <= ceiling; k++ {
		if err := ctx.Err(); err != nil {
			return solver.Result{}, err
		}
		observability.Solver().OnBoundRaised(ctx, solver.MethodExhaustive, k)
		b := newBranch(g, k)
		found, err := b.search(ctx)
		if err != nil {
			return solver.Result{}, err
		}
		if found {
			return solver.Finish(g, b.order)
		}
	}
	return solver.Result{}, solver.Unsolved(g, ceiling)
}

type branch struct {
	g      *graph.Graph
	k      int
	order  []int
	pos    []int // -1 while unplaced
	counts []int
	done   []int // completed edge ids in completion order
	nodes  int
}

func newBranch(g *graph.Graph, k int) *branch {
	b := &branch{
		g:      g,
		k:      k,
		pos:    make([]int, g.N()),
		counts: make([]int, g.M()),
	}
	for i := range b.pos {
		b.pos[i] = -1
	}
	return b
}

func (b *branch) search(ctx context.Context) (bool, error) {
	b.place(0)
	return b.extend(ctx)
}

func (b *branch) extend(ctx context.Context) (bool, error) {
	if len(b.order) == b.g.N() {
		return true, nil
	}
	b.nodes++
	if b.nodes%4096 == 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
	for x := 1; x < b.g.N(); x++ {
		if b.pos[x] >= 0 {
			continue
		}
		mark, ok := len(b.done), b.place(x)
		if ok {
			found, err := b.extend(ctx)
			if found || err != nil {
				return found, err
			}
		}
		b.unplace(x, mark)
	}
	return false, nil
}

// place appends x to the order, completes its edges to placed vertices and
// counts their crossings. It reports false if some edge exceeds the bound;
// the caller undoes the move either way.
func (b *branch) place(x int) bool {
	b.pos[x] = len(b.order)
	b.order = append(b.order, x)
	ok := true
	for _, id := range b.g.Incident(x) {
		e := b.g.Edge(id)
		if b.pos[e.Other(x)] < 0 {
			continue
		}
		for _, other := range b.done {
			if graph.Crosses(b.pos, e, b.g.Edge(other)) {
				b.counts[id]++
				b.counts[other]++
				if b.counts[other] > b.k {
					ok = false
				}
			}
		}
		if b.counts[id] > b.k {
			ok = false
		}
		b.done = append(b.done, id)
	}
	return ok
}

// unplace reverts place(x), given the length of done before it.
func (b *branch) unplace(x, mark int) {
	for i := len(b.done) - 1; i >= mark; i-- {
		id := b.done[i]
		b.done = b.done[:i]
		e := b.g.Edge(id)
		for _, other := range b.done {
			if graph.Crosses(b.pos, e, b.g.Edge(other)) {
				b.counts[id]--
				b.counts[other]--
			}
		}
	}
	b.pos[x] = -1
	b.order = b.order[:len(b.order)-1]
}
