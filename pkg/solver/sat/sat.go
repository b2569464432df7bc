// Package sat decides outer k-planarity with a boolean satisfiability
// encoding solved by gini.
//
// For a trial bound k the encoding has one variable per vertex pair stating
// which of the two comes first in a linear order (vertex 0 is pinned first,
// which loses nothing on a circle), transitivity clauses making those
// variables a total order, one crossing variable per pair of independent
// edges forced true by the eight interleaving patterns of its endpoints, and
// at-most-k clauses over the crossing variables of every edge.
package sat

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/perm"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// pollInterval is how often a running SAT call checks for cancellation.
const pollInterval = 20 * time.Millisecond

// Solver is the SAT back end.
type Solver struct {
	Ceiling int
	Logger  *log.Logger
}

// New returns a SAT solver.
func New(ceiling int, logger *log.Logger) *Solver {
	return &Solver{Ceiling: ceiling, Logger: logger}
}

// Solve implements solver.Solver. It accepts any connected graph.
func (s *Solver) Solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	return solver.Observe(ctx, solver.MethodSAT, g, func() (solver.Result, error) {
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
	ceiling := solver.Ceiling(s.Ceiling)
	if err := errors.ValidateCeiling(ceiling); err != nil {
		return solver.Result{}, err
	}
	logger := s.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	for k := max(bound, 0); k <= ceiling; k++ {
		if err := ctx.Err(); err != nil {
			return solver.Result{}, err
		}
		observability.Solver().OnBoundRaised(ctx, solver.MethodSAT, k)

		enc := encode(g, k)
		sat, err := run(ctx, enc.g)
		if err != nil {
			return solver.Result{}, err
		}
		logger.Debug("sat call", "k", k, "vars", enc.vars, "clauses", enc.clauses, "sat", sat)
		if sat {
			return solver.Finish(g, enc.order())
		}
	}
	return solver.Result{}, solver.Unsolved(g, ceiling)
}

// run solves in the background and stops the search when ctx ends.
func run(ctx context.Context, g *gini.Gini) (bool, error) {
	s := g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if res, done := s.Test(); done {
			return res == 1, nil
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
}

// encoding is one CNF instance for a fixed bound.
type encoding struct {
	g       *gini.Gini
	n       int
	first   [][]z.Lit // first[a][b] for a < b: a precedes b
	vars    int
	clauses int
}

func (e *encoding) lit() z.Lit {
	e.vars++
	return e.g.Lit()
}

func (e *encoding) clause(ms ...z.Lit) {
	for _, m := range ms {
		e.g.Add(m)
	}
	e.g.Add(z.LitNull)
	e.clauses++
}

// before returns the literal "a precedes b".
func (e *encoding) before(a, b int) z.Lit {
	if a < b {
		return e.first[a][b]
	}
	return e.first[b][a].Not()
}

func encode(g *graph.Graph, k int) *encoding {
	n := g.N()
	e := &encoding{g: gini.New(), n: n, first: make([][]z.Lit, n)}
	for a := 0; a < n; a++ {
		e.first[a] = make([]z.Lit, n)
		for b := a + 1; b < n; b++ {
			e.first[a][b] = e.lit()
		}
	}

	for b := 1; b < n; b++ {
		e.clause(e.before(0, b))
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				if a == b || b == c || a == c {
					continue
				}
				e.clause(e.before(a, b).Not(), e.before(b, c).Not(), e.before(a, c))
			}
		}
	}

	crossing := make([][]z.Lit, g.M())
	edges := g.Edges()
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			f, h := edges[i], edges[j]
			if f.Has(h.U) || f.Has(h.V) {
				continue
			}
			y := e.lit()
			a, b, c, d := f.U, f.V, h.U, h.V
			for _, p := range [8][4]int{
				{a, c, b, d}, {a, d, b, c}, {b, c, a, d}, {b, d, a, c},
				{c, a, d, b}, {c, b, d, a}, {d, a, c, b}, {d, b, c, a},
			} {
				e.clause(e.before(p[0], p[1]).Not(), e.before(p[1], p[2]).Not(), e.before(p[2], p[3]).Not(), y)
			}
			crossing[i] = append(crossing[i], y)
			crossing[j] = append(crossing[j], y)
		}
	}

	for _, ys := range crossing {
		perm.Combinations(len(ys), k+1, func(idx []int) bool {
			ms := make([]z.Lit, len(idx))
			for i, x := range idx {
				ms[i] = ys[x].Not()
			}
			e.clause(ms...)
			return true
		})
	}
	return e
}

// order reads the linear order out of a satisfying assignment.
func (e *encoding) order() []int {
	order := perm.Seq(e.n)
	slices.SortFunc(order, func(a, b int) int {
		if a == b {
			return 0
		}
		if e.g.Value(e.before(a, b)) {
			return -1
		}
		return 1
	})
	return order
}
