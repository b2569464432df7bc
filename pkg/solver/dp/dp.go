// Package dp decides outer k-planarity with a bitmask dynamic program.
//
// A link is a pair of vertices {u, v} read as a chord of the circle. Its
// right side is the set of vertices drawn strictly between u and v on one
// arc, stored as a 64-bit mask. The edges avoiding u and v with exactly one
// endpoint on the right side pierce the link chord.
//
// The table lists, for every link, the right sides whose piercing set has at
// most k edges, bucketed by mask size. It only grows as k is raised, so one
// table serves every trial bound of a solve.
//
// The search fills cells bottom-up by right-side size. A cell of link
// (u, v) with mask S is built by picking a split vertex w in S and joining a
// cell of (u, w) with a cell of (w, v) whose masks partition S minus w. The
// triangle join counts the crossings the split triangle adds and drops
// arrangements that push any edge past k. A non-empty cell whose mask holds
// every vertex but u and v is a complete circular order.
package dp

import (
	"context"
	"io"
	"math/bits"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/bctree"
	"github.com/matzehuels/okplanar/pkg/graph/perm"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// MaxVertices is the largest component the solver accepts; right sides are
// 64-bit vertex masks.
const MaxVertices = 64

// Solver is the bitmask dynamic program. The zero value is ready to use with
// the default ceiling.
type Solver struct {
	// Ceiling is the largest trial bound tried; zero means
	// solver.DefaultCeiling.
	Ceiling int
	// Logger receives per-bound progress at debug level. Nil discards.
	Logger *log.Logger
}

// New returns a Solver with the given ceiling and logger.
func New(ceiling int, logger *log.Logger) *Solver {
	return &Solver{Ceiling: ceiling, Logger: logger}
}

// Solve implements solver.Solver. g must be biconnected unless it has at
// most three vertices.
func (s *Solver) Solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	return solver.Observe(ctx, solver.MethodDP, g, func() (solver.Result, error) {
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
			"component has %d vertices, the dynamic program handles at most %d", g.N(), MaxVertices)
	}
	if !bctree.IsBiconnected(g) {
		return solver.Result{}, errors.New(errors.ErrCodeNotBiconnected,
			"graph with %d vertices is not biconnected", g.N())
	}

	ceiling := solver.Ceiling(s.Ceiling)
	if err := errors.ValidateCeiling(ceiling); err != nil {
		return solver.Result{}, err
	}
	logger := s.logger()

	tab := newTable(g)
	for k := max(bound, 0); k <= ceiling; k++ {
		if err := ctx.Err(); err != nil {
			return solver.Result{}, err
		}
		observability.Solver().OnBoundRaised(ctx, solver.MethodDP, k)

		if err := tab.extend(ctx, k); err != nil {
			return solver.Result{}, err
		}
		sr := newSearch(g, tab, k)
		order, err := sr.run(ctx)
		if err != nil {
			return solver.Result{}, err
		}
		if order != nil {
			logger.Debug("bound reached", "k", k, "vertices", g.N(), "cells", sr.cellCount)
			return solver.Finish(g, order)
		}
		logger.Debug("bound not drawable", "k", k, "vertices", g.N(), "cells", sr.cellCount)
	}
	return solver.Result{}, solver.Unsolved(g, ceiling)
}

func (s *Solver) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// search is the bottom-up table for one trial bound.
type search struct {
	g   *graph.Graph
	tab *table
	k   int

	cells     []map[uint64]*cell // non-empty cells per link
	byLink    [][]*cell          // the same cells in creation order
	cellCount int
}

func newSearch(g *graph.Graph, tab *table, k int) *search {
	n := g.N()
	return &search{
		g:      g,
		tab:    tab,
		k:      k,
		cells:  make([]map[uint64]*cell, n*n),
		byLink: make([][]*cell, n*n),
	}
}

func (s *search) linkID(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a*s.g.N() + b
}

func (s *search) store(id int, c *cell) {
	if s.cells[id] == nil {
		s.cells[id] = make(map[uint64]*cell)
	}
	s.cells[id][c.mask] = c
	s.byLink[id] = append(s.byLink[id], c)
	s.cellCount++
}

// run fills the table by increasing right-side size and returns a circular
// order as soon as some link's full right side has an arrangement, or nil if
// none does.
func (s *search) run(ctx context.Context) ([]int, error) {
	n := s.g.N()

	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			for _, e := range s.tab.links[u*n+v].bySize[0] {
				c := newCell(e)
				c.add(blank)
				s.store(u*n+v, c)
			}
		}
	}

	for size := 1; size <= n-2; size++ {
		for u := 0; u < n; u++ {
			for v := u + 1; v < n; v++ {
				for _, e := range s.tab.links[u*n+v].bySize[size] {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					c := newCell(e)
					s.fill(c, u, v)
					if c.empty() {
						continue
					}
					s.store(u*n+v, c)
					if size == n-2 {
						a := c.oriented(true)[0]
						order := make([]int, 0, n)
						order = append(order, u)
						order = append(order, a.order...)
						return append(order, v), nil
					}
				}
			}
		}
	}
	return nil, nil
}

// fill computes every arrangement of c, the right side c.mask of link (u, v),
// by trying each vertex w of the mask as the split vertex.
func (s *search) fill(c *cell, u, v int) {
	blocks, far := pierceBlocks(s.g, c.mask, c.pierce)
	perms := perm.Generate(len(blocks), 0)

	for rest := c.mask; rest != 0; rest &= rest - 1 {
		w := bits.TrailingZeros64(rest)
		others := c.mask &^ (1 << uint(w))
		for _, ca := range s.byLink[s.linkID(u, w)] {
			if ca.mask&^others != 0 {
				continue
			}
			cb, ok := s.cells[s.linkID(w, v)][others&^ca.mask]
			if !ok {
				continue
			}
			tri := newTriangle(s.g, u, v, w, ca.mask, cb.mask)
			tri.combine(c, blocks, far, perms, ca.oriented(u < w), cb.oriented(w < v), s.k)
		}
	}
}

func popcount(x uint64) int { return bits.OnesCount64(x) }
