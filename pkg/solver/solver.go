// Package solver defines the contract shared by every crossing-number back end.
//
// A [Solver] receives a graph and an initial trial bound and returns a
// circular vertex order together with its local crossing number: the largest
// number of other edges any single edge crosses when the vertices sit on a
// circle in that order. Back ends raise the bound one step at a time, so the
// first bound at which they succeed is the minimum.
//
// Implementations live in subpackages:
//
//   - dp: the bitmask dynamic program for biconnected graphs
//   - bicomp: the block-cut driver that splits general graphs into blocks
//   - sat: a boolean-satisfiability encoding
//   - exhaustive: branch and bound over all circular orders
package solver

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/observability"
)

// DefaultCeiling is the largest trial bound a solver tries unless told
// otherwise.
const DefaultCeiling = 7

// Method names accepted by the command line, the config file and the API.
const (
	MethodDP         = "dp"
	MethodSAT        = "sat"
	MethodExhaustive = "exhaustive"
)

// Methods returns all known method names.
func Methods() []string {
	return []string{MethodDP, MethodSAT, MethodExhaustive}
}

// Solver finds a circular vertex order with minimum local crossing number.
//
// Solve starts searching at bound and gives up after the solver's ceiling,
// returning an ErrCodeUnsolved error. The returned CrossingNumber is the
// actual maximum per-edge crossing count of Order, which is at least bound
// only when the search had to reach it.
type Solver interface {
	Solve(ctx context.Context, g *graph.Graph, bound int) (Result, error)
}

// Func adapts a plain function to the Solver interface.
type Func func(ctx context.Context, g *graph.Graph, bound int) (Result, error)

// Solve calls f.
func (f Func) Solve(ctx context.Context, g *graph.Graph, bound int) (Result, error) {
	return f(ctx, g, bound)
}

// Observe runs solve and reports it to the solver hooks as one solve of g.
// Under a context marked by observability.AsComponent nothing is reported;
// the driver that owns the context reports the whole graph.
func Observe(ctx context.Context, method string, g *graph.Graph, solve func() (Result, error)) (Result, error) {
	if observability.IsComponent(ctx) {
		return solve()
	}
	hooks := observability.Solver()
	start := time.Now()
	hooks.OnSolveStart(ctx, method, g.N(), g.M())
	res, err := solve()
	hooks.OnSolveComplete(ctx, method, res.CrossingNumber, time.Since(start), err)
	return res, err
}

// Result is the outcome of a successful solve.
type Result struct {
	// Order is a permutation of 0..n-1 read as a circular arrangement.
	Order []int `json:"order" yaml:"order"`
	// CrossingNumber is the largest number of crossings on any one edge.
	CrossingNumber int `json:"crossing_number" yaml:"crossing_number"`
}

// Trivial returns the identity order, which is optimal for graphs with at
// most three vertices: no two chords can cross.
func Trivial(g *graph.Graph) Result {
	order := make([]int, g.N())
	for i := range order {
		order[i] = i
	}
	return Result{Order: order}
}

// Ceiling normalizes a configured ceiling: zero or negative means
// DefaultCeiling.
func Ceiling(c int) int {
	if c <= 0 {
		return DefaultCeiling
	}
	return c
}

// Verify recomputes the crossing counts of res.Order on g and checks that the
// order is a permutation and that the reported crossing number is the actual
// maximum.
func Verify(g *graph.Graph, res Result) error {
	k, err := graph.MaxCrossing(g, res.Order)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "solver returned an invalid order")
	}
	if k != res.CrossingNumber {
		return errors.New(errors.ErrCodeInternal, "reported crossing number %d, order has %d", res.CrossingNumber, k)
	}
	return nil
}

// Finish recomputes the crossing number of order and packages it as a
// Result. Back ends call it on the order they extracted so the reported value
// never drifts from the drawing.
func Finish(g *graph.Graph, order []int) (Result, error) {
	k, err := graph.MaxCrossing(g, order)
	if err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInternal, err, "extracted order is invalid")
	}
	return Result{Order: slices.Clone(order), CrossingNumber: k}, nil
}

// Unsolved returns the error reported when no arrangement exists up to the
// ceiling.
func Unsolved(g *graph.Graph, ceiling int) error {
	return errors.New(errors.ErrCodeUnsolved,
		"no circular order with at most %d crossings per edge (%d vertices, %d edges)", ceiling, g.N(), g.M())
}
