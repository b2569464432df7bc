// Package bicomp solves general connected graphs block by block.
//
// Blocks of a graph share no edges, so no edge of one block can cross an
// edge of another once each block sits in a contiguous arc of the circle.
// The driver solves every block of the block-cut tree with a component
// solver and splices the local orders together at the cut vertices; the
// crossing number of the whole graph is the maximum over its blocks.
package bicomp

import (
	"context"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/bctree"
	"github.com/matzehuels/okplanar/pkg/observability"
	"github.com/matzehuels/okplanar/pkg/solver"
)

// Solver decomposes its input and delegates each block to Component.
type Solver struct {
	Component solver.Solver
	// Method names the component solver in hook events.
	Method string
	Logger *log.Logger
}

// New wraps component.
func New(component solver.Solver, method string, logger *log.Logger) *Solver {
	return &Solver{Component: component, Method: method, Logger: logger}
}

// Solve implements solver.Solver.
func (s *Solver) Solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	return solver.Observe(ctx, s.method(), g, func() (solver.Result, error) {
		return s.solve(ctx, g, bound)
	})
}

func (s *Solver) solve(ctx context.Context, g *graph.Graph, bound int) (solver.Result, error) {
	tree, err := bctree.Build(ctx, g)
	if err != nil {
		return solver.Result{}, err
	}
	// Blocks report through OnComponentSolved; the whole graph is this
	// solver's one solve.
	blockCtx := observability.AsComponent(ctx)
	if tree.NumBlocks() == 1 {
		res, err := s.Component.Solve(blockCtx, g, bound)
		if err != nil {
			return solver.Result{}, err
		}
		observability.Solver().OnComponentSolved(ctx, g.N(), res.CrossingNumber)
		return res, nil
	}

	logger := s.logger()
	logger.Debug("decomposed", "blocks", tree.NumBlocks(), "cuts", len(tree.Cuts()))

	var (
		order   []int
		crossed = max(bound, 0)
		seen    = make([]bool, len(tree.Nodes))
	)

	// Depth-first over the tree from block 0. Each stack entry carries the
	// cut vertex through which the block was reached (-1 for the root).
	type visit struct {
		node int
		via  int
	}
	stack := []visit{{node: 0, via: -1}}
	seen[0] = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := tree.Nodes[cur.node]

		if node.Kind == bctree.KindCut {
			for _, next := range slices.Backward(tree.Adj[cur.node]) {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, visit{node: next, via: node.Vertex})
				}
			}
			continue
		}

		if !bctree.IsBiconnected(node.Graph) && node.Graph.N() > 3 {
			logger.Warn("block is not biconnected", "vertices", node.Graph.N())
		}
		res, err := s.Component.Solve(blockCtx, node.Graph, crossed)
		if err != nil {
			return solver.Result{}, err
		}
		observability.Solver().OnComponentSolved(ctx, node.Graph.N(), res.CrossingNumber)
		crossed = max(crossed, res.CrossingNumber)

		local := make([]int, len(res.Order))
		for i, x := range res.Order {
			local[i] = node.Vertices[x]
		}
		if order, err = splice(order, local, cur.via); err != nil {
			return solver.Result{}, err
		}

		for _, next := range slices.Backward(tree.Adj[cur.node]) {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, visit{node: next, via: -1})
			}
		}
	}

	if len(order) != g.N() {
		return solver.Result{}, errors.New(errors.ErrCodeMalformedTree,
			"recombined order covers %d of %d vertices", len(order), g.N())
	}
	return solver.Finish(g, order)
}

// splice inserts a block's order into the global order. The first block
// seeds the global order. Later blocks are rotated so the shared cut vertex
// comes first, and the rest follows that vertex in the global order, so the
// block and its cut vertex occupy one arc.
func splice(global, local []int, cut int) ([]int, error) {
	if global == nil {
		return slices.Clone(local), nil
	}
	at := slices.Index(local, cut)
	if at < 0 {
		return nil, errors.New(errors.ErrCodeMalformedTree, "cut vertex %d missing from its block", cut)
	}
	pos := slices.Index(global, cut)
	if pos < 0 {
		return nil, errors.New(errors.ErrCodeMalformedTree, "cut vertex %d missing from the global order", cut)
	}
	rotated := append(slices.Clone(local[at:]), local[:at]...)
	return slices.Insert(global, pos+1, rotated[1:]...), nil
}

func (s *Solver) method() string {
	if s.Method != "" {
		return s.Method
	}
	return "bicomp"
}

func (s *Solver) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}
