// Package pkg provides the core libraries for okplanar, an exact solver for
// the outer k-planar crossing number.
//
// # Overview
//
// A circular drawing places the vertices of a graph on a circle and draws
// every edge as a straight chord. okplanar finds a vertex order that
// minimizes the largest number of crossings on any single edge, and reports
// that number as the graph's outer k-planar crossing number. The pkg
// directory is organized into four main areas:
//
//  1. [graph] - The graph model, chord crossings and the block-cut tree
//  2. [solver] - Exact solvers (dynamic program, SAT, brute force) and the
//     block-cut driver that stitches per-block solutions together
//  3. [io], [render] - Graph formats, reports and circular drawings
//  4. [pipeline] - Orchestration (load → solve → render) with [cache] and
//     [store] behind it, shared by the CLI and the HTTP server
//
// # Architecture
//
// The typical data flow through okplanar:
//
//	DOT / JSON / graph6 input
//	         ↓
//	    [io] package (decode into a [graph.Graph])
//	         ↓
//	    [graph/bctree] package (split into biconnected blocks)
//	         ↓
//	    [solver] packages (solve each block for increasing k)
//	         ↓
//	    [render/circle] package (DOT and SVG drawings)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/okplanar/pkg/io"
//	    "github.com/matzehuels/okplanar/pkg/pipeline"
//	)
//
//	g, _ := io.DecodeGraph6("D~{") // K5
//	s, _ := pipeline.NewSolver("dp", 7, true, nil)
//	res, _ := s.Solve(context.Background(), g, 0)
//	// res.CrossingNumber == 2, res.Order is an optimal circular order
//
// # Main Packages
//
// [graph] - Simple undirected graphs with dense indices, induced subgraphs,
// and per-edge chord crossing counts for a circular order.
//
// [graph/bctree] - Block-cut tree of a connected graph. Blocks are solved
// independently and their orders are spliced at the cut vertices.
//
// [graph/perm] - Permutation and combination generators used by the dynamic
// program and the SAT encoder.
//
// [solver/dp] - The bitmask dynamic program over triangulated sub-polygons,
// with the triangle consistency check that glues two sides of a chord.
//
// [solver/sat] - CNF encoding of "every edge crossed at most k times" solved
// with gini, useful as a cross-check for the dynamic program.
//
// [solver/exhaustive] - Tries every circular order. Only for small graphs.
//
// [solver/bicomp] - The recombination driver: decomposes, solves blocks,
// takes the maximum and merges the orders.
//
// ## Infrastructure
//
// [cache] - Result and drawing cache with file, badger and redis backends.
//
// [store] - Durable run records in JSON Lines files, MongoDB or memory.
//
// [config] - TOML configuration under the XDG directories.
//
// [observability] - Hooks for solver, cache and HTTP metrics.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/solver/dp/...       # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/graph
// [graph.Graph]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/graph#Graph
// [graph/bctree]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/graph/bctree
// [graph/perm]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/graph/perm
// [solver]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/solver
// [solver/dp]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/solver/dp
// [solver/sat]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/solver/sat
// [solver/exhaustive]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/solver/exhaustive
// [solver/bicomp]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/solver/bicomp
// [io]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/render
// [render/circle]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/render/circle
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/okplanar/pkg/errors
package pkg
