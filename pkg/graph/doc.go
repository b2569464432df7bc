// Package graph provides the undirected graph model shared by every solver.
//
// # Model
//
// A [Graph] has dense vertex indices 0..n-1 and dense edge indices in
// insertion order. Edges are normalized so that [Edge].U < [Edge].V, and the
// graph is simple: [Graph.AddEdge] rejects self loops and parallel edges.
// Each vertex carries a display label (its index by default, or the node
// name when the graph was imported from DOT).
//
// # Induced Subgraphs
//
// [Graph.InducedByVertices] and [Graph.InducedByEdges] return a fresh graph
// with local indices plus a back-map to the original indices. The block-cut
// decomposer uses the edge form, since a biconnected component is defined by
// its edges.
//
// # Chord Crossings
//
// A circular vertex order places the vertices on a circle and draws each edge
// as a straight chord. [EdgeCrossings] counts, per edge, how many other edges
// it crosses; [MaxCrossing] returns the maximum of those counts, which is the
// quantity every solver minimizes:
//
//	g := graph.MustFromEdges(4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}})
//	k, _ := graph.MaxCrossing(g, []int{0, 1, 2, 3}) // k == 1, the two diagonals
package graph
