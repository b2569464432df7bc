// Package bctree decomposes a connected graph into its block-cut tree.
//
// A block is a maximal biconnected subgraph (or a bridge); a cut vertex is a
// vertex whose removal disconnects the graph. The tree alternates block nodes
// and cut nodes, with an edge between a block and every cut vertex it
// contains. Solvers that need biconnected input solve each block separately
// and stitch the results back together at the cut vertices.
package bctree

import (
	"context"
	"slices"

	"github.com/matzehuels/okplanar/pkg/errors"
	"github.com/matzehuels/okplanar/pkg/graph"
)

// Kind distinguishes the two node types of a block-cut tree.
type Kind int

const (
	// KindBlock marks a biconnected component.
	KindBlock Kind = iota
	// KindCut marks an articulation point.
	KindCut
)

func (k Kind) String() string {
	if k == KindCut {
		return "cut"
	}
	return "block"
}

// Node is one node of the tree.
type Node struct {
	Kind Kind

	// Graph is the block's induced subgraph with fresh local indices.
	// Only set for KindBlock.
	Graph *graph.Graph
	// Vertices maps local vertex indices of Graph back to the original graph.
	// Only set for KindBlock.
	Vertices []int
	// Edges lists the original edge ids of the block. Only set for KindBlock.
	Edges []int

	// Vertex is the original index of the articulation point. Only set for
	// KindCut.
	Vertex int
}

// Tree is a block-cut tree. Block nodes come first, in the order their
// components were closed by the traversal, followed by the cut nodes in
// increasing vertex order.
type Tree struct {
	Nodes []Node
	// Adj lists, per node, the indices of adjacent nodes in increasing order.
	Adj [][]int
	// BlockOf maps each original edge id to the index of its block node.
	BlockOf []int

	numBlocks int
	cutNode   map[int]int
}

// NumBlocks returns how many block nodes the tree has.
func (t *Tree) NumBlocks() int { return t.numBlocks }

// Cuts returns the original indices of all articulation points in
// increasing order.
func (t *Tree) Cuts() []int {
	cuts := make([]int, 0, len(t.Nodes)-t.numBlocks)
	for _, n := range t.Nodes[t.numBlocks:] {
		cuts = append(cuts, n.Vertex)
	}
	return cuts
}

// CutNode returns the node index of the cut node for vertex v.
func (t *Tree) CutNode(v int) (int, bool) {
	id, ok := t.cutNode[v]
	return id, ok
}

// IsCut reports whether v is an articulation point.
func (t *Tree) IsCut(v int) bool {
	_, ok := t.cutNode[v]
	return ok
}

// frame is one level of the explicit DFS stack.
type frame struct {
	v          int
	parentEdge int
	next       int
}

// Build computes the block-cut tree of g.
//
// The traversal is Tarjan's biconnected-components algorithm driven by an
// explicit stack, so deep graphs do not exhaust the goroutine stack. g must
// be connected and non-empty; otherwise Build returns ErrCodeNotConnected. A
// single vertex yields one block holding the whole graph.
func Build(ctx context.Context, g *graph.Graph) (*Tree, error) {
	if err := g.RequireConnected(); err != nil {
		return nil, err
	}

	comps, err := components(ctx, g)
	if err != nil {
		return nil, err
	}

	t := &Tree{
		BlockOf: make([]int, g.M()),
		cutNode: make(map[int]int),
	}

	if len(comps) == 0 {
		// A lone vertex has no edges but still forms one block.
		t.Nodes = []Node{{Kind: KindBlock, Graph: g, Vertices: []int{0}}}
		t.Adj = [][]int{nil}
		t.numBlocks = 1
		return t, nil
	}

	membership := make([]int, g.N())
	for b, es := range comps {
		sub, back := g.InducedByEdges(es)
		t.Nodes = append(t.Nodes, Node{Kind: KindBlock, Graph: sub, Vertices: back, Edges: es})
		for _, id := range es {
			t.BlockOf[id] = b
		}
		for _, v := range back {
			membership[v]++
		}
	}
	t.numBlocks = len(comps)

	// A vertex in two or more blocks is an articulation point.
	for v, count := range membership {
		if count > 1 {
			t.cutNode[v] = len(t.Nodes)
			t.Nodes = append(t.Nodes, Node{Kind: KindCut, Vertex: v})
		}
	}

	t.Adj = make([][]int, len(t.Nodes))
	for b := 0; b < t.numBlocks; b++ {
		for _, v := range t.Nodes[b].Vertices {
			if c, ok := t.cutNode[v]; ok {
				t.Adj[b] = append(t.Adj[b], c)
				t.Adj[c] = append(t.Adj[c], b)
			}
		}
	}
	for i := range t.Adj {
		slices.Sort(t.Adj[i])
	}
	return t, nil
}

// components returns the edge ids of each biconnected component in the order
// the DFS closes them. Edge ids inside a component are sorted.
func components(ctx context.Context, g *graph.Graph) ([][]int, error) {
	n := g.N()
	if g.M() == 0 {
		return nil, nil
	}

	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}

	var (
		comps     [][]int
		edgeStack []int
		stack     = []frame{{v: 0, parentEdge: -1}}
		clock     = 1
		steps     = 0
	)
	disc[0], low[0] = 0, 0

	for len(stack) > 0 {
		steps++
		if steps%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		top := &stack[len(stack)-1]
		v := top.v
		inc := g.Incident(v)

		if top.next < len(inc) {
			id := inc[top.next]
			top.next++
			if id == top.parentEdge {
				continue
			}
			w := g.Edge(id).Other(v)
			switch {
			case disc[w] < 0:
				edgeStack = append(edgeStack, id)
				disc[w], low[w] = clock, clock
				clock++
				stack = append(stack, frame{v: w, parentEdge: id})
			case disc[w] < disc[v]:
				// Back edge to an ancestor.
				edgeStack = append(edgeStack, id)
				low[v] = min(low[v], disc[w])
			}
			continue
		}

		// v is finished; fold its low value into the parent.
		done := *top
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			break
		}
		p := stack[len(stack)-1].v
		low[p] = min(low[p], low[v])
		if low[v] >= disc[p] {
			var comp []int
			for {
				last := edgeStack[len(edgeStack)-1]
				edgeStack = edgeStack[:len(edgeStack)-1]
				comp = append(comp, last)
				if last == done.parentEdge {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}

	if len(edgeStack) != 0 {
		return nil, errors.New(errors.ErrCodeInternal, "biconnected components: %d edges left on the stack", len(edgeStack))
	}
	return comps, nil
}

// IsBiconnected reports whether g is connected and has no articulation
// point. A single edge counts as biconnected; a single vertex does not.
func IsBiconnected(g *graph.Graph) bool {
	if g.N() < 2 || !g.IsConnected() {
		return false
	}
	comps, err := components(context.Background(), g)
	return err == nil && len(comps) == 1
}
