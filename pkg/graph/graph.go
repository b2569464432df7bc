package graph

import (
	"slices"
	"strconv"

	"github.com/matzehuels/okplanar/pkg/errors"
)

// Edge is an undirected edge between two distinct vertices. Edges stored in a
// [Graph] are always normalized so that U < V.
type Edge struct {
	U, V int
}

// Other returns the endpoint of e that is not v. The result is undefined when
// v is not an endpoint of e.
func (e Edge) Other(v int) int {
	if e.U == v {
		return e.V
	}
	return e.U
}

// Has reports whether v is an endpoint of e.
func (e Edge) Has(v int) bool {
	return e.U == v || e.V == v
}

// Graph is a simple undirected graph with dense 0-based vertex and edge
// indices. Vertex indices are fixed at construction; edge indices follow
// insertion order. Graphs handed to a solver must not be mutated.
type Graph struct {
	labels []string
	edges  []Edge
	adj    [][]int // neighbor vertices, in edge insertion order
	inc    [][]int // incident edge ids, parallel to adj
	index  map[Edge]int
}

// New creates a graph with n isolated vertices labeled "0".."n-1".
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	g := &Graph{
		labels: make([]string, n),
		adj:    make([][]int, n),
		inc:    make([][]int, n),
		index:  make(map[Edge]int),
	}
	for v := range g.labels {
		g.labels[v] = strconv.Itoa(v)
	}
	return g
}

// FromEdges builds a graph with n vertices and the given edges. It is a
// convenience for tests and examples; malformed edges produce an error.
func FromEdges(n int, edges [][2]int) (*Graph, error) {
	g := New(n)
	for _, e := range edges {
		if _, err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustFromEdges is like [FromEdges] but panics on error.
func MustFromEdges(n int, edges [][2]int) *Graph {
	g, err := FromEdges(n, edges)
	if err != nil {
		panic(err)
	}
	return g
}

// AddEdge inserts the undirected edge {u, v} and returns its id.
// Self loops, out-of-range endpoints and parallel edges are rejected.
func (g *Graph) AddEdge(u, v int) (int, error) {
	n := g.N()
	if u < 0 || u >= n || v < 0 || v >= n {
		return -1, errors.New(errors.ErrCodeInvalidInput, "edge {%d,%d} out of range for %d vertices", u, v, n)
	}
	if u == v {
		return -1, errors.New(errors.ErrCodeInvalidInput, "self loop on vertex %d", u)
	}
	e := normalize(u, v)
	if _, ok := g.index[e]; ok {
		return -1, errors.New(errors.ErrCodeInvalidInput, "parallel edge {%d,%d}", e.U, e.V)
	}
	id := len(g.edges)
	g.edges = append(g.edges, e)
	g.index[e] = id
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	g.inc[u] = append(g.inc[u], id)
	g.inc[v] = append(g.inc[v], id)
	return id, nil
}

// N returns the number of vertices.
func (g *Graph) N() int { return len(g.labels) }

// M returns the number of edges.
func (g *Graph) M() int { return len(g.edges) }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id int) Edge { return g.edges[id] }

// Edges returns all edges in id order. The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Neighbors returns the neighbors of v. The returned slice must not be modified.
func (g *Graph) Neighbors(v int) []int { return g.adj[v] }

// Incident returns the ids of edges incident to v, parallel to [Graph.Neighbors].
func (g *Graph) Incident(v int) []int { return g.inc[v] }

// Degree returns the number of edges incident to v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// HasEdge reports whether {u, v} is an edge.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.index[normalize(u, v)]
	return ok
}

// EdgeID returns the id of edge {u, v}.
func (g *Graph) EdgeID(u, v int) (int, bool) {
	id, ok := g.index[normalize(u, v)]
	return id, ok
}

// Label returns the display label of v.
func (g *Graph) Label(v int) string { return g.labels[v] }

// SetLabel sets the display label of v.
func (g *Graph) SetLabel(v int, label string) { g.labels[v] = label }

// Labels returns a copy of all vertex labels.
func (g *Graph) Labels() []string { return slices.Clone(g.labels) }

// =============================================================================
// Induced Subgraphs
// =============================================================================

// InducedByVertices returns the subgraph induced by vs together with the
// back-map from local to original vertex indices (local i is vs[i]).
// Duplicate or out-of-range vertices are ignored.
func (g *Graph) InducedByVertices(vs []int) (*Graph, []int) {
	local := make(map[int]int, len(vs))
	back := make([]int, 0, len(vs))
	for _, v := range vs {
		if v < 0 || v >= g.N() {
			continue
		}
		if _, dup := local[v]; dup {
			continue
		}
		local[v] = len(back)
		back = append(back, v)
	}

	sub := New(len(back))
	for i, v := range back {
		sub.labels[i] = g.labels[v]
	}
	for _, e := range g.edges {
		lu, okU := local[e.U]
		lv, okV := local[e.V]
		if okU && okV {
			_, _ = sub.AddEdge(lu, lv)
		}
	}
	return sub, back
}

// InducedByEdges returns the subgraph formed by the given edge ids and their
// endpoints, together with the local-to-original back-map. Local vertex
// indices follow first appearance in es.
func (g *Graph) InducedByEdges(es []int) (*Graph, []int) {
	local := make(map[int]int)
	var back []int
	add := func(v int) int {
		if l, ok := local[v]; ok {
			return l
		}
		local[v] = len(back)
		back = append(back, v)
		return local[v]
	}

	pairs := make([][2]int, 0, len(es))
	for _, id := range es {
		if id < 0 || id >= g.M() {
			continue
		}
		e := g.edges[id]
		pairs = append(pairs, [2]int{add(e.U), add(e.V)})
	}

	sub := New(len(back))
	for i, v := range back {
		sub.labels[i] = g.labels[v]
	}
	for _, p := range pairs {
		_, _ = sub.AddEdge(p[0], p[1])
	}
	return sub, back
}

// =============================================================================
// Connectivity
// =============================================================================

// IsConnected reports whether g has at least one vertex and every vertex is
// reachable from vertex 0.
func (g *Graph) IsConnected() bool {
	n := g.N()
	if n == 0 {
		return false
	}
	seen := make([]bool, n)
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range g.adj[v] {
			if !seen[w] {
				seen[w] = true
				count++
				stack = append(stack, w)
			}
		}
	}
	return count == n
}

// RequireConnected returns an ErrCodeNotConnected error unless g is connected.
func (g *Graph) RequireConnected() error {
	if g.N() == 0 {
		return errors.New(errors.ErrCodeNotConnected, "graph is empty")
	}
	if !g.IsConnected() {
		return errors.New(errors.ErrCodeNotConnected, "graph with %d vertices is not connected", g.N())
	}
	return nil
}

func normalize(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}
