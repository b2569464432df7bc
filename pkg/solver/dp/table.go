package dp

import (
	"context"
	"math/bits"

	"github.com/matzehuels/okplanar/pkg/graph"
	"github.com/matzehuels/okplanar/pkg/graph/perm"
)

// entry is one admissible right side of a link: a vertex mask together with
// the edges that cross the link chord when exactly those vertices lie
// between the anchors. Each mask arises from exactly one piercing set.
type entry struct {
	mask   uint64
	pierce []int
}

// linkTable holds the admissible right sides of one link, bucketed by the
// mask's popcount.
type linkTable struct {
	u, v   int
	free   []int // edges not incident to u or v
	bySize [][]entry
}

// table is the table-initialization state for every link of a graph. It only
// grows: raising the bound adds entries with larger piercing sets and never
// invalidates existing ones.
type table struct {
	g     *graph.Graph
	links []*linkTable // indexed by linkID
	size  int          // largest piercing-set size enumerated so far
	uf    unionFind
}

func newTable(g *graph.Graph) *table {
	n := g.N()
	t := &table{g: g, links: make([]*linkTable, n*n), size: -1, uf: newUnionFind(n)}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			lt := &linkTable{u: u, v: v, bySize: make([][]entry, n-1)}
			for id, e := range g.Edges() {
				if !e.Has(u) && !e.Has(v) {
					lt.free = append(lt.free, id)
				}
			}
			t.links[u*n+v] = lt
		}
	}
	return t
}

// link returns the table of the canonical link {a, b}.
func (t *table) link(a, b int) *linkTable {
	if a > b {
		a, b = b, a
	}
	return t.links[a*t.g.N()+b]
}

// extend enumerates piercing sets up to size k for every link.
func (t *table) extend(ctx context.Context, k int) error {
	n := t.g.N()
	for size := t.size + 1; size <= k; size++ {
		for u := 0; u < n; u++ {
			for v := u + 1; v < n; v++ {
				if err := t.enumerate(ctx, t.links[u*n+v], size); err != nil {
					return err
				}
			}
		}
		t.size = size
	}
	return nil
}

// enumerate tests every subset of exactly size free edges of lt as a piercing
// set and records one entry per admissible right side.
func (t *table) enumerate(ctx context.Context, lt *linkTable, size int) error {
	var (
		err    error
		tested int
		chosen = make([]bool, len(lt.free))
	)
	perm.Combinations(len(lt.free), size, func(idx []int) bool {
		tested++
		if tested%1024 == 0 {
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		for _, i := range idx {
			chosen[i] = true
		}
		pierce := make([]int, len(idx))
		for j, i := range idx {
			pierce[j] = lt.free[i]
		}
		for _, mask := range t.sides(lt, chosen, pierce) {
			pop := bits.OnesCount64(mask)
			lt.bySize[pop] = append(lt.bySize[pop], entry{mask: mask, pierce: pierce})
		}
		for _, i := range idx {
			chosen[i] = false
		}
		return true
	})
	return err
}

// sides returns every right-side mask whose cut, among edges avoiding the
// link's anchors, is exactly pierce. Removing pierce must leave components
// that never contain both ends of a piercing edge, and the piercing edges
// must 2-colour the contracted component graph. Each component of that
// contracted graph can then be flipped independently.
func (t *table) sides(lt *linkTable, chosen []bool, pierce []int) []uint64 {
	g, uf := t.g, &t.uf
	uf.reset()
	for i, id := range lt.free {
		if !chosen[i] {
			e := g.Edge(id)
			uf.union(e.U, e.V)
		}
	}

	// Contracted graph: one node per component root, one edge per piercing
	// edge.
	adj := make(map[int][]int)
	for _, id := range pierce {
		e := g.Edge(id)
		a, b := uf.find(e.U), uf.find(e.V)
		if a == b {
			return nil
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	// Vertex mask of every component, in order of smallest member.
	var roots []int
	compMask := make(map[int]uint64)
	for x := 0; x < g.N(); x++ {
		if x == lt.u || x == lt.v {
			continue
		}
		r := uf.find(x)
		if _, ok := compMask[r]; !ok {
			roots = append(roots, r)
		}
		compMask[r] |= 1 << uint(x)
	}

	// 2-colour the contracted graph; sideMask[c] holds the colour-0 and
	// colour-1 vertex masks of contracted component c.
	color := make(map[int]int, len(roots))
	var sideMask [][2]uint64
	for _, r := range roots {
		if _, done := color[r]; done {
			continue
		}
		var sm [2]uint64
		color[r] = 0
		queue := []int{r}
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			sm[color[x]] |= compMask[x]
			for _, y := range adj[x] {
				c, seen := color[y]
				if !seen {
					color[y] = 1 - color[x]
					queue = append(queue, y)
				} else if c == color[x] {
					return nil
				}
			}
		}
		sideMask = append(sideMask, sm)
	}

	if len(sideMask) >= 63 {
		// Unreachable for graphs the solver accepts; guards the shift below.
		return nil
	}
	masks := make([]uint64, 0, 1<<len(sideMask))
	for combo := uint64(0); combo < 1<<len(sideMask); combo++ {
		var mask uint64
		for c, sm := range sideMask {
			mask |= sm[(combo>>uint(c))&1]
		}
		masks = append(masks, mask)
	}
	return masks
}

// unionFind is a disjoint-set forest with path halving.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) unionFind {
	uf := unionFind{parent: make([]int, n)}
	uf.reset()
	return uf
}

func (uf *unionFind) reset() {
	for i := range uf.parent {
		uf.parent[i] = i
	}
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[max(ra, rb)] = min(ra, rb)
	}
}
