package dp

import (
	"slices"

	"github.com/matzehuels/okplanar/pkg/graph"
)

// tag places a vertex relative to the split triangle u, w, v. Read in order,
// the tags walk the circle: the link source, part A, the split vertex, part
// B, the link target, then the far endpoints of the piercing edges.
type tag uint8

const (
	tagLinkSource tag = iota
	tagPartA
	tagSplit
	tagPartB
	tagLinkTarget
	tagPierce
)

// tedge is an edge touching the split triangle whose crossing count changes
// when the two parts are joined.
type tedge struct {
	id     int
	e      graph.Edge
	near   int  // endpoint between the anchors, for piercing edges
	inA    bool // pierces part A's link u-w
	inB    bool // pierces part B's link w-v
	pierce bool // pierces the combined link u-v
	final  bool // both endpoints end up between or on the anchors
}

// triangle joins part A (between u and w) and part B (between w and v) into
// one arrangement between u and v.
type triangle struct {
	g       *graph.Graph
	u, v, w int
	sizeA   int
	sizeB   int
	uv      bool
	edges   []tedge
	index   map[int]int
}

func newTriangle(g *graph.Graph, u, v, w int, maskA, maskB uint64) *triangle {
	t := &triangle{
		g: g, u: u, v: v, w: w,
		sizeA: popcount(maskA),
		sizeB: popcount(maskB),
		uv:    g.HasEdge(u, v),
		index: make(map[int]int),
	}
	tagOf := func(x int) tag {
		bit := uint64(1) << uint(x)
		switch {
		case x == u:
			return tagLinkSource
		case x == v:
			return tagLinkTarget
		case x == w:
			return tagSplit
		case maskA&bit != 0:
			return tagPartA
		case maskB&bit != 0:
			return tagPartB
		default:
			return tagPierce
		}
	}

	for id, e := range g.Edges() {
		a, b := tagOf(e.U), tagOf(e.V)
		near := e.U
		if a > b {
			a, b = b, a
			near = e.V
		}
		te := tedge{id: id, e: e, near: near}
		switch {
		case a == tagPartA && b == tagPartB:
			te.inA, te.inB, te.final = true, true, true
		case a == tagPartA && b == tagLinkTarget:
			te.inA, te.final = true, true
		case a == tagLinkSource && b == tagPartB:
			te.inB, te.final = true, true
		case a == tagPartA && b == tagPierce:
			te.inA, te.pierce = true, true
		case a == tagPartB && b == tagPierce:
			te.inB, te.pierce = true, true
		case a == tagSplit && b == tagPierce:
			te.pierce = true
		default:
			continue
		}
		t.index[id] = len(t.edges)
		t.edges = append(t.edges, te)
	}
	return t
}

// combine tries every pair of part arrangements under every admissible
// piercing permutation of the destination cell and adds the survivors to dst.
func (t *triangle) combine(dst *cell, blocks [][]int, far []int, perms [][]int, arrsA, arrsB []*arrangement, k int) {
	pos := make([]int, t.g.N())
	cnt := make([]int, len(t.edges))
	m := t.sizeA + 1 + t.sizeB

	for _, a := range arrsA {
		for _, b := range arrsB {
			pos[t.u] = 0
			for i, x := range a.order {
				pos[x] = i + 1
			}
			pos[t.w] = t.sizeA + 1
			for i, x := range b.order {
				pos[x] = t.sizeA + 2 + i
			}
			pos[t.v] = m + 1

			order := make([]int, 0, m)
			order = append(order, a.order...)
			order = append(order, t.w)
			order = append(order, b.order...)

			for _, p := range perms {
				for j, blk := range p {
					pos[far[blk]] = m + 2 + j
				}
				if !t.consistent(a, pos) || !t.consistent(b, pos) {
					continue
				}
				if !t.count(a, b, pos, cnt, k) {
					continue
				}
				dst.add(t.build(order, blocks, p, pos, cnt))
			}
		}
	}
}

// consistent checks that every crossing a part assumed among its own
// piercing edges holds in the combined frame.
func (t *triangle) consistent(a *arrangement, pos []int) bool {
	for i := range a.slots {
		ei := t.g.Edge(int(a.slots[i].edge))
		for j := i + 1; j < len(a.slots); j++ {
			ej := t.g.Edge(int(a.slots[j].edge))
			if a.crosses(i, j) != graph.Crosses(pos, ei, ej) {
				return false
			}
		}
	}
	return true
}

// count fills cnt with the crossing count of every triangle edge after the
// join and reports whether all of them stay within k.
func (t *triangle) count(a, b *arrangement, pos, cnt []int, k int) bool {
	for i := range cnt {
		cnt[i] = 0
	}
	for _, s := range a.slots {
		cnt[t.index[int(s.edge)]] += int(s.count)
	}
	for _, s := range b.slots {
		cnt[t.index[int(s.edge)]] += int(s.count)
	}

	for i := range t.edges {
		ei := &t.edges[i]
		for j := i + 1; j < len(t.edges); j++ {
			ej := &t.edges[j]
			if !graph.Crosses(pos, ei.e, ej.e) {
				continue
			}
			bothA := ei.inA && ej.inA
			bothB := ei.inB && ej.inB
			switch {
			case bothA && bothB:
				// Counted by both parts.
				cnt[i]--
				cnt[j]--
			case bothA || bothB:
			default:
				cnt[i]++
				cnt[j]++
			}
		}
	}

	for i, e := range t.edges {
		if e.pierce && t.uv {
			cnt[i]++
		}
		if (e.pierce || e.final) && cnt[i] > k {
			return false
		}
	}
	return true
}

// build assembles the joined arrangement for permutation p.
func (t *triangle) build(order []int, blocks [][]int, p []int, pos, cnt []int) *arrangement {
	arr := &arrangement{order: order}
	for j, blk := range p {
		for _, id := range blocks[blk] {
			i := t.index[id]
			arr.slots = append(arr.slots, slot{
				edge:  uint16(id),
				rank:  uint8(pos[t.edges[i].near]),
				count: uint8(cnt[i]),
			})
			arr.group = append(arr.group, uint8(j))
		}
	}
	return arr
}

// pierceBlocks groups the piercing edges of a right side by far endpoint.
// Blocks are sorted by far vertex and hold ascending edge ids; a piercing
// permutation is a permutation of blocks.
func pierceBlocks(g *graph.Graph, mask uint64, pierce []int) ([][]int, []int) {
	var (
		blocks [][]int
		far    []int
	)
	byFar := make(map[int]int)
	for _, id := range pierce {
		e := g.Edge(id)
		y := e.V
		if mask&(1<<uint(e.U)) == 0 {
			y = e.U
		}
		if i, ok := byFar[y]; ok {
			blocks[i] = append(blocks[i], id)
			continue
		}
		byFar[y] = len(blocks)
		blocks = append(blocks, []int{id})
		far = append(far, y)
	}

	idx := make([]int, len(far))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int { return far[a] - far[b] })
	sortedBlocks := make([][]int, len(idx))
	sortedFar := make([]int, len(idx))
	for i, j := range idx {
		sortedBlocks[i] = blocks[j]
		sortedFar[i] = far[j]
	}
	return sortedBlocks, sortedFar
}
