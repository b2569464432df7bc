package dp

import (
	"slices"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/matzehuels/okplanar/pkg/errors"
)

// slot describes one piercing edge of an arrangement.
type slot struct {
	edge  uint16
	rank  uint8 // 1-based position of the near endpoint between the anchors
	count uint8 // crossings accounted for so far
}

// key identifies arrangements that behave identically in every later
// combination: same piercing order, near ranks and counts.
type key struct {
	n     uint8
	slots [errors.MaxCeiling]slot
}

// arrangement is one candidate drawing of the vertices strictly between a
// link's anchors. It is stored oriented from the smaller anchor to the larger
// one; slots are listed in the order their far endpoints appear walking the
// rest of the circle from the second anchor back to the first.
type arrangement struct {
	slots []slot
	group []uint8 // far-endpoint block of each slot, nondecreasing
	order []int
}

var blank = &arrangement{}

func (a *arrangement) key() key {
	k := key{n: uint8(len(a.slots))}
	copy(k.slots[:], a.slots)
	return k
}

// reversed returns the same drawing read from the other anchor.
func (a *arrangement) reversed() *arrangement {
	m := len(a.order)
	r := &arrangement{
		slots: make([]slot, len(a.slots)),
		group: make([]uint8, len(a.group)),
		order: slices.Clone(a.order),
	}
	slices.Reverse(r.order)
	last := len(a.slots) - 1
	var blocks uint8
	if last >= 0 {
		blocks = a.group[last] + 1
	}
	for i, s := range a.slots {
		s.rank = uint8(m+1) - s.rank
		r.slots[last-i] = s
		r.group[last-i] = blocks - 1 - a.group[i]
	}
	return r
}

// crosses reports whether piercing slots i and j cross in the arrangement's
// own frame. Edges sharing a near or far endpoint never cross; otherwise the
// edge whose near endpoint comes first must also reach its far endpoint
// first.
func (a *arrangement) crosses(i, j int) bool {
	ri, rj := a.slots[i].rank, a.slots[j].rank
	gi, gj := a.group[i], a.group[j]
	if ri == rj || gi == gj {
		return false
	}
	return (ri < rj) == (gi < gj)
}

// cell is the set of distinct arrangements of one (link, right side) state.
type cell struct {
	mask   uint64
	pierce []int
	set    *linkedhashmap.Map // key -> *arrangement, insertion ordered

	fwd []*arrangement
	rev []*arrangement
}

func newCell(e entry) *cell {
	return &cell{mask: e.mask, pierce: e.pierce, set: linkedhashmap.New()}
}

// add inserts a unless an equivalent arrangement is already present.
func (c *cell) add(a *arrangement) bool {
	k := a.key()
	if _, found := c.set.Get(k); found {
		return false
	}
	c.set.Put(k, a)
	return true
}

func (c *cell) empty() bool { return c.set.Size() == 0 }

// oriented returns the cell's arrangements read from anchor first to the
// other anchor. forward means first is the smaller anchor.
func (c *cell) oriented(forward bool) []*arrangement {
	if c.fwd == nil {
		values := c.set.Values()
		c.fwd = make([]*arrangement, len(values))
		for i, v := range values {
			c.fwd[i] = v.(*arrangement)
		}
	}
	if forward {
		return c.fwd
	}
	if c.rev == nil {
		c.rev = make([]*arrangement, len(c.fwd))
		for i, a := range c.fwd {
			c.rev[i] = a.reversed()
		}
	}
	return c.rev
}
