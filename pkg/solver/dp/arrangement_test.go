package dp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArrangementReversed(t *testing.T) {
	a := &arrangement{
		slots: []slot{{edge: 4, rank: 1, count: 2}, {edge: 7, rank: 3, count: 0}, {edge: 9, rank: 2, count: 1}},
		group: []uint8{0, 1, 1},
		order: []int{5, 6, 8},
	}
	r := a.reversed()

	assert.Equal(t, []int{8, 6, 5}, r.order)
	assert.Equal(t, []slot{{edge: 9, rank: 2, count: 1}, {edge: 7, rank: 1, count: 0}, {edge: 4, rank: 3, count: 2}}, r.slots)
	assert.Equal(t, []uint8{0, 0, 1}, r.group)
	assert.Equal(t, []int{5, 6, 8}, a.order, "reversal must not touch the original")

	// Crossings are a property of the drawing, not of the reading direction.
	n := len(a.slots)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			assert.Equal(t, a.crosses(i, j), r.crosses(n-1-j, n-1-i), "slots %d,%d", i, j)
		}
	}
	assert.Equal(t, a.key(), r.reversed().key())
}

func TestArrangementCrosses(t *testing.T) {
	a := &arrangement{
		slots: []slot{{edge: 0, rank: 1}, {edge: 1, rank: 2}, {edge: 2, rank: 2}, {edge: 3, rank: 3}},
		group: []uint8{0, 1, 2, 2},
	}
	assert.True(t, a.crosses(0, 1), "near and far in the same order")
	assert.False(t, a.crosses(1, 2), "shared near endpoint")
	assert.False(t, a.crosses(2, 3), "shared far endpoint")
	assert.True(t, a.crosses(0, 3))
}

func TestCellDeduplicates(t *testing.T) {
	c := newCell(entry{mask: 0b110})
	a := &arrangement{slots: []slot{{edge: 1, rank: 1, count: 1}}, group: []uint8{0}, order: []int{1, 2}}
	b := &arrangement{slots: []slot{{edge: 1, rank: 1, count: 1}}, group: []uint8{0}, order: []int{1, 2}}

	assert.True(t, c.add(a))
	assert.False(t, c.add(b))
	assert.False(t, c.empty())
	assert.Len(t, c.oriented(true), 1)
	assert.Equal(t, []int{2, 1}, c.oriented(false)[0].order)
}
