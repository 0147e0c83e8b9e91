package testutil

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCases_Deterministic(t *testing.T) {
	a := Cases(42, 128)
	b := Cases(42, 128)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Values, b[i].Values, "case %s", a[i].Name)
	}
}

func TestCases_CoverDegenerateLengths(t *testing.T) {
	lengths := map[int]bool{}
	for _, c := range Cases(1, 64) {
		lengths[len(c.Values)] = true
	}
	for _, n := range []int{0, 1, 2, 64} {
		assert.True(t, lengths[n], "missing length %d", n)
	}
}

func TestAscendingDescending(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, Ascending(4))
	assert.Equal(t, []int{3, 2, 1, 0}, Descending(4))
	assert.True(t, slices.IsSorted(Ascending(100)))
	assert.Equal(t, []int{9, 9, 9}, Constant(3, 9))
}

func TestTaggedRandom(t *testing.T) {
	items := TaggedRandom(NewRand(7), 50, 3)
	require.Len(t, items, 50)
	for i, it := range items {
		assert.Equal(t, i, it.Tag)
		assert.GreaterOrEqual(t, it.Key, 0)
		assert.Less(t, it.Key, 3)
	}
	assert.Equal(t, 0, CompareKey(Tagged{Key: 1, Tag: 0}, Tagged{Key: 1, Tag: 9}))
	assert.Equal(t, -1, CompareKey(Tagged{Key: 0}, Tagged{Key: 1}))
	assert.Equal(t, 1, CompareKey(Tagged{Key: 2}, Tagged{Key: 1}))
}
