package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d", i)
	}
	assert.Equal(t, uint64(100), a.Draws())
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 20; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestTrackedUsage(t *testing.T) {
	s := New(7)
	s.Tracked(3, CategoryTackle)
	s.Tracked(3, CategoryTackle)
	s.Tracked(14, CategorySoftmax)
	s.Tracked(99, CategorySoftmax)

	assert.Equal(t, uint32(2), s.Usage(3, CategoryTackle))
	assert.Equal(t, uint32(1), s.Usage(14, CategorySoftmax))
	assert.Equal(t, uint32(0), s.Usage(99, CategorySoftmax))
	assert.Equal(t, uint32(1), s.TotalUsage(CategorySoftmax))
	assert.Equal(t, uint64(4), s.Draws())
	assert.Equal(t, "tackle", CategoryTackle.String())
}

func TestUint64CountsDraws(t *testing.T) {
	a := New(11)
	b := New(11)
	assert.Equal(t, a.Uint64(), b.Uint64())
	assert.NotEqual(t, a.Uint64(), a.Uint64())
	assert.Equal(t, uint64(3), a.Draws())
}
