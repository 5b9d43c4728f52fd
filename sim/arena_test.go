package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type arenaA struct{ id int }
type arenaB struct{ name string }

func TestArena_PointersStayStableAcrossChunks(t *testing.T) {
	// GIVEN an arena larger than one chunk
	a, err := NewArena(2*maxChunkSize + 10)
	require.NoError(t, err)

	first, err := Alloc(a, arenaA{id: 0})
	require.NoError(t, err)

	// WHEN many more descriptors are allocated
	ptrs := []*arenaA{first}
	for n := 1; n < 2*maxChunkSize+10; n++ {
		p, err := Alloc(a, arenaA{id: n})
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}

	// THEN every earlier pointer still sees its own value
	for n, p := range ptrs {
		assert.Equal(t, n, p.id)
	}
	assert.Equal(t, 0, a.Remaining())
}

func TestArena_EverySlotCountsRegardlessOfVariant(t *testing.T) {
	a, err := NewArena(3)
	require.NoError(t, err)

	_, err = Alloc(a, arenaA{id: 1})
	require.NoError(t, err)
	_, err = Alloc(a, arenaB{name: "b"})
	require.NoError(t, err)
	_, err = Alloc(a, arenaA{id: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, a.Used())
	assert.Equal(t, 2, a.Variants())

	_, err = Alloc(a, arenaB{name: "overflow"})
	assert.ErrorIs(t, err, ErrArenaExhausted)
	assert.Equal(t, 3, a.Used(), "failed allocation must not consume a slot")
}

func TestArena_ZeroCapacity(t *testing.T) {
	a, err := NewArena(0)
	require.NoError(t, err)
	_, err = Alloc(a, arenaA{})
	assert.ErrorIs(t, err, ErrArenaExhausted)
}

func TestArena_NegativeCapacity_ReturnsError(t *testing.T) {
	_, err := NewArena(-1)
	assert.Error(t, err)
}

func TestArena_ReleaseIsBulkAndFinal(t *testing.T) {
	a, err := NewArena(4)
	require.NoError(t, err)
	_, err = Alloc(a, arenaA{id: 1})
	require.NoError(t, err)

	a.Release()
	a.Release()

	assert.True(t, a.Released())
	assert.Equal(t, 0, a.Used())
	_, err = Alloc(a, arenaA{id: 2})
	assert.ErrorIs(t, err, ErrArenaReleased)
}
