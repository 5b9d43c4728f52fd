package sim

import (
	"fmt"
	"reflect"
)

// maxChunkSize bounds how many descriptors of one variant share a chunk.
const maxChunkSize = 4096

// Arena is a fixed-capacity bump allocator for node descriptors.
// It follows the lattice's memory model:
//  1. Capacity is fixed at construction (one slot per grid cell).
//  2. Every allocation consumes one slot, whatever the variant.
//  3. There is no per-object free; the arena is released as a whole.
//
// Descriptors of the same variant live contiguously in chunked slabs whose
// elements never move, so the pointers handed out stay valid until Release.
// Not thread-safe without external locking.
type Arena struct {
	capacity  int
	used      int
	chunkSize int
	slabs     map[reflect.Type]any
	released  bool
}

// slab holds every descriptor of one concrete variant.
type slab[T any] struct {
	chunks [][]T
}

// bump appends v to the newest chunk, opening a new chunk when it is full.
// Chunks are never grown past their initial capacity, so earlier elements
// keep their addresses.
func (s *slab[T]) bump(v T, chunkSize int) *T {
	n := len(s.chunks)
	if n == 0 || len(s.chunks[n-1]) == cap(s.chunks[n-1]) {
		s.chunks = append(s.chunks, make([]T, 0, chunkSize))
		n++
	}
	last := append(s.chunks[n-1], v)
	s.chunks[n-1] = last
	return &last[len(last)-1]
}

// NewArena creates an arena with room for capacity descriptors.
func NewArena(capacity int) (*Arena, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("arena capacity must be non-negative, got %d", capacity)
	}
	chunkSize := min(capacity, maxChunkSize)
	if chunkSize < 1 {
		chunkSize = 1
	}
	return &Arena{
		capacity:  capacity,
		chunkSize: chunkSize,
		slabs:     make(map[reflect.Type]any),
	}, nil
}

// Alloc copies v into the arena and returns a stable pointer to the copy.
// Returns ErrArenaExhausted once every slot is used and ErrArenaReleased
// after Release.
func Alloc[T any](a *Arena, v T) (*T, error) {
	if a.released {
		return nil, ErrArenaReleased
	}
	if a.used >= a.capacity {
		return nil, fmt.Errorf("%w: requested slot %d, capacity %d", ErrArenaExhausted, a.used+1, a.capacity)
	}
	key := reflect.TypeOf((*T)(nil)).Elem()
	s, ok := a.slabs[key].(*slab[T])
	if !ok {
		s = &slab[T]{}
		a.slabs[key] = s
	}
	a.used++
	return s.bump(v, a.chunkSize), nil
}

// Capacity returns the total number of descriptor slots.
func (a *Arena) Capacity() int {
	return a.capacity
}

// Used returns the number of slots handed out so far, including abandoned ones.
func (a *Arena) Used() int {
	return a.used
}

// Remaining returns the number of free slots.
func (a *Arena) Remaining() int {
	return a.capacity - a.used
}

// Variants returns the number of distinct descriptor types allocated.
func (a *Arena) Variants() int {
	return len(a.slabs)
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.released
}

// Release drops every slab. Pointers previously returned by Alloc must not
// be used afterwards. Safe to call more than once.
func (a *Arena) Release() {
	a.slabs = nil
	a.used = 0
	a.released = true
}
