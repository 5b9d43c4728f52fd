package sim

import "errors"

var (
	// ErrOutOfBounds indicates a cell index outside [0, ni) x [0, nj).
	ErrOutOfBounds = errors.New("index out of bounds")
	// ErrBadDimensions indicates a negative lattice dimension.
	ErrBadDimensions = errors.New("lattice dimensions must be non-negative")
	// ErrArenaExhausted indicates every descriptor slot in the arena is taken.
	ErrArenaExhausted = errors.New("node descriptor arena exhausted")
	// ErrArenaReleased indicates an allocation after the arena was torn down.
	ErrArenaReleased = errors.New("node descriptor arena already released")
	// ErrTopologySealed indicates a descriptor assignment after Seal.
	ErrTopologySealed = errors.New("lattice topology is sealed")
	// ErrUnassignedCell indicates a cell with no node descriptor at Seal.
	ErrUnassignedCell = errors.New("cell has no node descriptor")
)
