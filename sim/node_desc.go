package sim

// NodeDesc is the per-cell strategy that defines how a cell streams and how
// it collides and applies its boundary condition. One descriptor is assigned
// to every cell during topology setup and invoked once per cell per sweep.
//
// Implementations assume (i, j) was validated when the descriptor was
// assigned; they must not re-validate and must not allocate.
type NodeDesc interface {
	// Stream moves the cell's current populations into the next buffer:
	// either into the neighbour along each direction, or by a boundary rule
	// (e.g. reflection into the same cell). Must never write outside the
	// lattice buffers.
	Stream(lat *Lattice, i, j int)

	// CollideAndBound computes the cell's post-collision populations in the
	// current buffer, enforcing the boundary condition first if there is one.
	CollideAndBound(lat *Lattice, mmap MultiscaleMap, cman CollisionManager, i, j int)
}

// Releaser is implemented by descriptors that hold resources needing
// explicit teardown. Lattice.Close calls Release on each of them; errors are
// logged and never propagated.
type Releaser interface {
	Release() error
}
