package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Region is an inclusive rectangle of cells [BI, EI] x [BJ, EJ].
type Region struct {
	BI, EI int
	BJ, EJ int
}

// Lattice owns the D2Q9 distribution grid, the per-cell node descriptors and
// the arena backing them.
//
// Two population buffers are kept: the current buffer f, which collision
// mutates in place, and the next buffer ftemp, which streaming fills from f.
// SwapBuffers exchanges their roles once per step.
//
// Hot accessors (F, FTemp, the descriptor-facing mutators) do not validate
// indices. Validate once with CheckBounds when building the topology.
type Lattice struct {
	ni, nj    int
	f         []float64
	ftemp     []float64
	nodeDescs []NodeDesc
	arena     *Arena

	sealed    bool
	closed    bool
	abandoned int
}

// NewLattice allocates an ni x nj lattice whose populations are the
// equilibrium of a quiescent fluid at density rho. A lattice with
// ni*nj == 0 is valid and every sweep over it is a no-op.
func NewLattice(ni, nj int, rho float64) (*Lattice, error) {
	if ni < 0 || nj < 0 {
		return nil, fmt.Errorf("%w: got ni=%d, nj=%d", ErrBadDimensions, ni, nj)
	}
	cells := ni * nj
	if (ni != 0 && cells/ni != nj) || cells > math.MaxInt/NumK {
		return nil, fmt.Errorf("%w: ni=%d x nj=%d overflows the cell count", ErrBadDimensions, ni, nj)
	}
	arena, err := NewArena(cells)
	if err != nil {
		return nil, fmt.Errorf("creating lattice arena: %w", err)
	}
	l := &Lattice{
		ni:        ni,
		nj:        nj,
		f:         make([]float64, cells*NumK),
		ftemp:     make([]float64, cells*NumK),
		nodeDescs: make([]NodeDesc, cells),
		arena:     arena,
	}
	l.initF(rho)
	logrus.Debugf("lattice %dx%d allocated: %d populations per buffer, arena capacity %d",
		ni, nj, cells*NumK, arena.Capacity())
	return l, nil
}

// initF sets both buffers to w_k * rho.
func (l *Lattice) initF(rho float64) {
	for base := 0; base < len(l.f); base += NumK {
		for k := 0; k < NumK; k++ {
			l.f[base+k] = weights[k] * rho
			l.ftemp[base+k] = weights[k] * rho
		}
	}
}

func (l *Lattice) cell(i, j int) int { return i*l.nj + j }

func (l *Lattice) idx(i, j, k int) int { return (i*l.nj+j)*NumK + k }

// NumI returns the number of cells along x.
func (l *Lattice) NumI() int { return l.ni }

// NumJ returns the number of cells along y.
func (l *Lattice) NumJ() int { return l.nj }

// F returns the current population of direction k at (i, j).
func (l *Lattice) F(i, j, k int) float64 { return l.f[l.idx(i, j, k)] }

// FTemp returns the next-buffer population of direction k at (i, j).
func (l *Lattice) FTemp(i, j, k int) float64 { return l.ftemp[l.idx(i, j, k)] }

// PF returns the current buffer. Callers must treat it as read-only.
func (l *Lattice) PF() []float64 { return l.f }

// PFTemp returns the next buffer. Callers must treat it as read-only.
func (l *Lattice) PFTemp() []float64 { return l.ftemp }

// NodeDesc returns the descriptor assigned to (i, j), or nil if none.
func (l *Lattice) NodeDesc(i, j int) NodeDesc { return l.nodeDescs[l.cell(i, j)] }

// NodeDescs returns the descriptor handles in cell order. Callers must not
// retain them past Close.
func (l *Lattice) NodeDescs() []NodeDesc { return l.nodeDescs }

// Arena returns the arena backing the node descriptors.
func (l *Lattice) Arena() *Arena { return l.arena }

// Abandoned returns how many descriptors were overwritten by reassignment.
// Their arena slots stay allocated until Close.
func (l *Lattice) Abandoned() int { return l.abandoned }

// Sealed reports whether the topology has been sealed.
func (l *Lattice) Sealed() bool { return l.sealed }

// Bounds returns the region covering the whole grid.
func (l *Lattice) Bounds() Region {
	return Region{BI: 0, EI: l.ni - 1, BJ: 0, EJ: l.nj - 1}
}

// SetNodeDesc copies desc into the lattice arena and assigns it to (i, j).
//
// Assigning a cell twice before Seal overwrites the handle; the earlier
// descriptor stays in its arena slot, unreachable, until Close. It is counted
// by Abandoned and never receives Release. After Seal any assignment fails
// with ErrTopologySealed.
func SetNodeDesc[T any, PT interface {
	*T
	NodeDesc
}](l *Lattice, i, j int, desc T) error {
	if err := l.CheckBounds(i, j); err != nil {
		return err
	}
	if l.sealed {
		return fmt.Errorf("%w: cannot assign a descriptor to (%d, %d)", ErrTopologySealed, i, j)
	}
	p, err := Alloc(l.arena, desc)
	if err != nil {
		return fmt.Errorf("assigning descriptor to (%d, %d): %w", i, j, err)
	}
	cell := l.cell(i, j)
	if l.nodeDescs[cell] != nil {
		l.abandoned++
		logrus.Warnf("(i, j) = (%d, %d) reassigned before seal; previous %T abandoned in arena",
			i, j, l.nodeDescs[cell])
	}
	l.nodeDescs[cell] = PT(p)
	return nil
}

// Seal ends topology setup. It fails if any cell has no descriptor.
func (l *Lattice) Seal() error {
	for cell, nd := range l.nodeDescs {
		if nd == nil {
			return fmt.Errorf("%w: (i, j) = (%d, %d)", ErrUnassignedCell, cell/l.nj, cell%l.nj)
		}
	}
	l.sealed = true
	logrus.Debugf("lattice topology sealed: %d descriptors, %d variants, %d abandoned",
		l.arena.Used(), l.arena.Variants(), l.abandoned)
	return nil
}

// StreamCell streams the populations of (i, j) into the next buffer.
func (l *Lattice) StreamCell(i, j int) {
	l.nodeDescs[l.cell(i, j)].Stream(l, i, j)
}

// StreamRegion streams every cell of r.
func (l *Lattice) StreamRegion(r Region) {
	for i := r.BI; i <= r.EI; i++ {
		for j := r.BJ; j <= r.EJ; j++ {
			l.nodeDescs[i*l.nj+j].Stream(l, i, j)
		}
	}
}

// Stream streams the whole grid, reading the current buffer and writing the
// next one. Within a step it must run after CollideAndBound and before
// SwapBuffers: collision works in place on the current buffer, so colliding
// after streaming discards the collision at the swap.
func (l *Lattice) Stream() {
	l.StreamRegion(l.Bounds())
}

// StreamRegions streams each region in order. Regions must not overlap.
func (l *Lattice) StreamRegions(rs []Region) {
	for _, r := range rs {
		l.StreamRegion(r)
	}
}

// CollideAndBoundCell collides (i, j) and applies its boundary condition.
func (l *Lattice) CollideAndBoundCell(mmap MultiscaleMap, cman CollisionManager, i, j int) {
	l.nodeDescs[l.cell(i, j)].CollideAndBound(l, mmap, cman, i, j)
}

// CollideAndBoundRegion collides every cell of r.
func (l *Lattice) CollideAndBoundRegion(mmap MultiscaleMap, cman CollisionManager, r Region) {
	for i := r.BI; i <= r.EI; i++ {
		for j := r.BJ; j <= r.EJ; j++ {
			l.nodeDescs[i*l.nj+j].CollideAndBound(l, mmap, cman, i, j)
		}
	}
}

// CollideAndBound collides the whole grid in place on the current buffer.
// Each step runs CollideAndBound, then Stream, then SwapBuffers once; Step
// does exactly that.
func (l *Lattice) CollideAndBound(mmap MultiscaleMap, cman CollisionManager) {
	l.CollideAndBoundRegion(mmap, cman, l.Bounds())
}

// CollideAndBoundRegions collides each region in order. Regions must not overlap.
func (l *Lattice) CollideAndBoundRegions(mmap MultiscaleMap, cman CollisionManager, rs []Region) {
	for _, r := range rs {
		l.CollideAndBoundRegion(mmap, cman, r)
	}
}

// SwapBuffers exchanges the current and next buffers without copying. Call it
// once per step, after CollideAndBound and Stream.
func (l *Lattice) SwapBuffers() {
	l.f, l.ftemp = l.ftemp, l.f
}

// Step advances the lattice one time step: collision in place on the
// streamed state, streaming into the next buffer, then a single swap.
func (l *Lattice) Step(mmap MultiscaleMap, cman CollisionManager) {
	l.CollideAndBound(mmap, cman)
	l.Stream()
	l.SwapBuffers()
}

// SetF writes the current population of direction k at (i, j).
// For use by NodeDesc implementations.
func (l *Lattice) SetF(i, j, k int, v float64) { l.f[l.idx(i, j, k)] = v }

// SetFTemp writes the next-buffer population of direction k at (i, j).
// For use by NodeDesc implementations.
func (l *Lattice) SetFTemp(i, j, k int, v float64) { l.ftemp[l.idx(i, j, k)] = v }

// Populations returns the nine current populations of (i, j) as a mutable
// view into the current buffer. The view is invalidated by SwapBuffers.
func (l *Lattice) Populations(i, j int) []float64 {
	base := l.idx(i, j, 0)
	return l.f[base : base+NumK : base+NumK]
}

// SetEquilibrium overwrites the current populations of (i, j) with the
// equilibrium of the state mmap holds for that cell.
func (l *Lattice) SetEquilibrium(eq Equilibrium, mmap MultiscaleMap, i, j int) {
	base := l.idx(i, j, 0)
	for k := 0; k < NumK; k++ {
		l.f[base+k] = eq.F(l, mmap, i, j, k)
	}
}

// InBounds reports whether (i, j) addresses a cell of the lattice.
func (l *Lattice) InBounds(i, j int) bool {
	return i >= 0 && i < l.ni && j >= 0 && j < l.nj
}

// CheckBounds returns an ErrOutOfBounds error naming (i, j) if it is not a
// cell of the lattice.
func (l *Lattice) CheckBounds(i, j int) error {
	if !l.InBounds(i, j) {
		return fmt.Errorf("%w: (i, j) = (%d, %d) is out of bounds. Check boundary conditions to ensure they are well-defined",
			ErrOutOfBounds, i, j)
	}
	return nil
}

// Close tears the lattice down. Every descriptor implementing Releaser is
// released; failures and panics are logged and swallowed so that every
// descriptor gets its chance. The arena is then released. Safe to call more
// than once.
func (l *Lattice) Close() {
	if l.closed {
		return
	}
	l.closed = true
	failures := 0
	for cell, nd := range l.nodeDescs {
		if r, ok := nd.(Releaser); ok {
			if err := release(r); err != nil {
				failures++
				logrus.Warnf("releasing node descriptor at (i, j) = (%d, %d): %v", cell/l.nj, cell%l.nj, err)
			}
		}
		l.nodeDescs[cell] = nil
	}
	l.arena.Release()
	logrus.Debugf("lattice %dx%d closed, %d release failures", l.ni, l.nj, failures)
}

// release calls r.Release, converting a panic into an error.
func release(r Releaser) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic during release: %v", p)
		}
	}()
	return r.Release()
}
