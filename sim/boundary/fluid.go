package boundary

import "github.com/lbm-sim/lbm-sim/sim"

// Fluid is an interior fluid cell relaxing toward Eq (BGK).
type Fluid struct {
	Eq sim.Equilibrium
}

// Stream pushes each population to its neighbour, reflecting at the grid edge.
func (d *Fluid) Stream(lat *sim.Lattice, i, j int) {
	pushStream(lat, i, j)
}

// CollideAndBound refreshes the cell's macroscopic state and relaxes toward Eq.
func (d *Fluid) CollideAndBound(lat *sim.Lattice, mmap sim.MultiscaleMap, cman sim.CollisionManager, i, j int) {
	mmap.Update(lat, i, j)
	relax(lat, d.Eq, mmap, cman, i, j)
}

// Periodic is a fluid cell whose streaming wraps around the grid edges.
type Periodic struct {
	Eq sim.Equilibrium
}

// Stream pushes each population to its neighbour, wrapping around the grid.
func (d *Periodic) Stream(lat *sim.Lattice, i, j int) {
	ni, nj := lat.NumI(), lat.NumJ()
	for k := 0; k < sim.NumK; k++ {
		di, dj := sim.Offset(k)
		ti := (i + di + ni) % ni
		tj := (j + dj + nj) % nj
		lat.SetFTemp(ti, tj, k, lat.F(i, j, k))
	}
}

// CollideAndBound refreshes the cell's macroscopic state and relaxes toward Eq.
func (d *Periodic) CollideAndBound(lat *sim.Lattice, mmap sim.MultiscaleMap, cman sim.CollisionManager, i, j int) {
	mmap.Update(lat, i, j)
	relax(lat, d.Eq, mmap, cman, i, j)
}

// pushStream copies each population of (i, j) into the next buffer of the
// neighbour along its direction. Directions leaving the grid are reflected
// into (i, j) at the opposite direction.
func pushStream(lat *sim.Lattice, i, j int) {
	for k := 0; k < sim.NumK; k++ {
		di, dj := sim.Offset(k)
		ti, tj := i+di, j+dj
		if lat.InBounds(ti, tj) {
			lat.SetFTemp(ti, tj, k, lat.F(i, j, k))
		} else {
			lat.SetFTemp(i, j, sim.Opposite(k), lat.F(i, j, k))
		}
	}
}

// relax applies f_k += (dt/tau)(feq_k - f_k) in place.
func relax(lat *sim.Lattice, eq sim.Equilibrium, mmap sim.MultiscaleMap, cman sim.CollisionManager, i, j int) {
	omega := lat.Dt() / cman.Tau(i, j)
	pop := lat.Populations(i, j)
	for k := range pop {
		pop[k] += omega * (eq.F(lat, mmap, i, j, k) - pop[k])
	}
}
