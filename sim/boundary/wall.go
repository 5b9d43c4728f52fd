package boundary

import "github.com/lbm-sim/lbm-sim/sim"

// Wall is a solid, no-slip cell using full-way bounce-back: whatever
// streamed in during the previous step is reversed and streamed back out.
type Wall struct{}

// Stream pushes the reversed populations back out like a fluid cell.
func (d *Wall) Stream(lat *sim.Lattice, i, j int) {
	pushStream(lat, i, j)
}

// CollideAndBound reverses every population in place and records the cell
// as resting fluid of the same density.
func (d *Wall) CollideAndBound(lat *sim.Lattice, mmap sim.MultiscaleMap, _ sim.CollisionManager, i, j int) {
	pop := lat.Populations(i, j)
	rho := pop[0]
	for _, k := range [...]int{1, 2, 5, 6} {
		o := sim.Opposite(k)
		rho += pop[k] + pop[o]
		pop[k], pop[o] = pop[o], pop[k]
	}
	mmap.Set(i, j, rho, [2]float64{})
}
