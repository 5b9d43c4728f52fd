package boundary

import "github.com/lbm-sim/lbm-sim/sim"

// VelocityInlet prescribes the velocity U on a domain side using the Zou-He
// non-equilibrium bounce-back, then collides like fluid.
type VelocityInlet struct {
	Eq   sim.Equilibrium
	Side Side
	U    [2]float64
}

// Stream pushes each population to its neighbour, reflecting at the grid edge.
func (d *VelocityInlet) Stream(lat *sim.Lattice, i, j int) {
	pushStream(lat, i, j)
}

// CollideAndBound reconstructs the incoming populations for U, then relaxes toward Eq.
func (d *VelocityInlet) CollideAndBound(lat *sim.Lattice, mmap sim.MultiscaleMap, cman sim.CollisionManager, i, j int) {
	pop := lat.Populations(i, j)
	n := d.Side.Normal()
	un := d.U[0]*float64(n[0]) + d.U[1]*float64(n[1])
	rho := knownSum(pop, d.Side) / (1 - un)
	reconstruct(pop, d.Side, rho, d.U)
	mmap.Set(i, j, rho, d.U)
	relax(lat, d.Eq, mmap, cman, i, j)
}

// PressureOutlet prescribes the density Rho on a domain side with zero
// tangential velocity using the Zou-He scheme, then collides like fluid.
type PressureOutlet struct {
	Eq   sim.Equilibrium
	Side Side
	Rho  float64
}

// Stream pushes each population to its neighbour, reflecting at the grid edge.
func (d *PressureOutlet) Stream(lat *sim.Lattice, i, j int) {
	pushStream(lat, i, j)
}

// CollideAndBound reconstructs the incoming populations for Rho, then relaxes toward Eq.
func (d *PressureOutlet) CollideAndBound(lat *sim.Lattice, mmap sim.MultiscaleMap, cman sim.CollisionManager, i, j int) {
	pop := lat.Populations(i, j)
	n := d.Side.Normal()
	un := 1 - knownSum(pop, d.Side)/d.Rho
	u := [2]float64{un * float64(n[0]), un * float64(n[1])}
	reconstruct(pop, d.Side, d.Rho, u)
	mmap.Set(i, j, d.Rho, u)
	relax(lat, d.Eq, mmap, cman, i, j)
}

// knownSum returns sum_{c.n=0} f + 2 sum_{c.n<0} f.
func knownSum(pop []float64, s Side) float64 {
	n := s.Normal()
	sum := 0.0
	for k := 0; k < sim.NumK; k++ {
		di, dj := sim.Offset(k)
		switch cn := di*n[0] + dj*n[1]; {
		case cn == 0:
			sum += pop[k]
		case cn < 0:
			sum += 2 * pop[k]
		}
	}
	return sum
}

// reconstruct overwrites the populations entering the domain through s so
// that the cell carries density rho and velocity u.
func reconstruct(pop []float64, s Side, rho float64, u [2]float64) {
	g := sideGeometry[s]
	un := u[0]*float64(g.normal[0]) + u[1]*float64(g.normal[1])
	ut := u[0]*float64(g.tangent[0]) + u[1]*float64(g.tangent[1])
	transverse := 0.5 * (rho*ut - (pop[g.kt] - pop[sim.Opposite(g.kt)]))
	for k := 1; k < sim.NumK; k++ {
		di, dj := sim.Offset(k)
		if di*g.normal[0]+dj*g.normal[1] <= 0 {
			continue
		}
		ct := di*g.tangent[0] + dj*g.tangent[1]
		if ct == 0 {
			pop[k] = pop[sim.Opposite(k)] + (2.0/3.0)*rho*un
		} else {
			pop[k] = pop[sim.Opposite(k)] + (1.0/6.0)*rho*un + float64(ct)*transverse
		}
	}
}
