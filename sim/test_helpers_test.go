package sim

import (
	"errors"
	"math"
)

// testMap is a minimal MultiscaleMap for exercising the core without sim/macro.
type testMap struct {
	nj  int
	rho []float64
	u   [][2]float64
}

func newTestMap(ni, nj int, rho float64, u [2]float64) *testMap {
	m := &testMap{nj: nj, rho: make([]float64, ni*nj), u: make([][2]float64, ni*nj)}
	for cell := range m.rho {
		m.rho[cell] = rho
		m.u[cell] = u
	}
	return m
}

func (m *testMap) Density(i, j int) float64 { return m.rho[i*m.nj+j] }
func (m *testMap) Velocity(i, j int) [2]float64 { return m.u[i*m.nj+j] }

func (m *testMap) Update(lat *Lattice, i, j int) {
	var rho, jx, jy float64
	for k, f := range lat.Populations(i, j) {
		rho += f
		jx += f * lat.CK(k, 0)
		jy += f * lat.CK(k, 1)
	}
	m.rho[i*m.nj+j] = rho
	m.u[i*m.nj+j] = [2]float64{jx / rho, jy / rho}
}

func (m *testMap) Set(i, j int, rho float64, u [2]float64) {
	m.rho[i*m.nj+j] = rho
	m.u[i*m.nj+j] = u
}

// fixedTau is a global CollisionManager.
type fixedTau float64

func (t fixedTau) Tau(_, _ int) float64 { return float64(t) }

// edgeFluid pushes populations to neighbours, reflecting at the grid edge,
// and relaxes toward eq.
type edgeFluid struct {
	eq Equilibrium
}

func (d *edgeFluid) Stream(lat *Lattice, i, j int) {
	for k := 0; k < NumK; k++ {
		di, dj := Offset(k)
		if lat.InBounds(i+di, j+dj) {
			lat.SetFTemp(i+di, j+dj, k, lat.F(i, j, k))
		} else {
			lat.SetFTemp(i, j, Opposite(k), lat.F(i, j, k))
		}
	}
}

func (d *edgeFluid) CollideAndBound(lat *Lattice, mmap MultiscaleMap, cman CollisionManager, i, j int) {
	mmap.Update(lat, i, j)
	omega := lat.Dt() / cman.Tau(i, j)
	pop := lat.Populations(i, j)
	for k := range pop {
		pop[k] += omega * (d.eq.F(lat, mmap, i, j, k) - pop[k])
	}
}

// sweepCounter counts how often each phase visits a cell.
type sweepCounter struct {
	streams, collides []int
}

type countingDesc struct {
	counter *sweepCounter
}

func (d *countingDesc) Stream(lat *Lattice, i, j int) {
	d.counter.streams[i*lat.NumJ()+j]++
}

func (d *countingDesc) CollideAndBound(lat *Lattice, _ MultiscaleMap, _ CollisionManager, i, j int) {
	d.counter.collides[i*lat.NumJ()+j]++
}

// releasingDesc records Release calls and fails or panics on request.
type releasingDesc struct {
	released *int
	fail     bool
	panics   bool
}

func (d *releasingDesc) Stream(*Lattice, int, int) {}
func (d *releasingDesc) CollideAndBound(*Lattice, MultiscaleMap, CollisionManager, int, int) {}

func (d *releasingDesc) Release() error {
	*d.released++
	if d.panics {
		panic("descriptor teardown exploded")
	}
	if d.fail {
		return errors.New("descriptor teardown failed")
	}
	return nil
}

// fillFluid assigns edgeFluid with eq to every cell and seals the lattice.
func fillFluid(lat *Lattice, eq Equilibrium) error {
	for i := 0; i < lat.NumI(); i++ {
		for j := 0; j < lat.NumJ(); j++ {
			if err := SetNodeDesc(lat, i, j, edgeFluid{eq: eq}); err != nil {
				return err
			}
		}
	}
	return lat.Seal()
}

// perturb writes a deterministic non-uniform population pattern into f.
func perturb(lat *Lattice) {
	for idx := range lat.f {
		lat.f[idx] = 0.05 + 0.01*math.Abs(math.Sin(float64(idx)*0.7))
	}
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}
