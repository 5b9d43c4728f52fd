// Package macro implements the collaborators the lattice core consumes:
// the multiscale map that converts populations to density and velocity, and
// the collision manager that supplies the BGK relaxation time.
package macro

import (
	"github.com/lbm-sim/lbm-sim/sim"
)

// Map stores the macroscopic density and velocity of every cell.
// Storage is row-major in i, matching the lattice.
//
// Thread-safety: Update and Set write only the addressed cell, so disjoint
// regions may be processed concurrently.
type Map struct {
	ni, nj int
	rho    []float64
	u      [][2]float64
}

// NewMap creates a map for an ni x nj lattice, with zero density and velocity.
func NewMap(ni, nj int) *Map {
	return &Map{
		ni:  ni,
		nj:  nj,
		rho: make([]float64, ni*nj),
		u:   make([][2]float64, ni*nj),
	}
}

// NewUniformMap creates a map whose every cell holds (rho, u).
func NewUniformMap(ni, nj int, rho float64, u [2]float64) *Map {
	m := NewMap(ni, nj)
	for cell := range m.rho {
		m.rho[cell] = rho
		m.u[cell] = u
	}
	return m
}

func (m *Map) Density(i, j int) float64 { return m.rho[i*m.nj+j] }

func (m *Map) Velocity(i, j int) [2]float64 { return m.u[i*m.nj+j] }

// Update recomputes rho = sum f and u = sum f c / rho at (i, j) from the
// lattice's current populations. u is zero where rho is zero.
func (m *Map) Update(lat *sim.Lattice, i, j int) {
	var rho, jx, jy float64
	for k, f := range lat.Populations(i, j) {
		rho += f
		jx += f * lat.CK(k, 0)
		jy += f * lat.CK(k, 1)
	}
	cell := i*m.nj + j
	m.rho[cell] = rho
	if rho == 0 {
		m.u[cell] = [2]float64{}
		return
	}
	m.u[cell] = [2]float64{jx / rho, jy / rho}
}

func (m *Map) Set(i, j int, rho float64, u [2]float64) {
	cell := i*m.nj + j
	m.rho[cell] = rho
	m.u[cell] = u
}

// Refresh updates every cell from the lattice.
func (m *Map) Refresh(lat *sim.Lattice) {
	for i := 0; i < m.ni; i++ {
		for j := 0; j < m.nj; j++ {
			m.Update(lat, i, j)
		}
	}
}

// Fields returns read-only views of the density and velocity arrays.
func (m *Map) Fields() ([]float64, [][2]float64) {
	return m.rho, m.u
}
