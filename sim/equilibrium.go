package sim

import (
	"fmt"
	"sort"
)

// Equilibrium computes the local equilibrium population for one direction.
// Implementations are pure: no mutation, no per-cell state. A single functor
// is shared by reference across every cell that uses the same formula.
type Equilibrium interface {
	// F returns the equilibrium population of direction k at (i, j), using
	// the lattice geometry and the density and velocity held by mmap.
	F(lat *Lattice, mmap MultiscaleMap, i, j, k int) float64
}

// IncompFlowEq is the standard truncated Maxwell-Boltzmann equilibrium for
// incompressible flow:
//
//	feq_k = w_k rho (1 + c_k.u/cs^2 + (c_k.u)^2/(2 cs^4) - u.u/(2 cs^2))
type IncompFlowEq struct{}

func (IncompFlowEq) F(lat *Lattice, mmap MultiscaleMap, i, j, k int) float64 {
	rho := mmap.Density(i, j)
	u := mmap.Velocity(i, j)
	return lat.W(k) * rho * (1 + velocityTerms(lat, u, k))
}

// IncompFlowHLEq is the He-Luo incompressible equilibrium. The velocity
// terms are scaled by the fixed background density RhoO instead of the local
// density, which suppresses compressibility error:
//
//	feq_k = w_k (rho + rhoO (c_k.u/cs^2 + (c_k.u)^2/(2 cs^4) - u.u/(2 cs^2)))
type IncompFlowHLEq struct {
	RhoO float64
}

func (e IncompFlowHLEq) F(lat *Lattice, mmap MultiscaleMap, i, j, k int) float64 {
	rho := mmap.Density(i, j)
	u := mmap.Velocity(i, j)
	return lat.W(k) * (rho + e.RhoO*velocityTerms(lat, u, k))
}

// velocityTerms is the velocity-dependent part of the second-order expansion.
func velocityTerms(lat *Lattice, u [2]float64, k int) float64 {
	cssq := lat.Cssq()
	cu := lat.CK(k, 0)*u[0] + lat.CK(k, 1)*u[1]
	uu := u[0]*u[0] + u[1]*u[1]
	return cu/cssq + cu*cu/(2*cssq*cssq) - uu/(2*cssq)
}

// Equilibrium policy names accepted by NewEquilibrium.
const (
	EquilibriumStandard = "standard"
	EquilibriumHeLuo    = "he-luo"
)

// ValidEquilibria is the set of recognized equilibrium policy names.
// Empty string selects the standard equilibrium.
var ValidEquilibria = map[string]bool{"": true, EquilibriumStandard: true, EquilibriumHeLuo: true}

// IsValidEquilibrium returns true if name is a recognized equilibrium policy.
func IsValidEquilibrium(name string) bool {
	return ValidEquilibria[name]
}

// ValidEquilibriumNames returns the non-empty policy names in sorted order.
func ValidEquilibriumNames() []string {
	names := make([]string, 0, len(ValidEquilibria))
	for name := range ValidEquilibria {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewEquilibrium creates an Equilibrium by name. rhoO is the He-Luo
// background density and is ignored by the standard equilibrium.
// Panics on unrecognized names; callers validate with IsValidEquilibrium.
func NewEquilibrium(name string, rhoO float64) Equilibrium {
	if !IsValidEquilibrium(name) {
		panic(fmt.Sprintf("unknown equilibrium %q", name))
	}
	switch name {
	case "", EquilibriumStandard:
		return IncompFlowEq{}
	case EquilibriumHeLuo:
		return IncompFlowHLEq{RhoO: rhoO}
	default:
		panic(fmt.Sprintf("unhandled equilibrium %q", name))
	}
}
