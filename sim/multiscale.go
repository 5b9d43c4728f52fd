package sim

// MultiscaleMap converts between mesoscopic populations and the macroscopic
// density and velocity fields. The core only reads it through this
// interface; implementations live in sim/macro.
type MultiscaleMap interface {
	// Density returns the macroscopic density at (i, j).
	Density(i, j int) float64

	// Velocity returns the macroscopic velocity at (i, j).
	Velocity(i, j int) [2]float64

	// Update recomputes the state at (i, j) from the lattice's current populations.
	Update(lat *Lattice, i, j int)

	// Set stores a state prescribed by a boundary condition.
	Set(i, j int, rho float64, u [2]float64)
}

// CollisionManager supplies relaxation parameters derived from viscosity.
type CollisionManager interface {
	// Tau returns the relaxation time at (i, j). Global managers ignore the indices.
	Tau(i, j int) float64
}
