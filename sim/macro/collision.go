package macro

import (
	"fmt"
	"math"
)

// latticeCssq is the squared lattice speed of sound for dx = dt = 1.
const latticeCssq = 1.0 / 3.0

// CollisionManager supplies a single, global BGK relaxation time.
type CollisionManager struct {
	nu  float64
	tau float64
}

// NewCollisionManager derives the relaxation time from the kinematic
// viscosity nu in lattice units: tau = nu/cs^2 + dt/2.
// Returns an error unless nu is finite and positive (tau > 0.5).
func NewCollisionManager(nu float64) (*CollisionManager, error) {
	if math.IsNaN(nu) || math.IsInf(nu, 0) || nu <= 0 {
		return nil, fmt.Errorf("viscosity must be finite and positive, got %v", nu)
	}
	return &CollisionManager{nu: nu, tau: nu/latticeCssq + 0.5}, nil
}

// WithTau creates a manager from a relaxation time directly.
// Returns an error unless tau > 0.5.
func WithTau(tau float64) (*CollisionManager, error) {
	if math.IsNaN(tau) || math.IsInf(tau, 0) || tau <= 0.5 {
		return nil, fmt.Errorf("relaxation time must be finite and greater than 0.5, got %v", tau)
	}
	return &CollisionManager{nu: (tau - 0.5) * latticeCssq, tau: tau}, nil
}

// Tau returns the relaxation time; the indices are ignored.
func (c *CollisionManager) Tau(_, _ int) float64 { return c.tau }

// Omega returns the relaxation frequency 1/tau.
func (c *CollisionManager) Omega() float64 { return 1 / c.tau }

// Viscosity returns the kinematic viscosity in lattice units.
func (c *CollisionManager) Viscosity() float64 { return c.nu }
