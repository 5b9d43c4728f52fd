package macro

import (
	"testing"

	"github.com/lbm-sim/lbm-sim/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_UpdateRecoversEquilibriumState(t *testing.T) {
	// GIVEN a cell holding the equilibrium of (rho, u)
	lat, err := sim.NewLattice(2, 3, 1)
	require.NoError(t, err)
	prescribed := NewUniformMap(2, 3, 1.07, [2]float64{0.04, -0.03})
	lat.SetEquilibrium(sim.IncompFlowEq{}, prescribed, 1, 2)

	// WHEN a fresh map reads the populations back
	m := NewMap(2, 3)
	m.Update(lat, 1, 2)

	// THEN the macroscopic state is recovered
	assert.InDelta(t, 1.07, m.Density(1, 2), 1e-12)
	assert.InDelta(t, 0.04, m.Velocity(1, 2)[0], 1e-12)
	assert.InDelta(t, -0.03, m.Velocity(1, 2)[1], 1e-12)
	assert.Equal(t, 0.0, m.Density(0, 0), "other cells untouched")
}

func TestMap_UpdateZeroDensityGivesZeroVelocity(t *testing.T) {
	lat, err := sim.NewLattice(1, 1, 0)
	require.NoError(t, err)
	m := NewUniformMap(1, 1, 1, [2]float64{0.3, 0.3})

	m.Update(lat, 0, 0)

	assert.Equal(t, 0.0, m.Density(0, 0))
	assert.Equal(t, [2]float64{}, m.Velocity(0, 0))
}

func TestMap_RefreshAndFields(t *testing.T) {
	lat, err := sim.NewLattice(3, 2, 0.8)
	require.NoError(t, err)
	m := NewMap(3, 2)

	m.Refresh(lat)

	rho, u := m.Fields()
	require.Len(t, rho, 6)
	for cell := range rho {
		assert.InDelta(t, 0.8, rho[cell], 1e-12)
		assert.InDelta(t, 0, u[cell][0], 1e-15)
		assert.InDelta(t, 0, u[cell][1], 1e-15)
	}
}

func TestMap_SetStoresPrescribedState(t *testing.T) {
	m := NewMap(2, 2)
	m.Set(0, 1, 1.2, [2]float64{0.1, 0})
	assert.Equal(t, 1.2, m.Density(0, 1))
	assert.Equal(t, [2]float64{0.1, 0}, m.Velocity(0, 1))
}
