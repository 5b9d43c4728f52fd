package partition

import (
	"context"
	"math"
	"testing"

	"github.com/lbm-sim/lbm-sim/sim"
	"github.com/lbm-sim/lbm-sim/sim/boundary"
	"github.com/lbm-sim/lbm-sim/sim/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows_CoverGridWithoutOverlap(t *testing.T) {
	tests := []struct {
		name          string
		ni, nj, parts int
		wantBands     int
	}{
		{"even split", 8, 3, 4, 4},
		{"uneven split", 10, 3, 4, 4},
		{"more parts than rows", 3, 5, 8, 3},
		{"single part", 7, 2, 1, 1},
		{"zero parts clamps to one", 4, 4, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := Rows(tt.ni, tt.nj, tt.parts)
			require.Len(t, bands, tt.wantBands)
			next := 0
			for _, b := range bands {
				assert.Equal(t, next, b.BI, "bands are contiguous")
				assert.GreaterOrEqual(t, b.EI, b.BI, "bands are non-empty")
				assert.Equal(t, 0, b.BJ)
				assert.Equal(t, tt.nj-1, b.EJ)
				next = b.EI + 1
			}
			assert.Equal(t, tt.ni, next, "bands cover every row")
		})
	}
}

func TestRows_EmptyGrid(t *testing.T) {
	assert.Nil(t, Rows(0, 4, 2))
	assert.Nil(t, Rows(4, 0, 2))
}

func TestNewRunner_RejectsZeroWorkers(t *testing.T) {
	_, err := NewRunner(4, 4, 0)
	assert.Error(t, err)
}

// channel builds a small channel: walls top and bottom, inlet west, outlet east.
func channel(t *testing.T, ni, nj int) *sim.Lattice {
	t.Helper()
	lat, err := sim.NewLattice(ni, nj, 1)
	require.NoError(t, err)
	eq := sim.IncompFlowEq{}
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			switch {
			case j == 0 || j == nj-1:
				err = sim.SetNodeDesc(lat, i, j, boundary.Wall{})
			case i == 0:
				err = sim.SetNodeDesc(lat, i, j, boundary.VelocityInlet{Eq: eq, Side: boundary.West, U: [2]float64{0.05, 0}})
			case i == ni-1:
				err = sim.SetNodeDesc(lat, i, j, boundary.PressureOutlet{Eq: eq, Side: boundary.East, Rho: 1})
			default:
				err = sim.SetNodeDesc(lat, i, j, boundary.Fluid{Eq: eq})
			}
			require.NoError(t, err)
		}
	}
	require.NoError(t, lat.Seal())
	return lat
}

func TestRunner_StepMatchesSerialStepBitForBit(t *testing.T) {
	// GIVEN two identical channels
	serial, parallel := channel(t, 13, 7), channel(t, 13, 7)
	serialMap, parallelMap := macro.NewMap(13, 7), macro.NewMap(13, 7)
	cman, err := macro.NewCollisionManager(0.08)
	require.NoError(t, err)
	runner, err := NewRunner(13, 7, 4)
	require.NoError(t, err)

	// WHEN one steps serially and the other in bands
	for n := 0; n < 30; n++ {
		serial.Step(serialMap, cman)
		require.NoError(t, runner.Step(context.Background(), parallel, parallelMap, cman))
	}

	// THEN the populations are identical
	require.Equal(t, len(serial.PF()), len(parallel.PF()))
	for idx := range serial.PF() {
		if math.Float64bits(serial.PF()[idx]) != math.Float64bits(parallel.PF()[idx]) {
			t.Fatalf("population %d differs: serial %v, parallel %v", idx, serial.PF()[idx], parallel.PF()[idx])
		}
	}
}

func TestRunner_CancelledContextLeavesBuffersUnswapped(t *testing.T) {
	lat := channel(t, 6, 5)
	runner, err := NewRunner(6, 5, 2)
	require.NoError(t, err)
	cman, err := macro.NewCollisionManager(0.1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	before := &lat.PF()[0]

	err = runner.Step(ctx, lat, macro.NewMap(6, 5), cman)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, before, &lat.PF()[0])
}

func BenchmarkRunner_Step_128x128(b *testing.B) {
	lat, err := sim.NewLattice(128, 128, 1)
	require.NoError(b, err)
	for i := 0; i < 128; i++ {
		for j := 0; j < 128; j++ {
			require.NoError(b, sim.SetNodeDesc(lat, i, j, boundary.Periodic{Eq: sim.IncompFlowEq{}}))
		}
	}
	require.NoError(b, lat.Seal())
	mmap := macro.NewMap(128, 128)
	cman, err := macro.NewCollisionManager(0.1)
	require.NoError(b, err)
	runner, err := NewRunner(128, 128, 4)
	require.NoError(b, err)
	ctx := context.Background()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if err := runner.Step(ctx, lat, mmap, cman); err != nil {
			b.Fatal(err)
		}
	}
}
