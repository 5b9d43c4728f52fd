// Package sim provides the computational core of a two-dimensional lattice
// Boltzmann (D2Q9) flow solver.
//
// # Reading Guide
//
// Start with these files:
//   - d2q9.go: velocity set, weights, opposite directions and lattice constants
//   - lattice.go: population buffers, descriptor assignment and the sweeps
//   - node_desc.go: the per-cell strategy contract
//   - equilibrium.go: standard and He-Luo incompressible equilibria
//
// # Architecture
//
// The sim package defines the lattice and the interfaces it dispatches to;
// implementations live in sub-packages:
//   - sim/macro/: multiscale map (density, velocity) and collision manager
//   - sim/boundary/: fluid, periodic, wall, velocity inlet and pressure outlet descriptors
//   - sim/partition/: disjoint region bands and a concurrent step runner
//   - sim/trace/: per-step diagnostic recording
//   - sim/scenario/: scenario configuration and the time-stepping driver
//
// # Step Model
//
// A lattice holds a current and a next population buffer. One step is
// CollideAndBound (in place on current) then Stream (current into next) then
// SwapBuffers. Collision and streaming never interleave within a step, and
// the swap is a slice-header exchange.
//
// Node descriptors are assigned once per cell with SetNodeDesc, stored in a
// fixed-capacity Arena owned by the lattice, and released together by
// Lattice.Close. Each sweep pays one interface dispatch per cell.
//
// # Concurrency
//
// The core is single-threaded and provides no synchronization. Disjoint
// regions may be swept by separate goroutines: streaming writes each next
// buffer entry from exactly one source cell, and collision writes only the
// cell being collided. See sim/partition.
package sim
