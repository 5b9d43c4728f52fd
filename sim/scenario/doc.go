// Package scenario assembles complete lattice Boltzmann runs from a
// configuration: it sizes the lattice, chooses the equilibrium, assigns a
// node descriptor to every cell, sets the initial state and drives the step
// loop.
//
// Three topologies are provided:
//
//   - cavity: a closed box whose north side is a lid moving east.
//   - channel: flow driven from a west velocity inlet to an east pressure
//     outlet between no-slip south and north walls.
//   - periodic: a fully periodic domain seeded with a sinusoidal shear wave
//     that decays under viscosity.
package scenario
