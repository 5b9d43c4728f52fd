// Package boundary provides the concrete node descriptors assigned to
// lattice cells: interior fluid, periodic fluid, no-slip walls, and Zou-He
// velocity and pressure boundaries.
//
// Every descriptor streams by pushing each population to its neighbour.
// Directions that would leave the grid are reflected into the same cell at
// the opposite direction, so no descriptor ever writes outside the buffers
// and streaming conserves mass.
package boundary
