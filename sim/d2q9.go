package sim

import "math"

// NumK is the number of discrete velocities in the D2Q9 set.
const NumK = 9

// Direction layout shared by streaming and every boundary descriptor:
//
//	6     2     5
//	  \   |   /
//	3 --- 0 --- 1
//	  /   |   \
//	7     4     8
//
// 0 is the rest population, 1-4 are axis-aligned, 5-8 are diagonal.
var latVecs = [NumK][2]float64{
	{0, 0},
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

var weights = [NumK]float64{
	4.0 / 9.0,
	1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
	1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
}

var opposites = [NumK]int{0, 3, 4, 1, 2, 7, 8, 5, 6}

// offsets are the integer neighbour offsets for each direction.
var offsets = [NumK][2]int{
	{0, 0},
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

const (
	dx = 1.0
	dt = 1.0
	c  = dx / dt
)

// Opposite returns the direction whose lattice vector is antiparallel to k.
func Opposite(k int) int { return opposites[k] }

// Offset returns the integer (di, dj) neighbour offset of direction k.
func Offset(k int) (int, int) { return offsets[k][0], offsets[k][1] }

// Dx returns the lattice spacing.
func (l *Lattice) Dx() float64 { return dx }

// Dt returns the time step.
func (l *Lattice) Dt() float64 { return dt }

// C returns the lattice speed dx/dt.
func (l *Lattice) C() float64 { return c }

// Cs returns the lattice speed of sound c/sqrt(3).
func (l *Lattice) Cs() float64 { return c / math.Sqrt(3.0) }

// Cssq returns the squared speed of sound.
func (l *Lattice) Cssq() float64 { return c * c / 3.0 }

// W returns the weight of direction k.
func (l *Lattice) W(k int) float64 { return weights[k] }

// Vec returns the lattice velocity of direction k in physical units.
func (l *Lattice) Vec(k int) [2]float64 {
	return [2]float64{c * latVecs[k][0], c * latVecs[k][1]}
}

// CK returns component comp (0 = x, 1 = y) of the lattice velocity of direction k.
func (l *Lattice) CK(k, comp int) float64 { return c * latVecs[k][comp] }
