// Package testutil provides shared test infrastructure for the lattice
// Boltzmann packages. It holds tolerance-based float assertions used across
// sim/ and its subpackage tests.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertFloat64Near compares two float64 values with absolute tolerance.
// Use it where want may legitimately be zero.
func AssertFloat64Near(t *testing.T, name string, want, got, absTol float64) {
	t.Helper()
	if diff := math.Abs(want - got); diff > absTol || math.IsNaN(got) {
		t.Errorf("%s: got %v, want %v (diff=%v, tol=%v)", name, got, want, diff, absTol)
	}
}

// AssertSliceNear compares two float64 slices element-wise with absolute tolerance.
func AssertSliceNear(t *testing.T, name string, want, got []float64, absTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("%s: length %d, want %d", name, len(got), len(want))
	}
	for i := range want {
		if diff := math.Abs(want[i] - got[i]); diff > absTol || math.IsNaN(got[i]) {
			t.Errorf("%s[%d]: got %v, want %v (diff=%v)", name, i, got[i], want[i], diff)
		}
	}
}
