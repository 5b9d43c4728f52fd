// Package trace provides step-trace recording for lattice run analysis.
// This package has no dependencies on sim/ or its subpackages; it stores pure data types.
package trace

// StepRecord captures the flow diagnostics of a single sampled time step.
type StepRecord struct {
	Step        int64
	Mass        float64
	MomentumX   float64
	MomentumY   float64
	MeanDensity float64
	MinDensity  float64
	MaxSpeed    float64
}
