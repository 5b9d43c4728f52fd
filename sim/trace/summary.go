package trace

import "math"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalRecords  int
	FirstStep     int64
	LastStep      int64
	InitialMass   float64
	FinalMass     float64
	MassDrift     float64 // (final - initial) / initial; 0 when initial mass is 0
	PeakSpeed     float64
	PeakSpeedStep int64
	MinDensity    float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Steps) == 0 {
		return summary
	}

	first, last := st.Steps[0], st.Steps[len(st.Steps)-1]
	summary.TotalRecords = len(st.Steps)
	summary.FirstStep = first.Step
	summary.LastStep = last.Step
	summary.InitialMass = first.Mass
	summary.FinalMass = last.Mass
	if first.Mass != 0 {
		summary.MassDrift = (last.Mass - first.Mass) / first.Mass
	}

	summary.MinDensity = math.Inf(1)
	for _, r := range st.Steps {
		if r.MaxSpeed > summary.PeakSpeed {
			summary.PeakSpeed = r.MaxSpeed
			summary.PeakSpeedStep = r.Step
		}
		summary.MinDensity = math.Min(summary.MinDensity, r.MinDensity)
	}

	return summary
}
