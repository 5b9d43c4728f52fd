package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lbm-sim/lbm-sim/sim"
	"github.com/lbm-sim/lbm-sim/sim/boundary"
	"github.com/lbm-sim/lbm-sim/sim/macro"
	"github.com/lbm-sim/lbm-sim/sim/partition"
	"github.com/lbm-sim/lbm-sim/sim/trace"
)

// ErrDiverged indicates the populations became non-finite during a run.
var ErrDiverged = errors.New("simulation diverged")

// Simulation is a built, sealed scenario ready to run.
type Simulation struct {
	Config    Config
	Lattice   *sim.Lattice
	Map       *macro.Map
	Collision *macro.CollisionManager
	Eq        sim.Equilibrium
	Trace     *trace.SimulationTrace

	runner *partition.Runner
	step   int64
}

// Build validates cfg and assembles the lattice, its collaborators and the
// cell topology. The returned simulation owns the lattice; call Close when
// done.
func Build(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cman, err := macro.NewCollisionManager(cfg.Viscosity)
	if err != nil {
		return nil, err
	}
	lat, err := sim.NewLattice(cfg.NI, cfg.NJ, cfg.Density)
	if err != nil {
		return nil, err
	}
	refDensity := cfg.Equilibrium.RefDensity
	if refDensity == 0 {
		refDensity = cfg.Density
	}
	s := &Simulation{
		Config:    cfg,
		Lattice:   lat,
		Map:       macro.NewUniformMap(cfg.NI, cfg.NJ, cfg.Density, [2]float64{}),
		Collision: cman,
		Eq:        sim.NewEquilibrium(cfg.Equilibrium.Policy, refDensity),
		Trace: trace.NewSimulationTrace(trace.TraceConfig{
			Level:    trace.TraceLevel(cfg.Trace.Level),
			Interval: cfg.Trace.Interval,
		}),
	}
	switch cfg.Name {
	case Cavity:
		err = s.buildCavity()
	case Channel:
		err = s.buildChannel()
	case Periodic:
		err = s.buildPeriodic()
	}
	if err == nil {
		err = lat.Seal()
	}
	if err != nil {
		lat.Close()
		return nil, fmt.Errorf("building %s topology: %w", cfg.Name, err)
	}
	if cfg.Workers > 1 {
		if s.runner, err = partition.NewRunner(cfg.NI, cfg.NJ, cfg.Workers); err != nil {
			lat.Close()
			return nil, err
		}
	}
	logrus.Debugf("built %s scenario: %dx%d, tau=%.4f, equilibrium=%T",
		cfg.Name, cfg.NI, cfg.NJ, cman.Tau(0, 0), s.Eq)
	return s, nil
}

// buildCavity walls the west, east and south sides and drives the north
// interior cells as a lid moving east.
func (s *Simulation) buildCavity() error {
	lat, ni, nj := s.Lattice, s.Config.NI, s.Config.NJ
	lid := boundary.VelocityInlet{Eq: s.Eq, Side: boundary.North, U: [2]float64{s.Config.Velocity, 0}}
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			var err error
			switch {
			case i == 0 || i == ni-1 || j == 0:
				err = sim.SetNodeDesc(lat, i, j, boundary.Wall{})
			case j == nj-1:
				err = sim.SetNodeDesc(lat, i, j, lid)
			default:
				err = sim.SetNodeDesc(lat, i, j, boundary.Fluid{Eq: s.Eq})
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// buildChannel places walls on the south and north rows, a velocity inlet
// on the west interior column and a pressure outlet on the east one. The
// fluid starts at equilibrium with the inlet velocity.
func (s *Simulation) buildChannel() error {
	lat, ni, nj := s.Lattice, s.Config.NI, s.Config.NJ
	u := [2]float64{s.Config.Velocity, 0}
	inlet := boundary.VelocityInlet{Eq: s.Eq, Side: boundary.West, U: u}
	outlet := boundary.PressureOutlet{Eq: s.Eq, Side: boundary.East, Rho: s.Config.OutletDensity}
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			var err error
			switch {
			case j == 0 || j == nj-1:
				err = sim.SetNodeDesc(lat, i, j, boundary.Wall{})
			case i == 0:
				err = sim.SetNodeDesc(lat, i, j, inlet)
			case i == ni-1:
				err = sim.SetNodeDesc(lat, i, j, outlet)
			default:
				err = sim.SetNodeDesc(lat, i, j, boundary.Fluid{Eq: s.Eq})
			}
			if err != nil {
				return err
			}
			if j > 0 && j < nj-1 {
				s.Map.Set(i, j, s.Config.Density, u)
				lat.SetEquilibrium(s.Eq, s.Map, i, j)
			}
		}
	}
	return nil
}

// buildPeriodic fills the domain with periodic fluid carrying the shear wave
// u_x(j) = V sin(2 pi j / nj).
func (s *Simulation) buildPeriodic() error {
	lat, ni, nj := s.Lattice, s.Config.NI, s.Config.NJ
	for i := 0; i < ni; i++ {
		for j := 0; j < nj; j++ {
			if err := sim.SetNodeDesc(lat, i, j, boundary.Periodic{Eq: s.Eq}); err != nil {
				return err
			}
			ux := s.Config.Velocity * math.Sin(2*math.Pi*float64(j)/float64(nj))
			s.Map.Set(i, j, s.Config.Density, [2]float64{ux, 0})
			lat.SetEquilibrium(s.Eq, s.Map, i, j)
		}
	}
	return nil
}

// Steps returns the number of steps taken so far.
func (s *Simulation) Steps() int64 { return s.step }

// Advance takes n steps without logging or tracing.
func (s *Simulation) Advance(ctx context.Context, n int64) error {
	for ; n > 0; n-- {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.runner != nil {
			if err := s.runner.Step(ctx, s.Lattice, s.Map, s.Collision); err != nil {
				return err
			}
		} else {
			s.Lattice.Step(s.Map, s.Collision)
		}
		s.step++
	}
	return nil
}

// Run advances the configured number of steps, recording the trace at its
// interval, and returns the metrics of the final state. A cancelled context
// stops the run between steps and returns the metrics reached so far along
// with the context error.
func (s *Simulation) Run(ctx context.Context) (*sim.FlowMetrics, error) {
	logrus.Infof("running %s scenario: %dx%d cells, %d steps, tau=%.4f, workers=%d",
		s.Config.Name, s.Config.NI, s.Config.NJ, s.Config.Steps, s.Collision.Tau(0, 0), s.Config.Workers)
	start := time.Now()
	s.record()
	for s.step < s.Config.Steps {
		if err := s.Advance(ctx, 1); err != nil {
			return sim.Measure(s.Lattice, s.step), fmt.Errorf("stopped at step %d: %w", s.step, err)
		}
		if s.Trace.ShouldRecord(s.step) {
			if m := s.record(); !finite(m) {
				return m, fmt.Errorf("%w at step %d", ErrDiverged, s.step)
			}
		}
	}
	final := sim.Measure(s.Lattice, s.step)
	if !finite(final) {
		return final, fmt.Errorf("%w at step %d", ErrDiverged, s.step)
	}
	logrus.Infof("%s scenario finished after %d steps in %v: mass=%.6f, max speed=%.6f",
		s.Config.Name, s.step, time.Since(start), final.Mass, final.MaxSpeed)
	return final, nil
}

// record appends the current state to the trace when tracing is enabled and
// returns the measured metrics, or nil when tracing is off.
func (s *Simulation) record() *sim.FlowMetrics {
	if !s.Trace.Enabled() {
		return nil
	}
	m := sim.Measure(s.Lattice, s.step)
	s.Trace.RecordStep(trace.StepRecord{
		Step:        m.Step,
		Mass:        m.Mass,
		MomentumX:   m.MomentumX,
		MomentumY:   m.MomentumY,
		MeanDensity: m.MeanDensity,
		MinDensity:  m.MinDensity,
		MaxSpeed:    m.MaxSpeed,
	})
	logrus.Debugf("step %d: mass=%.6f, max speed=%.6f", m.Step, m.Mass, m.MaxSpeed)
	return m
}

// finite reports whether m is absent or free of NaN and Inf.
func finite(m *sim.FlowMetrics) bool {
	if m == nil {
		return true
	}
	return !math.IsNaN(m.Mass) && !math.IsInf(m.Mass, 0) && !math.IsNaN(m.MaxSpeed)
}

// Close tears down the lattice. Safe to call more than once.
func (s *Simulation) Close() {
	s.Lattice.Close()
}
