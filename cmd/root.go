package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lbm-sim/lbm-sim/sim/scenario"
	"github.com/lbm-sim/lbm-sim/sim/trace"
)

var (
	// Scenario selection
	scenarioName string // Preset scenario used when no config file is given
	configPath   string // YAML run configuration
	logLevel     string // Log verbosity level

	// Geometry and flow
	ni            int     // Cells along x
	nj            int     // Cells along y
	steps         int64   // Number of time steps
	density       float64 // Initial density
	viscosity     float64 // Kinematic viscosity in lattice units
	velocity      float64 // Lid speed, inlet speed or shear amplitude
	outletDensity float64 // Channel outlet density

	// Model and execution
	equilibrium   string  // Equilibrium policy name
	refDensity    float64 // He-Luo background density
	workers       int     // Row bands stepped in parallel
	traceLevel    string  // Trace verbosity
	traceInterval int64   // Steps between trace records
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lbm-sim",
	Short: "D2Q9 lattice Boltzmann flow simulator",
}

// runCmd builds and runs a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a lattice Boltzmann scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		s, err := scenario.Build(*cfg)
		if err != nil {
			logrus.Fatalf("Failed to build %s scenario: %v", cfg.Name, err)
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		metrics, err := s.Run(ctx)
		if err != nil {
			logrus.Errorf("Run ended early: %v", err)
		}
		out := cmd.OutOrStdout()
		if perr := metrics.Print(out); perr != nil {
			logrus.Errorf("Failed to print metrics: %v", perr)
		}
		if s.Trace.Enabled() {
			printTraceSummary(out, trace.Summarize(s.Trace))
		}
		if err != nil {
			s.Close()
			os.Exit(1)
		}
		logrus.Info("Simulation complete.")
	},
}

// resolveConfig builds the effective configuration. It starts from the
// config file when one is given, otherwise from the scenario preset, and
// then applies only the flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*scenario.Config, error) {
	var cfg *scenario.Config
	if configPath != "" {
		loaded, err := scenario.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		preset, err := scenario.Default(scenarioName)
		if err != nil {
			return nil, err
		}
		cfg = &preset
	}

	flags := cmd.Flags()
	if flags.Changed("ni") {
		cfg.NI = ni
	}
	if flags.Changed("nj") {
		cfg.NJ = nj
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("viscosity") {
		cfg.Viscosity = viscosity
	}
	if flags.Changed("velocity") {
		cfg.Velocity = velocity
	}
	if flags.Changed("outlet-density") {
		cfg.OutletDensity = outletDensity
	}
	if flags.Changed("equilibrium") {
		cfg.Equilibrium.Policy = equilibrium
	}
	if flags.Changed("ref-density") {
		cfg.Equilibrium.RefDensity = refDensity
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("trace") {
		cfg.Trace.Level = traceLevel
	}
	if flags.Changed("trace-interval") {
		cfg.Trace.Interval = traceInterval
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printTraceSummary writes the trace summary in the same block style as the metrics.
func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Records: %d (steps %d..%d)\n", summary.TotalRecords, summary.FirstStep, summary.LastStep)
	fmt.Fprintf(w, "Mass: %.6f -> %.6f (drift %.3e)\n", summary.InitialMass, summary.FinalMass, summary.MassDrift)
	fmt.Fprintf(w, "Peak speed: %.6f at step %d\n", summary.PeakSpeed, summary.PeakSpeedStep)
	fmt.Fprintf(w, "Min density: %.6f\n", summary.MinDensity)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the scenario flags shared by run and config to cmd.
func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scenarioName, "scenario", scenario.Cavity, "Scenario preset (cavity, channel, periodic)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML run configuration (overrides --scenario)")

	cmd.Flags().IntVar(&ni, "ni", 0, "Cells along x")
	cmd.Flags().IntVar(&nj, "nj", 0, "Cells along y")
	cmd.Flags().Int64Var(&steps, "steps", 0, "Number of time steps")
	cmd.Flags().Float64Var(&density, "density", 1.0, "Initial density")
	cmd.Flags().Float64Var(&viscosity, "viscosity", 0.1, "Kinematic viscosity in lattice units")
	cmd.Flags().Float64Var(&velocity, "velocity", 0, "Lid speed, inlet speed or shear amplitude")
	cmd.Flags().Float64Var(&outletDensity, "outlet-density", 1.0, "Channel outlet density")

	cmd.Flags().StringVar(&equilibrium, "equilibrium", "standard", "Equilibrium policy (standard, he-luo)")
	cmd.Flags().Float64Var(&refDensity, "ref-density", 0, "He-Luo background density (0 uses --density)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Row bands stepped in parallel")
	cmd.Flags().StringVar(&traceLevel, "trace", "none", "Trace level (none, steps)")
	cmd.Flags().Int64Var(&traceInterval, "trace-interval", 100, "Steps between trace records")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	registerRunFlags(configCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}
