package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lbm-sim/lbm-sim/sim"
	"github.com/lbm-sim/lbm-sim/sim/trace"
)

// Scenario names accepted by Default and Build.
const (
	Cavity   = "cavity"
	Channel  = "channel"
	Periodic = "periodic"
)

// ValidScenarios is the set of recognized scenario names.
var ValidScenarios = map[string]bool{Cavity: true, Channel: true, Periodic: true}

// IsValidScenario returns true if name is a recognized scenario.
func IsValidScenario(name string) bool {
	return ValidScenarios[name]
}

// ValidScenarioNames returns the scenario names in sorted order.
func ValidScenarioNames() []string {
	names := make([]string, 0, len(ValidScenarios))
	for name := range ValidScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config describes one run. Every field is settable from YAML; fields
// absent from the file keep the scenario's defaults.
type Config struct {
	Name          string            `yaml:"name"`
	NI            int               `yaml:"ni"`
	NJ            int               `yaml:"nj"`
	Steps         int64             `yaml:"steps"`
	Density       float64           `yaml:"density"`
	Viscosity     float64           `yaml:"viscosity"`
	Velocity      float64           `yaml:"velocity"`       // lid speed, inlet speed or shear amplitude
	OutletDensity float64           `yaml:"outlet_density"` // channel only
	Equilibrium   EquilibriumConfig `yaml:"equilibrium"`
	Workers       int               `yaml:"workers"`
	Trace         TraceConfig       `yaml:"trace"`
}

// EquilibriumConfig selects the equilibrium functor.
type EquilibriumConfig struct {
	Policy     string  `yaml:"policy"`
	RefDensity float64 `yaml:"ref_density"` // He-Luo background density; 0 means the initial density
}

// TraceConfig controls step tracing.
type TraceConfig struct {
	Level    string `yaml:"level"`
	Interval int64  `yaml:"interval"`
}

// Default returns the preset configuration for a scenario.
func Default(name string) (Config, error) {
	cfg := Config{
		Name:        name,
		Steps:       1000,
		Density:     1.0,
		Viscosity:   0.1,
		Equilibrium: EquilibriumConfig{Policy: sim.EquilibriumStandard},
		Workers:     1,
		Trace:       TraceConfig{Level: string(trace.TraceLevelNone), Interval: 100},
	}
	switch name {
	case Cavity:
		cfg.NI, cfg.NJ = 64, 64
		cfg.Velocity = 0.1
	case Channel:
		cfg.NI, cfg.NJ = 120, 41
		cfg.Velocity = 0.05
		cfg.OutletDensity = 1.0
	case Periodic:
		cfg.NI, cfg.NJ = 32, 32
		cfg.Velocity = 0.05
	default:
		return Config{}, fmt.Errorf("unknown scenario %q; valid scenarios: %v", name, ValidScenarioNames())
	}
	return cfg, nil
}

// Load reads a YAML run configuration. The file must name its scenario;
// fields it omits take that scenario's defaults. Unknown fields are errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	var head struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	cfg, err := Default(head.Name)
	if err != nil {
		return nil, fmt.Errorf("scenario config %s: %w", path, err)
	}
	// Strict parsing: typos must cause errors
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &cfg, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// minExtent is the smallest grid side that leaves room for boundary rows and
// at least one interior row.
const minExtent = 3

// maxVelocity keeps prescribed speeds well below the lattice sound speed.
const maxVelocity = 0.4

// Validate checks that the configuration describes a runnable scenario.
func (c *Config) Validate() error {
	if !IsValidScenario(c.Name) {
		return fmt.Errorf("unknown scenario %q; valid scenarios: %v", c.Name, ValidScenarioNames())
	}
	extent := minExtent
	if c.Name == Periodic {
		extent = 1
	}
	if c.NI < extent || c.NJ < extent {
		return fmt.Errorf("%s grid must be at least %dx%d, got %dx%d", c.Name, extent, extent, c.NI, c.NJ)
	}
	if c.Steps < 0 {
		return fmt.Errorf("steps must be non-negative, got %d", c.Steps)
	}
	if !positive(c.Density) {
		return fmt.Errorf("density must be finite and positive, got %v", c.Density)
	}
	if !positive(c.Viscosity) {
		return fmt.Errorf("viscosity must be finite and positive, got %v", c.Viscosity)
	}
	if math.IsNaN(c.Velocity) || math.Abs(c.Velocity) > maxVelocity {
		return fmt.Errorf("velocity must be within [-%g, %g], got %v", maxVelocity, maxVelocity, c.Velocity)
	}
	if c.Name == Channel && !positive(c.OutletDensity) {
		return fmt.Errorf("outlet_density must be finite and positive, got %v", c.OutletDensity)
	}
	if !sim.IsValidEquilibrium(c.Equilibrium.Policy) {
		return fmt.Errorf("unknown equilibrium policy %q; valid policies: %v", c.Equilibrium.Policy, sim.ValidEquilibriumNames())
	}
	if c.Equilibrium.RefDensity < 0 || math.IsNaN(c.Equilibrium.RefDensity) {
		return fmt.Errorf("ref_density must be non-negative, got %v", c.Equilibrium.RefDensity)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if !trace.IsValidTraceLevel(c.Trace.Level) {
		return fmt.Errorf("unknown trace level %q; valid levels: none, steps", c.Trace.Level)
	}
	if c.Trace.Interval < 0 {
		return fmt.Errorf("trace interval must be non-negative, got %d", c.Trace.Interval)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
