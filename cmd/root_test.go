package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lbm-sim/lbm-sim/sim/scenario"
)

// newFlagCommand returns a throwaway command with the run flags bound, so
// each test starts from the flag defaults.
func newFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	registerRunFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolveConfig_PresetWithoutFlags(t *testing.T) {
	cmd := newFlagCommand(t, "--scenario", "channel")

	cfg, err := resolveConfig(cmd)

	require.NoError(t, err)
	want, err := scenario.Default(scenario.Channel)
	require.NoError(t, err)
	assert.Equal(t, want, *cfg)
}

func TestResolveConfig_OnlyChangedFlagsOverride(t *testing.T) {
	// GIVEN a preset and two explicit flags
	cmd := newFlagCommand(t, "--scenario", "cavity", "--ni", "20", "--equilibrium", "he-luo")

	// WHEN resolved
	cfg, err := resolveConfig(cmd)

	// THEN those two fields change and unset flag defaults do not leak in
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.NI)
	assert.Equal(t, "he-luo", cfg.Equilibrium.Policy)
	preset, err := scenario.Default(scenario.Cavity)
	require.NoError(t, err)
	assert.Equal(t, preset.NJ, cfg.NJ, "--nj default 0 must not override the preset")
	assert.Equal(t, preset.Velocity, cfg.Velocity)
}

func TestResolveConfig_ConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: periodic\nni: 8\nnj: 8\nsteps: 10\n"), 0o644))
	cmd := newFlagCommand(t, "--config", path, "--steps", "25")

	cfg, err := resolveConfig(cmd)

	require.NoError(t, err)
	assert.Equal(t, scenario.Periodic, cfg.Name)
	assert.Equal(t, 8, cfg.NI)
	assert.Equal(t, int64(25), cfg.Steps)
}

func TestResolveConfig_InvalidOverride_ReturnsError(t *testing.T) {
	cmd := newFlagCommand(t, "--scenario", "cavity", "--workers", "0")
	_, err := resolveConfig(cmd)
	assert.Error(t, err)
}

func TestResolveConfig_UnknownScenario_ReturnsError(t *testing.T) {
	cmd := newFlagCommand(t, "--scenario", "tunnel")
	_, err := resolveConfig(cmd)
	assert.Error(t, err)
}

func TestConfigCommand_PrintsEffectiveYAML(t *testing.T) {
	// GIVEN the config subcommand with an override
	newFlagCommand(t) // reset the shared flag variables
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"config", "--scenario", "channel", "--ni", "50"})
	defer rootCmd.SetOut(nil)

	// WHEN executed
	require.NoError(t, rootCmd.Execute())

	// THEN stdout holds the resolved configuration
	var cfg scenario.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &cfg))
	assert.Equal(t, scenario.Channel, cfg.Name)
	assert.Equal(t, 50, cfg.NI)
	assert.NoError(t, cfg.Validate())
}

func TestRunCommand_PrintsMetricsAndTraceSummary(t *testing.T) {
	newFlagCommand(t) // reset the shared flag variables
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"run", "--scenario", "periodic", "--ni", "4", "--nj", "4",
		"--steps", "5", "--trace", "steps", "--trace-interval", "1", "--log", "error"})
	defer rootCmd.SetOut(nil)

	require.NoError(t, rootCmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "=== Flow Metrics ===", "metrics header must be on stdout")
	assert.Contains(t, output, `"mass"`, "metrics JSON must be on stdout")
	assert.Contains(t, output, "=== Trace Summary ===")
	assert.Contains(t, output, "Records: 6 (steps 0..5)")
}
