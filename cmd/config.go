package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective run configuration as YAML",
	Long:  "Resolve the scenario preset or config file plus any explicit flags, validate the result and write it to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		data, err := cfg.Marshal()
		if err != nil {
			logrus.Fatalf("Failed to marshal configuration: %v", err)
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			logrus.Fatalf("Failed to write configuration: %v", err)
		}
	},
}
