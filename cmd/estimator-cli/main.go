// Package main provides the move estimator CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	noColor    bool
	verbose    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// newRootCmd builds the command tree. Flags are rebound on every call.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "estimator-cli",
		Short: "Estimate household move volumes from a free-text inventory",
		Long: `estimator-cli turns a free-text list of household items into a volume in
cubic feet and recommends a vehicle and crew.

Items are separated by newlines or commas, for example:

  2x sofa 3 seater
  double bed, 4 medium boxes
  desk 120x60x75 cm

All commands support --json for automation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level := cfg.Observability.LogLevel
			if verbose {
				level = "debug"
			}
			logger = observability.NewLogger(observability.LogConfig{
				Level:       level,
				Format:      "console",
				Output:      cmd.ErrOrStderr(),
				ServiceName: "estimator-cli",
			})

			if noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: uses env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newDictionaryCmd())
	rootCmd.AddCommand(newBandsCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
