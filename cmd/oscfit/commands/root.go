package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/telemetry"
)

var (
	// Global flags
	logLevel   string
	logFormat  string
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oscfit",
		Short: "oscfit - Neutrino oscillation template settings engine",
		Long: `oscfit loads, validates and queries template settings documents for
atmospheric neutrino oscillation analyses.

A settings document declares the analysis binning (energy and cosine-zenith
axes with oversampling factors) and the physics and detector parameters the
template maker consumes: oscillation parameters with fit ranges and Gaussian
priors, resource file paths and parameterization curves evaluated on the
oversampled grids.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := telemetry.DefaultLoggingConfig()
			cfg.Level = logLevel
			cfg.Format = logFormat
			l, err := telemetry.NewLogger(cfg)
			if err != nil {
				return err
			}
			// Subcommands pick the logger back up with telemetry.FromContext.
			cmd.SetContext(l.WithContext(cmd.Context()))
			return nil
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newParamsCommand())
	rootCmd.AddCommand(newGridCommand())
	rootCmd.AddCommand(newEvalCommand())
	rootCmd.AddCommand(newRunsCommand())

	return rootCmd
}
