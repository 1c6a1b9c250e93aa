package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/log"
	"budget/internal/services"
)

var (
	cfg   *config.Config
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:          "budget",
	Short:        "Track income and expenses by category",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := cli.LoadEnvFile(); err != nil {
			return err
		}
		loaded, err := cli.LoadAndValidateConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress log output on one-shot commands.")
}

// withTracker opens the configured store, loads the tracker and runs fn.
// Logs go to stderr so command output stays clean.
func withTracker(cmd *cobra.Command, fn func(ctx context.Context, t *services.Tracker) error) error {
	var logger *log.Logger
	if quiet {
		logger = cli.DiscardLogger()
	} else {
		logger = cli.SetupLogger(os.Stderr, cfg.LogLevel)
	}

	ctx := cmd.Context()
	tracker, cleanup, err := cli.OpenTracker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	return fn(ctx, tracker)
}
