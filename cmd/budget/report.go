package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/services"
)

var chartWidth int

var reportCmd = &cobra.Command{
	Use:   "report",
	Args:  cobra.NoArgs,
	Short: "Print the summary report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(_ context.Context, t *services.Tracker) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), t.Report().Text(cfg.CurrencySymbol))
			return err
		})
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Args:  cobra.NoArgs,
	Short: "Draw expenses by category as bars",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(_ context.Context, t *services.Tracker) error {
			snap := t.Snapshot()
			return cli.RenderChart(cmd.OutOrStdout(), snap.Report.Breakdown, len(snap.Transactions), cfg.CurrencySymbol, chartWidth)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd, chartCmd)

	chartCmd.Flags().IntVar(&chartWidth, "width", cli.DefaultChartWidth, "Length of the longest bar.")
}
