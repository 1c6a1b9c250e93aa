package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/services"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Add a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, t *services.Tracker) error {
			name, err := t.AddCategory(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s\n", name)
			return nil
		})
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Args:  cobra.ExactArgs(1),
	Short: "Delete a category and move its transactions to " + core.FallbackCategory,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, t *services.Tracker) error {
			removed, moved, err := t.DeleteCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No category %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s, %d transaction(s) moved to %s\n",
				args[0], moved, core.FallbackCategory)
			return nil
		})
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(_ context.Context, t *services.Tracker) error {
			return cli.RenderCategories(cmd.OutOrStdout(), t.Categories())
		})
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryRmCmd, categoryListCmd)
}
