package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/services"
)

var txDesc, txAmount, txCategory, txDate string

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Add, remove and list transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Args:  cobra.NoArgs,
	Short: "Record a transaction; a negative amount is an expense",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date := txDate
		if date == "" {
			date = core.Today().String()
		}
		return withTracker(cmd, func(ctx context.Context, t *services.Tracker) error {
			tx, err := t.AddTransaction(ctx, core.NewTransaction{
				Description: txDesc,
				Amount:      txAmount,
				Category:    txCategory,
				Date:        date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s (%s, %s)\n",
				tx.ID, tx.Description, core.FormatSigned(cfg.CurrencySymbol, tx.Amount), tx.Category, tx.Date)
			return nil
		})
	},
}

var txRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Args:  cobra.ExactArgs(1),
	Short: "Remove a transaction by id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTracker(cmd, func(ctx context.Context, t *services.Tracker) error {
			removed, err := t.RemoveTransaction(ctx, core.TransactionID(args[0]))
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction with id %s\n", args[0])
			}
			return nil
		})
	},
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List transactions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withTracker(cmd, func(_ context.Context, t *services.Tracker) error {
			return cli.RenderTransactions(cmd.OutOrStdout(), t.Newest(), cfg.CurrencySymbol)
		})
	},
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txAddCmd, txRmCmd, txListCmd)

	txAddCmd.Flags().StringVar(&txDesc, "desc", "", "Description.")
	txAddCmd.Flags().StringVar(&txAmount, "amount", "", "Amount, negative for an expense.")
	txAddCmd.Flags().StringVar(&txCategory, "category", "", "Existing category name.")
	txAddCmd.Flags().StringVar(&txDate, "date", "", "Date as YYYY-MM-DD, defaults to today.")
}
