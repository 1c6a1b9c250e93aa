package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"budget/internal/core"
)

// DefaultChartWidth is the length of the longest bar in characters.
const DefaultChartWidth = 40

// Empty-state messages, worded as on the web chart.
const (
	MsgNoData    = "No data to display"
	MsgNoExpense = "No expense data to display"
)

// RenderChart draws the expense breakdown as horizontal bars, largest
// first. txCount distinguishes an empty ledger from one without expenses.
func RenderChart(w io.Writer, b core.Breakdown, txCount int, symbol string, width int) error {
	if txCount == 0 {
		_, err := fmt.Fprintln(w, MsgNoData)
		return err
	}
	chart := b.Chart(core.DefaultChartTicks)
	if chart.Empty() {
		_, err := fmt.Fprintln(w, MsgNoExpense)
		return err
	}
	if width <= 0 {
		width = DefaultChartWidth
	}

	labelWidth := 0
	for _, bar := range chart.Bars {
		labelWidth = max(labelWidth, len([]rune(bar.Category)))
	}

	for _, bar := range chart.Bars {
		n := int(math.Round(bar.HeightPercent / 100 * float64(width)))
		if n == 0 && bar.Total.IsPositive() {
			n = 1
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(bar.Category)))
		if _, err := fmt.Fprintf(w, "%s%s | %s %s\n", bar.Category, pad, strings.Repeat("#", n), core.FormatMoney(symbol, bar.Total)); err != nil {
			return err
		}
	}
	return nil
}

// RenderTransactions prints the ledger newest first as an aligned table.
func RenderTransactions(w io.Writer, txs []core.Transaction, symbol string) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, "No transactions")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Category, core.FormatSigned(symbol, tx.Amount), tx.Description)
	}
	return tw.Flush()
}

// RenderCategories prints one category per line, marking the fallback.
func RenderCategories(w io.Writer, names []string) error {
	for _, name := range names {
		line := name
		if name == core.FallbackCategory {
			line += " (fallback)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
