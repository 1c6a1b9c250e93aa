package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultChartTicks is the number of y-axis intervals on the expense chart.
const DefaultChartTicks = 5

// Totals holds the ledger aggregates. Expense is zero or negative.
type Totals struct {
	Balance decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Breakdown is the per-category expense total, largest first. Amounts are
// positive magnitudes. An empty breakdown means there is no expense data.
type Breakdown struct {
	Rows []CategoryAmount
}

// Bar is one column of the expense chart.
type Bar struct {
	Index         int
	Category      string
	Total         decimal.Decimal
	HeightPercent float64
}

// Chart is the scaled form of a Breakdown. Ticks run from the maximum total
// down to zero.
type Chart struct {
	Bars  []Bar
	Ticks []decimal.Decimal
	Max   decimal.Decimal
}

// ComputeTotals sums txs into balance, income and (negative) expense.
func ComputeTotals(txs []Transaction) Totals {
	return Totals{
		Balance: sum(txs, func(Transaction) bool { return true }),
		Income:  sum(txs, Transaction.IsIncome),
		Expense: sum(txs, Transaction.IsExpense),
	}
}

// ExpenseByCategory accumulates the magnitude of every negative amount per
// category. Categories without expenses are left out, and rows are sorted by
// total descending; ties keep the order in which categories first appear.
func ExpenseByCategory(txs []Transaction) Breakdown {
	totals := map[string]decimal.Decimal{}
	var order []string
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		cur, ok := totals[t.Category]
		if !ok {
			order = append(order, t.Category)
		}
		totals[t.Category] = cur.Add(t.Amount.Abs())
	}

	var rows []CategoryAmount
	for _, name := range order {
		if amt := totals[name]; amt.IsPositive() {
			rows = append(rows, CategoryAmount{Name: name, Amount: amt})
		}
	}
	slices.SortStableFunc(rows, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	return Breakdown{Rows: rows}
}

// Empty reports that there are no expense transactions at all.
func (b Breakdown) Empty() bool {
	return len(b.Rows) == 0
}

// Max returns the largest category total, or zero when empty.
func (b Breakdown) Max() decimal.Decimal {
	if b.Empty() {
		return decimal.Zero
	}
	return b.Rows[0].Amount
}

// Total returns the total for category.
func (b Breakdown) Total(category string) (decimal.Decimal, bool) {
	for _, r := range b.Rows {
		if r.Name == category {
			return r.Amount, true
		}
	}
	return decimal.Zero, false
}

// BarHeightPercent is 100 * total(category) / max(all totals).
func (b Breakdown) BarHeightPercent(category string) (float64, bool) {
	total, ok := b.Total(category)
	if !ok {
		return 0, false
	}
	return heightPercent(total, b.Max()), true
}

// Chart scales the breakdown into bars and y-axis ticks.
func (b Breakdown) Chart(ticks int) Chart {
	if b.Empty() {
		return Chart{}
	}
	if ticks <= 0 {
		ticks = DefaultChartTicks
	}
	top := b.Max()
	c := Chart{Max: top}
	for i := ticks; i >= 0; i-- {
		c.Ticks = append(c.Ticks, top.Mul(decimal.NewFromInt(int64(i))).Div(decimal.NewFromInt(int64(ticks))))
	}
	for i, r := range b.Rows {
		c.Bars = append(c.Bars, Bar{
			Index:         i,
			Category:      r.Name,
			Total:         r.Amount,
			HeightPercent: heightPercent(r.Amount, top),
		})
	}
	return c
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Bars) == 0
}

func heightPercent(total, top decimal.Decimal) float64 {
	if !top.IsPositive() {
		return 0
	}
	return total.Mul(decimal.NewFromInt(100)).Div(top).InexactFloat64()
}
