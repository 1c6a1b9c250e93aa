package core

import "strings"

// Report is the budget summary printed by the "generate report" action.
type Report struct {
	Totals    Totals
	Breakdown Breakdown
}

// BuildReport aggregates txs into a Report.
func BuildReport(txs []Transaction) Report {
	return Report{
		Totals:    ComputeTotals(txs),
		Breakdown: ExpenseByCategory(txs),
	}
}

// Text renders the report as plain text. Expense is shown as a positive
// magnitude; balance is income plus the (negative) expense total.
func (r Report) Text(symbol string) string {
	var b strings.Builder
	b.WriteString("Budget Report\n\n")
	b.WriteString("Total Income: " + FormatMoney(symbol, r.Totals.Income) + "\n")
	b.WriteString("Total Expense: " + FormatMagnitude(symbol, r.Totals.Expense) + "\n")
	b.WriteString("Balance: " + FormatMoney(symbol, r.Totals.Balance) + "\n\n")
	b.WriteString("Expense Breakdown by Category:\n")
	for _, row := range r.Breakdown.Rows {
		b.WriteString(row.Name + ": " + FormatMoney(symbol, row.Amount) + "\n")
	}
	return b.String()
}
