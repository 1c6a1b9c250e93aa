package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// pageView is everything the templates render, formatted once per tracker
// revision and cached.
type pageView struct {
	Revision        uint64
	Balance         string
	BalanceNegative bool
	Income          string
	Expense         string
	Transactions    []transactionView
	Categories      []string
	Fallback        string
	Chart           chartView
}

type transactionView struct {
	ID          string
	Description string
	Amount      string
	Category    string
	Date        string
	Income      bool
}

type chartView struct {
	NoData    bool
	NoExpense bool
	Ticks     []string
	Bars      []barView
}

type barView struct {
	Index    int
	Category string
	Total    string
	Style    template.CSS
}

func buildPageView(symbol string, snap services.Snapshot) *pageView {
	totals := snap.Report.Totals
	v := &pageView{
		Revision:        snap.Revision,
		Balance:         core.FormatMoney(symbol, totals.Balance),
		BalanceNegative: totals.Balance.Round(2).IsNegative(),
		Income:          core.FormatMoney(symbol, totals.Income),
		Expense:         core.FormatMagnitude(symbol, totals.Expense),
		Categories:      snap.Categories,
		Fallback:        core.FallbackCategory,
	}
	for _, tx := range snap.Transactions {
		v.Transactions = append(v.Transactions, transactionView{
			ID:          string(tx.ID),
			Description: tx.Description,
			Amount:      core.FormatSigned(symbol, tx.Amount),
			Category:    tx.Category,
			Date:        tx.Date.String(),
			Income:      !tx.IsExpense(),
		})
	}

	switch chart := snap.Report.Breakdown.Chart(core.DefaultChartTicks); {
	case len(snap.Transactions) == 0:
		v.Chart.NoData = true
	case chart.Empty():
		v.Chart.NoExpense = true
	default:
		for _, t := range chart.Ticks {
			v.Chart.Ticks = append(v.Chart.Ticks, formatTick(symbol, t))
		}
		for _, b := range chart.Bars {
			v.Chart.Bars = append(v.Chart.Bars, barView{
				Index:    b.Index,
				Category: b.Category,
				Total:    core.FormatMoney(symbol, b.Total),
				Style:    template.CSS(fmt.Sprintf("height: %.2f%%", b.HeightPercent)),
			})
		}
	}
	return v
}

// formatTick labels the chart axis in whole units.
func formatTick(symbol string, d decimal.Decimal) string {
	s := d.StringFixed(0)
	if symbol == "" {
		return s
	}
	return symbol + " " + s
}

// writeServiceError maps tracker errors onto responses: rejected input is
// 422 with the reason, anything else is a 500 that does not leak details.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rejected input",
			log.FieldOperation, op,
			"field", verr.Field,
			log.FieldError, verr.Reason,
			log.FieldErrorType, log.ErrorTypeValidation)
		UnprocessableEntityError(validationMessage(verr)).Write(w)
		return
	}

	log.FromContext(r.Context()).ErrorContext(r.Context(), "Write failed",
		log.FieldOperation, op,
		log.FieldError, err,
		log.FieldErrorType, log.ErrorTypeStorage)
	InternalServerError("Could not save, please try again").Write(w)
}

// validationMessage turns a ValidationError into a sentence for the user.
func validationMessage(verr *core.ValidationError) string {
	msg := verr.Reason
	if msg == "" {
		msg = verr.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
