package core

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Ledger is the ordered collection of transactions, oldest first.
//
// Sign convention: income totals are positive and expense totals are kept
// negative, so TotalBalance() == TotalIncome() + TotalExpense() always holds.
// Display code uses the magnitude of TotalExpense.
type Ledger struct {
	txs []Transaction
}

// NewLedger returns a ledger holding a copy of txs in the given order.
func NewLedger(txs []Transaction) *Ledger {
	return &Ledger{txs: slices.Clone(txs)}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// Contains reports whether a transaction with id exists.
func (l *Ledger) Contains(id TransactionID) bool {
	return l.index(id) >= 0
}

// Find returns the transaction with id.
func (l *Ledger) Find(id TransactionID) (Transaction, bool) {
	if i := l.index(id); i >= 0 {
		return l.txs[i], true
	}
	return Transaction{}, false
}

// Append adds t as the most recent transaction. The id must be unique.
func (l *Ledger) Append(t Transaction) error {
	if l.Contains(t.ID) {
		return ErrDuplicateID
	}
	l.txs = append(l.txs, t)
	return nil
}

// Remove deletes the transaction with id. It returns false when no such
// transaction exists, which is not an error.
func (l *Ledger) Remove(id TransactionID) bool {
	i := l.index(id)
	if i < 0 {
		return false
	}
	l.txs = slices.Delete(l.txs, i, i+1)
	return true
}

// Reassign moves every transaction tagged from to the category to and
// returns how many changed.
func (l *Ledger) Reassign(from, to string) int {
	n := 0
	for i := range l.txs {
		if l.txs[i].Category == from {
			l.txs[i].Category = to
			n++
		}
	}
	return n
}

// Transactions returns the transactions oldest first.
func (l *Ledger) Transactions() []Transaction {
	return slices.Clone(l.txs)
}

// Newest returns the transactions most recent first, for display.
func (l *Ledger) Newest() []Transaction {
	out := slices.Clone(l.txs)
	slices.Reverse(out)
	return out
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return NewLedger(l.txs)
}

// TotalBalance is the sum of all amounts.
func (l *Ledger) TotalBalance() decimal.Decimal {
	return sum(l.txs, func(Transaction) bool { return true })
}

// TotalIncome is the sum of positive amounts.
func (l *Ledger) TotalIncome() decimal.Decimal {
	return sum(l.txs, Transaction.IsIncome)
}

// TotalExpense is the sum of negative amounts; it is zero or negative.
func (l *Ledger) TotalExpense() decimal.Decimal {
	return sum(l.txs, Transaction.IsExpense)
}

// Totals returns all three aggregates at once.
func (l *Ledger) Totals() Totals {
	return ComputeTotals(l.txs)
}

func (l *Ledger) index(id TransactionID) int {
	return slices.IndexFunc(l.txs, func(t Transaction) bool { return t.ID == id })
}

func sum(txs []Transaction, keep func(Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if keep(t) {
			total = total.Add(t.Amount)
		}
	}
	return total
}
