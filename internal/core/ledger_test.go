package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, amount, category string) Transaction {
	return Transaction{
		ID:          TransactionID(id),
		Description: "t-" + id,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        NewDate(2024, 1, 1),
	}
}

func scenarioLedger() *Ledger {
	return NewLedger([]Transaction{
		tx("1", "1000", "Income"),
		tx("2", "-200", "Food"),
		tx("3", "-50", "Food"),
		tx("4", "-100", "Transportation"),
	})
}

func TestLedgerTotalsScenario(t *testing.T) {
	l := scenarioLedger()

	assert.True(t, l.TotalIncome().Equal(decimal.NewFromInt(1000)))
	assert.True(t, l.TotalExpense().Equal(decimal.NewFromInt(-350)))
	assert.True(t, l.TotalExpense().Abs().Equal(decimal.NewFromInt(350)))
	assert.True(t, l.TotalBalance().Equal(decimal.NewFromInt(650)))

	totals := l.Totals()
	assert.True(t, totals.Balance.Equal(l.TotalBalance()))
	assert.True(t, totals.Income.Equal(l.TotalIncome()))
	assert.True(t, totals.Expense.Equal(l.TotalExpense()))
}

func TestLedgerZeroAmountIsKeptButNotCounted(t *testing.T) {
	l := NewLedger([]Transaction{tx("z", "0", "Other")})

	assert.Equal(t, 1, l.Len())
	assert.True(t, l.TotalIncome().IsZero())
	assert.True(t, l.TotalExpense().IsZero())
	assert.True(t, ExpenseByCategory(l.Transactions()).Empty())
}

func TestLedgerAppendRejectsDuplicateID(t *testing.T) {
	l := scenarioLedger()
	err := l.Append(tx("2", "-1", "Food"))
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Equal(t, 4, l.Len())
}

func TestLedgerRemove(t *testing.T) {
	l := scenarioLedger()

	assert.False(t, l.Remove("missing"), "absent id is a no-op")
	assert.Equal(t, 4, l.Len())

	assert.True(t, l.Remove("3"))
	assert.False(t, l.Contains("3"))
	assert.Equal(t, 3, l.Len())
	assert.True(t, l.TotalExpense().Equal(decimal.NewFromInt(-300)))
}

func TestLedgerOrdering(t *testing.T) {
	l := scenarioLedger()

	oldest := l.Transactions()
	newest := l.Newest()
	require.Len(t, newest, 4)
	assert.Equal(t, TransactionID("1"), oldest[0].ID)
	assert.Equal(t, TransactionID("4"), newest[0].ID)
	assert.Equal(t, TransactionID("1"), newest[3].ID)

	// Returned slices are copies.
	newest[0].Category = "changed"
	got, _ := l.Find("4")
	assert.Equal(t, "Transportation", got.Category)
}

func TestLedgerReassignAndClone(t *testing.T) {
	l := scenarioLedger()
	c := l.Clone()

	n := c.Reassign("Food", FallbackCategory)
	assert.Equal(t, 2, n)

	orig, _ := l.Find("2")
	assert.Equal(t, "Food", orig.Category, "clone must not share storage")
	moved, _ := c.Find("2")
	assert.Equal(t, FallbackCategory, moved.Category)
}

func randomTransaction(f *gofakeit.Faker, id int) Transaction {
	cents := int64(f.IntRange(-500000, 500000))
	return Transaction{
		ID:          TransactionID(fmt.Sprintf("id-%d", id)),
		Description: f.Sentence(3),
		Amount:      decimal.New(cents, -2),
		Category:    f.RandomString([]string{"Food", "Housing", "Income", "Other"}),
		Date:        NewDate(f.IntRange(2000, 2030), f.IntRange(1, 12), f.IntRange(1, 28)),
	}
}

func TestLedgerPropertiesRandomized(t *testing.T) {
	f := gofakeit.New(42)

	for round := 0; round < 50; round++ {
		l := NewLedger(nil)
		n := f.IntRange(0, 40)
		for i := 0; i < n; i++ {
			require.NoError(t, l.Append(randomTransaction(f, round*1000+i)))
		}

		// Balance identity under the negative-expense convention.
		assert.True(t, l.TotalBalance().Equal(l.TotalIncome().Add(l.TotalExpense())),
			"round %d: balance != income + expense", round)
		assert.False(t, l.TotalExpense().IsPositive())
		assert.False(t, l.TotalIncome().IsNegative())

		// Breakdown never holds zero or negative totals, and sums to |expense|.
		b := ExpenseByCategory(l.Transactions())
		total := decimal.Zero
		for _, row := range b.Rows {
			assert.True(t, row.Amount.IsPositive(), "row %s has non-positive total", row.Name)
			total = total.Add(row.Amount)
		}
		assert.True(t, total.Equal(l.TotalExpense().Abs()))

		// Add then remove restores the prior state.
		before := l.Transactions()
		added := randomTransaction(f, -1-round)
		require.NoError(t, l.Append(added))
		assert.True(t, l.Remove(added.ID))
		require.Equal(t, len(before), l.Len())
		if len(before) > 0 {
			assert.Equal(t, before, l.Transactions())
		}
	}
}
