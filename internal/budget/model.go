package budget

import (
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Transaction is a row of the transactions snapshot. Amount is never
// negative; the direction lives in Type. Balance is the running
// income-minus-expense total up to and including this row, in file order.
type Transaction struct {
	ID          string
	Date        string
	Description string
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	Type        TransactionType
}

type Summary struct {
	TotalCollected decimal.Decimal
	TotalExpenses  decimal.Decimal
	CurrentBalance decimal.Decimal
	Count          int
}

// TypeFilter selects which transactions a listing returns. The zero value
// returns everything.
type TypeFilter string

const (
	FilterAll     TypeFilter = ""
	FilterIncome  TypeFilter = TypeFilter(TypeIncome)
	FilterExpense TypeFilter = TypeFilter(TypeExpense)
)

func (f TypeFilter) Matches(t Transaction) bool {
	return f == FilterAll || TransactionType(f) == t.Type
}
