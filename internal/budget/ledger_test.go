package budget

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/fatali-fataliyev/club_treasury/errors"
	"github.com/fatali-fataliyev/club_treasury/internal/records"
	"github.com/fatali-fataliyev/club_treasury/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

const transactionsCSV = `date,description,amount,type
Jan 14 2024,Monthly Dues - January,$2500.00,income
Jan 17 2024,Bike Maintenance Fund,800,
Jan 24 2024,Fuel for Group Ride,-150,
Jan 25 2024,Club Patches,"$1,200.50",Expense
Jan 26 2024,Broken Row,12
Jan 31 2024,Club Merchandise Sales,650.00,income
`

func newTestLedger(body string) *Ledger {
	src := storage.NewMemorySource()
	src.Put("transactions.csv", body)
	return NewLedger(src, "transactions.csv")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "$1,200.50", want: "1200.5"},
		{raw: "-150", want: "-150"},
		{raw: "-$150.00", want: "-150"},
		{raw: "+45.10", want: "45.1"},
		{raw: "COP 1,000,000", want: "1000000"},
		{raw: " 7 ", want: "7"},
		{raw: "$-150", want: "-150"},
		{raw: "1 200.50", want: "1200.5"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, raw := range []string{"", "$", "abc", "1.2.3", "-", "12abc34", "1.200,50", "1,20", "100 USD", "--5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseAmount(raw)
			require.Error(t, err)
		})
	}
}

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name       string
		fields     []string
		wantAmount string
		wantType   TransactionType
	}{
		{name: "positive without hint", fields: []string{"d", "dues", "$1,200.50", ""}, wantAmount: "1200.50", wantType: TypeIncome},
		{name: "negative without hint", fields: []string{"d", "fuel", "-150", ""}, wantAmount: "150", wantType: TypeExpense},
		{name: "expense hint any case", fields: []string{"d", "patches", "80", "EXPENSE"}, wantAmount: "80", wantType: TypeExpense},
		{name: "income hint with negative amount", fields: []string{"d", "refund", "-20", "income"}, wantAmount: "20", wantType: TypeExpense},
		{name: "unknown hint", fields: []string{"d", "misc", "5", "other"}, wantAmount: "5", wantType: TypeIncome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTransaction(7, tt.fields)
			require.NoError(t, err)
			assert.Equal(t, "7", got.ID)
			assert.True(t, dec(tt.wantAmount).Equal(got.Amount), "amount %s", got.Amount)
			assert.False(t, got.Amount.IsNegative())
			assert.Equal(t, tt.wantType, got.Type)
		})
	}
}

func TestNewTransactionShortRow(t *testing.T) {
	_, err := NewTransaction(1, []string{"d", "x", "1"})
	require.Error(t, err)
}

func TestListTransactions(t *testing.T) {
	ledger := newTestLedger(transactionsCSV)

	ts, err := ledger.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 5)

	ids := make([]string, 0, len(ts))
	for _, tr := range ts {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "6"}, ids)

	assert.Equal(t, "Monthly Dues - January", ts[0].Description)
	assert.Equal(t, TypeIncome, ts[1].Type)
	assert.Equal(t, TypeExpense, ts[2].Type)
	assert.True(t, dec("150").Equal(ts[2].Amount))
	assert.Equal(t, TypeExpense, ts[3].Type)
	assert.True(t, dec("1200.50").Equal(ts[3].Amount))

	wantBalances := []string{"2500", "3300", "3150", "1949.50", "2599.50"}
	for i, want := range wantBalances {
		assert.True(t, dec(want).Equal(ts[i].Balance), "row %d balance %s, want %s", i, ts[i].Balance, want)
	}
}

func TestListTransactionsDropsUnparseableAmount(t *testing.T) {
	ledger := newTestLedger("date,description,amount,type\n" +
		"Jan 1,Bad,n/a,income\n" +
		"Jan 2,Good,10,income\n" +
		"Jan 3,Mixed,12abc34,income\n" +
		"Jan 4,European,\"1.200,50\",income\n")

	ts, err := ledger.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "2", ts[0].ID)
}

func TestListTransactionsMissingFile(t *testing.T) {
	ledger := NewLedger(storage.NewMemorySource(), "transactions.csv")

	ts, err := ledger.ListTransactions(context.Background())
	require.Error(t, err)
	assert.NotNil(t, ts)
	assert.Empty(t, ts)
	assert.True(t, errors.Is(err, records.ErrIOFailure))

	var appErr appErrors.ErrorResponse
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrBackingStore, appErr.Code)
}

func TestSummarize(t *testing.T) {
	ledger := newTestLedger(transactionsCSV)
	ts, err := ledger.ListTransactions(context.Background())
	require.NoError(t, err)

	s := Summarize(ts)
	assert.Equal(t, 5, s.Count)
	assert.True(t, dec("3950").Equal(s.TotalCollected), "collected %s", s.TotalCollected)
	assert.True(t, dec("1350.50").Equal(s.TotalExpenses), "expenses %s", s.TotalExpenses)
	assert.True(t, dec("2599.50").Equal(s.CurrentBalance), "balance %s", s.CurrentBalance)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.CurrentBalance.IsZero())
}

func TestParseTypeFilter(t *testing.T) {
	tests := []struct {
		raw     string
		want    TypeFilter
		wantErr bool
	}{
		{raw: "", want: FilterAll},
		{raw: "all", want: FilterAll},
		{raw: "Income", want: FilterIncome},
		{raw: "expense", want: FilterExpense},
		{raw: "expenses", want: FilterExpense},
		{raw: "refunds", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTypeFilter(tt.raw)
			if tt.wantErr {
				var appErr appErrors.ErrorResponse
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, appErrors.ErrInvalidInput, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterTransactions(t *testing.T) {
	ledger := newTestLedger(transactionsCSV)
	ts, err := ledger.ListTransactions(context.Background())
	require.NoError(t, err)

	assert.Len(t, FilterTransactions(ts, FilterAll), 5)
	assert.Len(t, FilterTransactions(ts, FilterIncome), 3)

	expenses := FilterTransactions(ts, FilterExpense)
	require.Len(t, expenses, 2)
	assert.True(t, dec("3150").Equal(expenses[0].Balance), "balance is kept from the full ledger")
}
