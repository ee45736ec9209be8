package budget

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	appErrors "github.com/fatali-fataliyev/club_treasury/errors"
	"github.com/fatali-fataliyev/club_treasury/internal/records"
	"github.com/fatali-fataliyev/club_treasury/logging"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	colDate        = 0
	colDescription = 1
	colAmount      = 2
	colType        = 3
)

// Ledger is the read model over the transactions snapshot. Every call
// reads the snapshot again.
type Ledger struct {
	source records.Source
	file   string
}

func NewLedger(source records.Source, file string) *Ledger {
	return &Ledger{
		source: source,
		file:   file,
	}
}

// ListTransactions returns the snapshot rows in file order. On failure it
// returns an empty, non-nil slice with the error.
func (l *Ledger) ListTransactions(ctx context.Context) ([]Transaction, error) {
	table, err := records.Load(ctx, l.source, l.file, records.TransactionColumns)
	if err != nil {
		return []Transaction{}, fmt.Errorf("%w: %w", appErrors.New(appErrors.ErrBackingStore, "failed to read transactions"), err)
	}

	skipped := table.Skipped
	transactions := make([]Transaction, 0, len(table.Rows))
	balance := decimal.Zero
	for _, row := range table.Rows {
		t, err := NewTransaction(row.Ordinal, row.Fields)
		if err != nil {
			logging.Logger.WithError(err).WithField("row", row.Ordinal).Debug("dropping transaction row")
			skipped++
			continue
		}
		if t.Type == TypeExpense {
			balance = balance.Sub(t.Amount)
		} else {
			balance = balance.Add(t.Amount)
		}
		t.Balance = balance
		transactions = append(transactions, t)
	}

	if skipped > 0 {
		logging.Logger.WithFields(logrus.Fields{
			"source":  l.file,
			"skipped": skipped,
		}).Warn("dropped malformed transaction rows")
	}
	return transactions, nil
}

// NewTransaction builds a transaction from the fields of data row ordinal.
// The row is an expense when its type column says so or its amount is
// negative.
func NewTransaction(ordinal int, fields []string) (Transaction, error) {
	if len(fields) < records.TransactionColumns {
		return Transaction{}, fmt.Errorf("expected %d fields, got %d", records.TransactionColumns, len(fields))
	}

	amount, err := ParseAmount(fields[colAmount])
	if err != nil {
		return Transaction{}, err
	}

	tType := TypeIncome
	if strings.EqualFold(strings.TrimSpace(fields[colType]), string(TypeExpense)) || amount.IsNegative() {
		tType = TypeExpense
	}

	return Transaction{
		ID:          strconv.Itoa(ordinal),
		Date:        fields[colDate],
		Description: fields[colDescription],
		Amount:      amount.Abs(),
		Type:        tType,
	}, nil
}

// ParseAmount reads a signed amount such as "$1,200.50", "-150" or
// "COP 1,000,000". A leading sign, currency code, "$" and spaces are
// accepted before the number; commas are only valid as thousands
// separators. Anything else is an error.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	sign := ""
prefix:
	for s != "" {
		c := s[0]
		switch {
		case c == '-' || c == '+':
			if sign != "" {
				return decimal.Zero, fmt.Errorf("parsing amount %q: repeated sign", raw)
			}
			sign = string(c)
		case c == '$' || c == ' ' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
		default:
			break prefix
		}
		s = s[1:]
	}
	if s == "" {
		return decimal.Zero, fmt.Errorf("parsing amount %q: no digits", raw)
	}

	number := strings.ReplaceAll(s, " ", "")
	for _, r := range number {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return decimal.Zero, fmt.Errorf("parsing amount %q: unexpected character %q", raw, r)
		}
	}
	if !validGrouping(number) {
		return decimal.Zero, fmt.Errorf("parsing amount %q: misplaced thousands separator", raw)
	}

	amount, err := decimal.NewFromString(sign + strings.ReplaceAll(number, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return amount, nil
}

// validGrouping reports whether the commas in number split its integer
// part into groups of three digits.
func validGrouping(number string) bool {
	whole, frac, _ := strings.Cut(number, ".")
	if strings.Contains(frac, ",") {
		return false
	}
	groups := strings.Split(whole, ",")
	if len(groups) == 1 {
		return true
	}
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

// Summarize computes the dashboard totals of ts.
func Summarize(ts []Transaction) Summary {
	summary := Summary{
		TotalCollected: decimal.Zero,
		TotalExpenses:  decimal.Zero,
		Count:          len(ts),
	}
	for _, t := range ts {
		if t.Type == TypeExpense {
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		} else {
			summary.TotalCollected = summary.TotalCollected.Add(t.Amount)
		}
	}
	summary.CurrentBalance = summary.TotalCollected.Sub(summary.TotalExpenses)
	return summary
}

// ParseTypeFilter accepts "", "all", "income", "expense" and "expenses".
func ParseTypeFilter(raw string) (TypeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "income":
		return FilterIncome, nil
	case "expense", "expenses":
		return FilterExpense, nil
	default:
		return FilterAll, appErrors.New(appErrors.ErrInvalidInput, "invalid transaction type filter: %q", raw)
	}
}

func FilterTransactions(ts []Transaction, filter TypeFilter) []Transaction {
	if filter == FilterAll {
		return ts
	}
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
