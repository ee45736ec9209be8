package budget

import (
	"context"
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/fatali-fataliyev/club_treasury/errors"
	"github.com/fatali-fataliyev/club_treasury/internal/auth"
)

// Treasury ties together the allow-list, the session registry and the
// transaction read model behind the portal's operations.
type Treasury struct {
	allowlist *auth.Allowlist
	sessions  *auth.Registry
	ledger    *Ledger
}

func NewTreasury(allowlist *auth.Allowlist, sessions *auth.Registry, ledger *Ledger) *Treasury {
	return &Treasury{
		allowlist: allowlist,
		sessions:  sessions,
		ledger:    ledger,
	}
}

// Login admits an allow-listed phone number and returns a session token.
// An unreadable allow-list is reported as a denial.
func (t *Treasury) Login(ctx context.Context, phoneNumber string) (string, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" || auth.NormalizePhone(phoneNumber) == "" {
		return "", auth.ErrPhoneRequired
	}

	if !t.allowlist.IsAllowed(ctx, phoneNumber) {
		return "", auth.ErrPhoneNotAllowed
	}

	token, err := t.sessions.CreateSession(ctx, phoneNumber)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return token, nil
}

func (t *Treasury) CheckSession(ctx context.Context, token string) (auth.Session, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Session{}, appErrors.New(appErrors.ErrInvalidInput, "session token is required")
	}
	return t.sessions.ValidateSession(ctx, token)
}

func (t *Treasury) ListTransactions(ctx context.Context, filter TypeFilter) ([]Transaction, error) {
	ts, err := t.ledger.ListTransactions(ctx)
	if err != nil {
		return []Transaction{}, err
	}
	return FilterTransactions(ts, filter), nil
}

func (t *Treasury) Summary(ctx context.Context) (Summary, error) {
	ts, err := t.ledger.ListTransactions(ctx)
	if err != nil {
		return Summarize(nil), err
	}
	return Summarize(ts), nil
}

func (t *Treasury) AllowedPhones(ctx context.Context) ([]auth.AllowedPhone, error) {
	phones, err := t.allowlist.Records(ctx)
	if err != nil {
		return []auth.AllowedPhone{}, fmt.Errorf("%w: %w", appErrors.New(appErrors.ErrBackingStore, "failed to read allowed phones"), err)
	}
	return phones, nil
}

// AllowedNumbers lists the normalized active numbers in ascending order.
func (t *Treasury) AllowedNumbers(ctx context.Context) ([]string, error) {
	set, err := t.allowlist.AllowedNumbers(ctx)
	if err != nil {
		return []string{}, fmt.Errorf("%w: %w", appErrors.New(appErrors.ErrBackingStore, "failed to read allowed phones"), err)
	}
	numbers := make([]string, 0, len(set))
	for n := range set {
		numbers = append(numbers, n)
	}
	sort.Strings(numbers)
	return numbers, nil
}

func (t *Treasury) IsAllowed(ctx context.Context, phoneNumber string) bool {
	return t.allowlist.IsAllowed(ctx, phoneNumber)
}
