package api

import (
	"errors"
	"net/http"

	appErrors "github.com/fatali-fataliyev/club_treasury/errors"
	"github.com/fatali-fataliyev/club_treasury/internal/auth"
	"github.com/fatali-fataliyev/club_treasury/internal/budget"
)

// REQUESTS START:
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type CheckSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

//REQUESTS END:

//RESPONSES:

type ErrorResponse struct {
	Error string `json:"error"`
}

type LoginResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"sessionToken"`
	PhoneNumber  string `json:"phoneNumber"`
	Message      string `json:"message"`
}

type CheckSessionResponse struct {
	Success         bool   `json:"success"`
	PhoneNumber     string `json:"phoneNumber"`
	AuthenticatedAt int64  `json:"authenticatedAt"` // unix milliseconds
}

type TransactionItem struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
	Type        string  `json:"type"`
}

type ListTransactionResponse struct {
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
	Transactions []TransactionItem `json:"transactions"`
}

type SummaryItem struct {
	TotalCollected float64 `json:"totalCollected"`
	TotalExpenses  float64 `json:"totalExpenses"`
	CurrentBalance float64 `json:"currentBalance"`
	Count          int     `json:"count"`
}

type SummaryResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Summary SummaryItem `json:"summary"`
}

type AllowedPhonesResponse struct {
	Success       bool                `json:"success"`
	Error         string              `json:"error,omitempty"`
	AllowedPhones []auth.AllowedPhone `json:"allowedPhones"`
}

func httpStatusFromError(err error) int {
	var appErr appErrors.ErrorResponse
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case appErrors.ErrNotFound:
		return http.StatusNotFound
	case appErrors.ErrInvalidInput:
		return http.StatusBadRequest
	case appErrors.ErrAuth:
		return http.StatusUnauthorized
	case appErrors.ErrAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the message of an application error, or fallback
// for anything that must not leak to the caller.
func clientMessage(err error, fallback string) string {
	var appErr appErrors.ErrorResponse
	if errors.As(err, &appErr) && httpStatusFromError(err) < http.StatusInternalServerError {
		return appErr.Message
	}
	return fallback
}

func TransactionToHttp(t budget.Transaction) TransactionItem {
	return TransactionItem{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.InexactFloat64(),
		Balance:     t.Balance.InexactFloat64(),
		Type:        string(t.Type),
	}
}

func SummaryToHttp(s budget.Summary) SummaryItem {
	return SummaryItem{
		TotalCollected: s.TotalCollected.InexactFloat64(),
		TotalExpenses:  s.TotalExpenses.InexactFloat64(),
		CurrentBalance: s.CurrentBalance.InexactFloat64(),
		Count:          s.Count,
	}
}
