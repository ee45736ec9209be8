package auth

import (
	"context"
	"time"

	appErrors "github.com/fatali-fataliyev/club_treasury/errors"
)

const DefaultSessionTTL = 24 * time.Hour

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// AllowedPhone is one row of the allowed-phones snapshot.
type AllowedPhone struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Status      Status `json:"status"`
}

func (p AllowedPhone) IsActive() bool {
	return p.Status == StatusActive
}

type Session struct {
	ID              string
	Token           string
	PhoneNumber     string
	AuthenticatedAt time.Time
}

// SessionStore keeps sessions keyed by token. Implementations must be safe
// for concurrent use.
type SessionStore interface {
	SaveSession(ctx context.Context, session Session) error
	GetSessionByToken(ctx context.Context, token string) (Session, bool, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

var (
	ErrSessionInvalid = appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "invalid session",
	}
	ErrSessionExpired = appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "session expired",
	}
	ErrPhoneRequired = appErrors.ErrorResponse{
		Code:    appErrors.ErrInvalidInput,
		Message: "phone number is required",
	}
	ErrPhoneNotAllowed = appErrors.ErrorResponse{
		Code:    appErrors.ErrAccessDenied,
		Message: "access denied: this phone number is not authorized to use this application",
	}
)
