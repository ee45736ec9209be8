package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatali-fataliyev/club_treasury/logging"
	"github.com/google/uuid"
)

const tokenBytes = 32

// Registry issues and validates session tokens. A session lives for a
// fixed TTL counted from login; activity does not extend it. Expired
// sessions are evicted when they are next looked up, or by Sweep.
type Registry struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

func NewRegistry(store SessionStore, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		store: store,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source. Used by tests.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// CreateSession stores a new session for phone and returns its token.
// Tokens are not checked against existing ones; a collision overwrites.
func (r *Registry) CreateSession(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrPhoneRequired
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate new session: %w", err)
	}

	session := Session{
		ID:              uuid.New().String(),
		Token:           token,
		PhoneNumber:     phone,
		AuthenticatedAt: r.now(),
	}
	if err := r.store.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return token, nil
}

// ValidateSession returns the session behind token, ErrSessionInvalid when
// there is none, or ErrSessionExpired when it outlived the TTL. An expired
// session is deleted, so the next lookup reports ErrSessionInvalid.
func (r *Registry) ValidateSession(ctx context.Context, token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrSessionInvalid
	}

	session, ok, err := r.store.GetSessionByToken(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session by token: %w", err)
	}
	if !ok {
		return Session{}, ErrSessionInvalid
	}

	if r.now().Sub(session.AuthenticatedAt) > r.ttl {
		if err := r.store.DeleteSession(ctx, token); err != nil {
			logging.Logger.WithError(err).Warn("failed to evict expired session")
		}
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// Sweep deletes every session that has outlived the TTL.
func (r *Registry) Sweep(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.ttl)
	n, err := r.store.DeleteSessionsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep sessions: %w", err)
	}
	return n, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Sweep(ctx)
			if err != nil {
				logging.Logger.WithError(err).Error("session sweep failed")
				continue
			}
			if n > 0 {
				logging.Logger.WithField("evicted", n).Debug("expired sessions swept")
			}
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
