package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	authModel "github.com/fatali-fataliyev/club_treasury/internal/auth"
)

var _ authModel.SessionStore = (*InMemorySessionStore)(nil)

// InMemorySessionStore keeps sessions for the lifetime of the process.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]authModel.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]authModel.Session),
	}
}

// GetStorageType names the backend for startup logs.
func (inMem *InMemorySessionStore) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemorySessionStore) SaveSession(ctx context.Context, session authModel.Session) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.sessions[strings.TrimSpace(session.Token)] = session
	return nil
}

func (inMem *InMemorySessionStore) GetSessionByToken(ctx context.Context, token string) (authModel.Session, bool, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	session, ok := inMem.sessions[strings.TrimSpace(token)]
	return session, ok, nil
}

// DeleteSession is idempotent; deleting an absent token is not an error.
func (inMem *InMemorySessionStore) DeleteSession(ctx context.Context, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	delete(inMem.sessions, strings.TrimSpace(token))
	return nil
}

func (inMem *InMemorySessionStore) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	var deleted int
	for token, session := range inMem.sessions {
		if session.AuthenticatedAt.Before(cutoff) {
			delete(inMem.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

func (inMem *InMemorySessionStore) Len() int {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	return len(inMem.sessions)
}
