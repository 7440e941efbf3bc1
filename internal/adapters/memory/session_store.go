package memory

import (
	"context"
	"sync"
	"time"

	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// SessionStore keeps sessions in process memory
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]shared.Session
	now      func() time.Time
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]shared.Session),
		now:      time.Now,
	}
}

// Create starts a session for userID
func (store *SessionStore) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*shared.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session := shared.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: store.now().Add(ttl),
	}
	store.sessions[session.Token] = session
	return &session, nil
}

// Get returns the live session for token
func (store *SessionStore) Get(ctx context.Context, token string) (*shared.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.sessions[token]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	if !store.now().Before(session.ExpiresAt) {
		delete(store.sessions, token)
		return nil, shared.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session for token
func (store *SessionStore) Delete(ctx context.Context, token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, token)
	return nil
}
