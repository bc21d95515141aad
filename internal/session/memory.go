package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for development and tests. It is
// the in-memory twin of RedisStore and is safe for concurrent use across
// different chat ids.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the chat's session, or nil when none is active.
func (m *MemoryStore) Get(_ context.Context, chatID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[chatID]
	if !ok {
		return nil, nil
	}
	// Copy so callers never mutate stored state without a Put.
	cp := &Session{ChatID: s.ChatID, State: s.State, Scratch: make(map[string]string, len(s.Scratch))}
	for k, v := range s.Scratch {
		cp.Scratch[k] = v
	}
	return cp, nil
}

// Put stores the session, replacing any previous one for the chat.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ChatID] = s
	return nil
}

// Clear removes the chat's session. Clearing an absent session is a no-op.
func (m *MemoryStore) Clear(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
	return nil
}
