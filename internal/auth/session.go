package auth

import (
	"sync"
	"time"
)

// Session is the ephemeral client-side authentication state: the raw token
// plus its decoded claims. It is never persisted.
type Session struct {
	Token  string
	Claims *Claims
}

// SessionStore holds at most one session per browser context (session key).
// The authentication flow is its only writer; guards and handlers only read.
// Writes are serialized per store, which is the discipline a concurrent
// server port needs where the original single-threaded client had none.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	eval     Evaluator
}

func NewSessionStore(eval Evaluator) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		eval:     eval,
	}
}

// Set replaces any existing session for the key in a single assignment; a
// reader observes either the old session or the new one, never a partial
// state.
func (s *SessionStore) Set(key, token string, claims *Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = Session{Token: token, Claims: claims}
}

// Clear removes the session and all derived state. Idempotent.
func (s *SessionStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Current returns the held session, or nil when none is held.
func (s *SessionStore) Current(key string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[key]; ok {
		return &sess
	}
	return nil
}

// IsAuthenticated is true exactly when a non-expired token is held.
func (s *SessionStore) IsAuthenticated(key string, now time.Time) bool {
	sess := s.Current(key)
	return sess != nil && !s.eval.IsExpired(sess.Claims, now)
}
