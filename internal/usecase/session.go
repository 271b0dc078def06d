package usecase

import (
	"sync"
	"time"
)

// TokenSession holds the tracked token/pool for the process. The pool
// address is preferred for attribution when known, because swaps execute
// against the pool, not the mint.
type TokenSession struct {
	mu        sync.RWMutex
	token     string
	pool      string
	trackedAt int64 // ms
}

// NewTokenSession creates an empty (untracked) session.
func NewTokenSession() *TokenSession {
	return &TokenSession{}
}

// Track switches the session to a new token. Pool may be empty.
func (s *TokenSession) Track(token, pool string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.pool = pool
	s.trackedAt = time.Now().UnixMilli()
}

// Clear untracks the current token.
func (s *TokenSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.pool = ""
	s.trackedAt = 0
}

// Token returns the tracked token mint, empty when untracked.
func (s *TokenSession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Pool returns the tracked pool address, empty when unknown.
func (s *TokenSession) Pool() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool
}

// Snapshot returns token and pool together, for fetches that must compare
// the token captured at request time against the active one afterwards.
func (s *TokenSession) Snapshot() (token, pool string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.pool
}

// TrackedAt returns when the current token was tracked, in ms.
func (s *TokenSession) TrackedAt() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackedAt
}
