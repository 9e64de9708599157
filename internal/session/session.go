// Package session holds the live, in-memory view of who is signed in.
// Durable state lives in the credential store; this mirrors it for the running process.
package session

import (
	"context"
	"sync"

	"github.com/ekrishihub/storefront/internal/credential"
	"go.uber.org/zap"
)

// Snapshot is a copy of the session state
type Snapshot struct {
	Authenticated bool            `json:"authenticated"`
	Role          credential.Role `json:"role,omitempty"`
	DisplayName   string          `json:"displayName,omitempty"`
	Email         string          `json:"email,omitempty"`
}

// State is the live session
type State struct {
	mu     sync.RWMutex
	snap   Snapshot
	logger *zap.Logger
}

// New creates an empty, signed-out session
func New(logger *zap.Logger) *State {
	return &State{logger: logger}
}

// Login records a signed-in credential
func (s *State) Login(cred credential.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{
		Authenticated: true,
		Role:          cred.Role,
		DisplayName:   cred.DisplayName,
		Email:         cred.Profile.Email,
	}
}

// Logout resets to the signed-out state. Safe to call repeatedly.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Authenticated {
		s.logger.Info("Session ended", zap.String("role", string(s.snap.Role)))
	}
	s.snap = Snapshot{}
}

// Role returns the live role, or "" when signed out or not yet hydrated
func (s *State) Role() credential.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.snap.Authenticated {
		return ""
	}
	return s.snap.Role
}

// Snapshot returns a copy of the current state
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Hydrate re-derives the live state from durable storage
func (s *State) Hydrate(ctx context.Context, store *credential.Store) error {
	cred, ok, err := store.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.Logout()
		return nil
	}
	s.Login(cred)
	s.logger.Info("Session restored", zap.String("role", string(cred.Role)))
	return nil
}

// Observe is a credential.Listener keeping the live state in step with the store
func (s *State) Observe(ev credential.Event, cred credential.Credential) {
	switch ev {
	case credential.EventSet:
		s.Login(cred)
	case credential.EventCleared:
		s.Logout()
	}
}
