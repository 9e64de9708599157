package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ekrishihub/storefront/internal/storage"
	"go.uber.org/zap"
)

// Persistence keys
const (
	KeyToken = "token"
	KeyRole  = "role"
	KeyName  = "name"
	KeyUser  = "user"
)

var allKeys = []string{KeyToken, KeyRole, KeyName, KeyUser}

// ErrIncomplete is returned by Set for a credential missing its token or role
var ErrIncomplete = errors.New("credential requires a token and a role")

// Event is a store change notification
type Event int

// Events
const (
	EventSet Event = iota + 1
	EventCleared
)

func (e Event) String() string {
	switch e {
	case EventSet:
		return "set"
	case EventCleared:
		return "cleared"
	}
	return "unknown"
}

// Listener receives store change notifications
type Listener func(Event, Credential)

// Store reads and writes the credential through a durable Storage
type Store struct {
	storage storage.Storage
	logger  *zap.Logger

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a credential store
func NewStore(s storage.Storage, logger *zap.Logger) *Store {
	return &Store{
		storage:   s,
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// Get returns the stored credential. A token without a role reads as absent.
func (s *Store) Get(ctx context.Context) (Credential, bool, error) {
	tok, ok, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return Credential{}, false, fmt.Errorf("failed to read credential: %w", err)
	}
	if !ok || tok == "" {
		return Credential{}, false, nil
	}

	cred := Credential{Token: tok}

	if raw, ok, err := s.storage.Get(ctx, KeyUser); err != nil {
		return Credential{}, false, fmt.Errorf("failed to read profile: %w", err)
	} else if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &cred.Profile); err != nil {
			s.logger.Warn("Ignoring malformed profile snapshot", zap.Error(err))
			cred.Profile = Profile{}
		}
		cred.Profile.Role = ParseRole(string(cred.Profile.Role))
	}

	role, _, err := s.storage.Get(ctx, KeyRole)
	if err != nil {
		return Credential{}, false, fmt.Errorf("failed to read role: %w", err)
	}
	cred.Role = ParseRole(role)
	if cred.Role == "" {
		cred.Role = cred.Profile.Role
	}
	if !cred.Complete() {
		return Credential{}, false, nil
	}

	name, _, err := s.storage.Get(ctx, KeyName)
	if err != nil {
		return Credential{}, false, fmt.Errorf("failed to read name: %w", err)
	}
	cred.DisplayName = name

	return cred, true, nil
}

// Role returns the last known role even when the token is gone
func (s *Store) Role(ctx context.Context) Role {
	if raw, ok, err := s.storage.Get(ctx, KeyRole); err == nil && ok {
		if r := ParseRole(raw); r != "" {
			return r
		}
	}
	if raw, ok, err := s.storage.Get(ctx, KeyUser); err == nil && ok {
		var p Profile
		if json.Unmarshal([]byte(raw), &p) == nil {
			return ParseRole(string(p.Role))
		}
	}
	return ""
}

// Set persists a credential and notifies listeners
func (s *Store) Set(ctx context.Context, cred Credential) error {
	cred.Role = ParseRole(string(cred.Role))
	if !cred.Complete() {
		return ErrIncomplete
	}
	if cred.Profile.Role == "" {
		cred.Profile.Role = cred.Role
	}

	profile, err := json.Marshal(cred.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	// role before token so a crash between writes never leaves a token without a role
	if err := s.storage.Set(ctx, KeyRole, string(cred.Role)); err != nil {
		return fmt.Errorf("failed to store role: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, string(profile)); err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	if cred.DisplayName != "" {
		if err := s.storage.Set(ctx, KeyName, cred.DisplayName); err != nil {
			return fmt.Errorf("failed to store name: %w", err)
		}
	} else if err := s.storage.Delete(ctx, KeyName); err != nil {
		return fmt.Errorf("failed to clear name: %w", err)
	}
	if err := s.storage.Set(ctx, KeyToken, cred.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	s.logger.Debug("Credential stored", zap.String("role", string(cred.Role)))
	s.publish(EventSet, cred)
	return nil
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, allKeys...); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	s.publish(EventCleared, Credential{})
	return nil
}

// Subscribe registers a listener and returns a function removing it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(ev Event, cred Credential) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev, cred)
	}
}
