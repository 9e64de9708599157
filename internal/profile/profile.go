// Package profile reads and edits the signed-in user's account details.
package profile

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ekrishihub/storefront/internal/auth"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/gateway"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
	"go.uber.org/zap"
)

var ErrNameRequired = errors.New("Name is required")

// User is the account as /users/me returns it
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Farmer is the farmer profile
type Farmer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Customer is the customer profile
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address,omitempty"`
}

// UpdateInput is an account edit
type UpdateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate trims and checks the edit
func (in *UpdateInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = auth.SanitizeEmail(in.Email)
	if in.Name == "" {
		return ErrNameRequired
	}
	if !auth.IsValidEmail(in.Email) {
		return errors.New("Please enter a valid email address")
	}
	return nil
}

// Service talks to the profile endpoints
type Service struct {
	client *gateway.Client
	store  *credential.Store
	logger *zap.Logger
}

// NewService creates a profile service
func NewService(client *gateway.Client, store *credential.Store, logger *zap.Logger) *Service {
	return &Service{client: client, store: store, logger: logger}
}

// Me returns the signed-in account
func (s *Service) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.client.Get(ctx, "/users/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits the account and refreshes the stored display name
func (s *Service) Update(ctx context.Context, in UpdateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
	}
	// the backend answers with a plain text acknowledgement
	if err := s.client.Put(ctx, "/users/me", in, nil); err != nil {
		return nil, err
	}

	s.refreshDisplayName(ctx, in.Name)
	return s.Me(ctx)
}

func (s *Service) refreshDisplayName(ctx context.Context, name string) {
	cred, ok, err := s.store.Get(ctx)
	if err != nil || !ok || cred.DisplayName == name {
		return
	}
	cred.DisplayName = name
	if err := s.store.Set(ctx, cred); err != nil {
		s.logger.Warn("Failed to refresh display name", zap.Error(err))
	}
}

// Farmer returns the farmer profile
func (s *Service) Farmer(ctx context.Context) (*Farmer, error) {
	var out Farmer
	if err := s.client.Get(ctx, "/farmer/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Customer returns the customer profile
func (s *Service) Customer(ctx context.Context) (*Customer, error) {
	var out Customer
	if err := s.client.Get(ctx, "/customer/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
