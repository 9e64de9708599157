package tasks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ekrishihub/storefront/internal/gateway"
	apperrors "github.com/ekrishihub/storefront/pkg/errors"
)

// Service talks to the task endpoints
type Service struct {
	client *gateway.Client
}

// NewService creates a task service
func NewService(client *gateway.Client) *Service {
	return &Service{client: client}
}

func invalid(err error) error {
	return apperrors.Wrap(apperrors.ErrCodeValidationFailed, err.Error(), http.StatusBadRequest, err)
}

// List returns the farmer's tasks
func (s *Service) List(ctx context.Context) ([]Task, error) {
	var out []Task
	if err := s.client.Get(ctx, "/tasks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one task
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	var out Task
	if err := s.client.Get(ctx, fmt.Sprintf("/tasks/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create adds a task
func (s *Service) Create(ctx context.Context, in Input) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	var out Task
	if err := s.client.Post(ctx, "/tasks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a task
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Task, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}
	var out Task
	if err := s.client.Put(ctx, fmt.Sprintf("/tasks/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves a task to status
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*Task, error) {
	next, err := NormalizeStatus(status)
	if err != nil {
		return nil, invalid(err)
	}
	var out Task
	body := map[string]string{"status": next}
	if err := s.client.Put(ctx, fmt.Sprintf("/tasks/%d/status", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/tasks/%d", id), nil)
}
