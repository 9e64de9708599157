// Package tasks manages a farmer's task list.
package tasks

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the backend due date format
const DateLayout = "2006-01-02"

// Statuses
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

var (
	ErrTitleRequired       = errors.New("Title is required")
	ErrDescriptionRequired = errors.New("Description is required")
	ErrInvalidDueDate      = errors.New("Due date must be yyyy-MM-dd")
	ErrInvalidStatus       = errors.New("Invalid status (use one of: PENDING, IN_PROGRESS, COMPLETED)")
)

// Task is a farmer task
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status"`
}

// Input is a create or update payload
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
	Status      string `json:"status,omitempty"`
}

// NormalizeStatus uppercases a status and checks it is known
func NormalizeStatus(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// NormalizeDate accepts yyyy-MM-dd or an RFC 3339 timestamp and returns yyyy-MM-dd
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", ErrInvalidDueDate
}

// Validate checks the payload and normalizes it in place. An empty status
// becomes PENDING.
func (in *Input) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Description == "" {
		return ErrDescriptionRequired
	}

	date, err := NormalizeDate(in.DueDate)
	if err != nil {
		return err
	}
	in.DueDate = date

	if strings.TrimSpace(in.Status) == "" {
		in.Status = StatusPending
		return nil
	}
	status, err := NormalizeStatus(in.Status)
	if err != nil {
		return err
	}
	in.Status = status
	return nil
}
