// Package notify collects user-facing toast notifications.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level is the toast severity
type Level string

// Levels
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a single toast
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Feed is a bounded queue of pending notifications. When full the oldest is dropped.
type Feed struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeed creates a feed holding at most capacity notifications
func NewFeed(capacity int, logger *zap.Logger) *Feed {
	if capacity <= 0 {
		capacity = 1
	}
	return &Feed{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Notify queues a notification
func (f *Feed) Notify(level Level, message string) {
	n := Notification{Level: level, Message: message, At: f.now()}

	f.mu.Lock()
	if len(f.items) == f.capacity {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)
	f.mu.Unlock()

	f.logger.Info("notification", zap.String("level", string(level)), zap.String("message", message))
}

// Drain returns the pending notifications oldest first and empties the feed
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Len returns the number of pending notifications
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
