package gateway

import (
	"context"
	"sync"

	"github.com/ekrishihub/storefront/internal/notify"
	"go.uber.org/zap"
)

// Navigator performs a hard navigation to another view
type Navigator interface {
	Navigate(ctx context.Context, target string)
}

// Notifier shows a toast to the user
type Notifier interface {
	Notify(level notify.Level, message string)
}

type navigationKey struct{}

type navigationSlot struct {
	mu     sync.Mutex
	target string
}

// WithNavigation returns a context carrying an empty navigation slot
func WithNavigation(ctx context.Context) context.Context {
	return context.WithValue(ctx, navigationKey{}, &navigationSlot{})
}

// NavigationTarget returns the target recorded in ctx, if any
func NavigationTarget(ctx context.Context) (string, bool) {
	slot, ok := ctx.Value(navigationKey{}).(*navigationSlot)
	if !ok {
		return "", false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.target, slot.target != ""
}

// ContextNavigator records navigations into the request's navigation slot.
// The HTTP layer turns a recorded target into a redirect.
type ContextNavigator struct {
	logger *zap.Logger
}

// NewContextNavigator creates a ContextNavigator
func NewContextNavigator(logger *zap.Logger) *ContextNavigator {
	return &ContextNavigator{logger: logger}
}

// Navigate records target. The last navigation in a request wins.
func (n *ContextNavigator) Navigate(ctx context.Context, target string) {
	slot, ok := ctx.Value(navigationKey{}).(*navigationSlot)
	if !ok {
		n.logger.Warn("Navigation outside of a request", zap.String("target", target))
		return
	}
	slot.mu.Lock()
	slot.target = target
	slot.mu.Unlock()
}
