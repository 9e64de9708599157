// Package guard decides whether a role-scoped view may render.
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var guardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "guard_decisions_total",
		Help: "Total number of access guard decisions",
	},
	[]string{"decision"},
)

// Kind is the outcome of a guard evaluation
type Kind int

// Kinds
const (
	Allow Kind = iota
	RedirectToLogin
	RedirectToOwnDashboard
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "ALLOW"
	case RedirectToLogin:
		return "REDIRECT_TO_LOGIN"
	case RedirectToOwnDashboard:
		return "REDIRECT_TO_OWN_DASHBOARD"
	}
	return "UNKNOWN"
}

// Decision is a guard outcome. Target is empty for Allow.
type Decision struct {
	Kind   Kind
	Target string
}

// Targets are the views the guard redirects to
type Targets struct {
	FarmerLogin       string
	CustomerLogin     string
	FarmerDashboard   string
	CustomerDashboard string
}

// LoginFor returns the login view for a required role. Farmer is the default.
func (t Targets) LoginFor(role credential.Role) string {
	if role == credential.RoleCustomer {
		return t.CustomerLogin
	}
	return t.FarmerLogin
}

// DashboardFor returns the dashboard view of a role
func (t Targets) DashboardFor(role credential.Role) string {
	if role == credential.RoleCustomer {
		return t.CustomerDashboard
	}
	return t.FarmerDashboard
}

// RoleSource reports the live session role, "" before hydration
type RoleSource interface {
	Role() credential.Role
}

// Option configures a Guard
type Option func(*Guard)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// Guard evaluates access to role-scoped views
type Guard struct {
	store   *credential.Store
	live    RoleSource
	targets Targets
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a Guard. live may be nil.
func New(store *credential.Store, live RoleSource, targets Targets, logger *zap.Logger, opts ...Option) *Guard {
	g := &Guard{
		store:   store,
		live:    live,
		targets: targets,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate decides access for a view requiring role. An empty role admits any signed-in user;
// a role no user can hold admits nobody.
func (g *Guard) Evaluate(ctx context.Context, required credential.Role) Decision {
	d := g.evaluate(ctx, credential.Role(token.NormalizeRole(string(required))))
	guardDecisionsTotal.WithLabelValues(d.Kind.String()).Inc()
	return d
}

func (g *Guard) evaluate(ctx context.Context, required credential.Role) Decision {
	login := Decision{Kind: RedirectToLogin, Target: g.targets.LoginFor(required)}

	cred, present, err := g.store.Get(ctx)
	if err != nil {
		g.logger.Error("Failed to read credential, denying access", zap.Error(err))
		return login
	}

	if !present || token.IsExpiredAt(cred.Token, g.now()) {
		if err := g.store.Clear(ctx); err != nil {
			g.logger.Error("Failed to clear credential", zap.Error(err))
		}
		return login
	}

	role := credential.Role("")
	if g.live != nil {
		role = g.live.Role()
	}
	if role == "" {
		role = cred.Role
	}

	if required != "" && role != required {
		return Decision{Kind: RedirectToOwnDashboard, Target: g.targets.DashboardFor(role)}
	}
	return Decision{Kind: Allow}
}

// Requirement is the access rule for one route
type Requirement struct {
	Role credential.Role
}

// RouteTable maps route patterns to their access requirement
type RouteTable struct {
	mu     sync.RWMutex
	routes map[string]Requirement
}

// NewRouteTable creates an empty table
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[string]Requirement)}
}

// Require guards pattern. An empty role admits any signed-in user.
func (t *RouteTable) Require(pattern string, role credential.Role) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[pattern] = Requirement{Role: role}
}

// Lookup returns the requirement for pattern and whether it is guarded
func (t *RouteTable) Lookup(pattern string) (Requirement, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	req, ok := t.routes[pattern]
	return req, ok
}
