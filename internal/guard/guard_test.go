package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var targets = Targets{
	FarmerLogin:       "/farmer-login",
	CustomerLogin:     "/customer-login",
	FarmerDashboard:   "/farmer-dashboard",
	CustomerDashboard: "/customer-dashboard",
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type liveRole credential.Role

func (r liveRole) Role() credential.Role { return credential.Role(r) }

type brokenStorage struct{ *storage.Memory }

func (b *brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).
		SignedString([]byte("test-secret-key-minimum-32-chars"))
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}
	return s
}

func setup(t *testing.T, live RoleSource) (*Guard, *credential.Store) {
	t.Helper()
	store := credential.NewStore(storage.NewMemory(), zap.NewNop())
	g := New(store, live, targets, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	return g, store
}

func TestEvaluate(t *testing.T) {
	valid := tokenExpiring(t, fixedNow.Add(time.Hour))
	expired := tokenExpiring(t, fixedNow.Add(-10*time.Second))

	tests := []struct {
		name       string
		stored     *credential.Credential
		live       credential.Role
		required   credential.Role
		want       Decision
		wantClears bool
	}{
		{
			name:     "empty store farmer route",
			required: credential.RoleFarmer,
			want:     Decision{Kind: RedirectToLogin, Target: "/farmer-login"},
		},
		{
			name:     "empty store customer route",
			required: credential.RoleCustomer,
			want:     Decision{Kind: RedirectToLogin, Target: "/customer-login"},
		},
		{
			name:       "expired overrides role match",
			stored:     &credential.Credential{Token: expired, Role: credential.RoleFarmer},
			required:   credential.RoleFarmer,
			want:       Decision{Kind: RedirectToLogin, Target: "/farmer-login"},
			wantClears: true,
		},
		{
			name:       "malformed token",
			stored:     &credential.Credential{Token: "not.a.jwt", Role: credential.RoleCustomer},
			required:   credential.RoleCustomer,
			want:       Decision{Kind: RedirectToLogin, Target: "/customer-login"},
			wantClears: true,
		},
		{
			name:     "role mismatch goes to own dashboard",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleCustomer},
			required: credential.RoleFarmer,
			want:     Decision{Kind: RedirectToOwnDashboard, Target: "/customer-dashboard"},
		},
		{
			name:     "matching role",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleFarmer},
			required: credential.RoleFarmer,
			want:     Decision{Kind: Allow},
		},
		{
			name:     "required role normalized",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleFarmer},
			required: "role_farmer",
			want:     Decision{Kind: Allow},
		},
		{
			name:     "unknown required role admits nobody",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleFarmer},
			required: "ADMIN",
			want:     Decision{Kind: RedirectToOwnDashboard, Target: "/farmer-dashboard"},
		},
		{
			name:     "misspelled required role",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleCustomer},
			required: "CUSTOMERS",
			want:     Decision{Kind: RedirectToOwnDashboard, Target: "/customer-dashboard"},
		},
		{
			name:   "no required role",
			stored: &credential.Credential{Token: valid, Role: credential.RoleCustomer},
			want:   Decision{Kind: Allow},
		},
		{
			name:     "live role wins over stored",
			stored:   &credential.Credential{Token: valid, Role: credential.RoleFarmer},
			live:     credential.RoleCustomer,
			required: credential.RoleFarmer,
			want:     Decision{Kind: RedirectToOwnDashboard, Target: "/customer-dashboard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, store := setup(t, liveRole(tt.live))
			ctx := context.Background()
			if tt.stored != nil {
				if err := store.Set(ctx, *tt.stored); err != nil {
					t.Fatalf("Set() failed: %v", err)
				}
			}

			got := g.Evaluate(ctx, tt.required)
			if got != tt.want {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}

			// unchanged store state yields the same decision
			if again := g.Evaluate(ctx, tt.required); again != got {
				t.Errorf("second Evaluate() = %+v, want %+v", again, got)
			}

			_, present, err := store.Get(ctx)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if tt.wantClears && present {
				t.Error("credential should have been cleared")
			}
			if tt.stored != nil && !tt.wantClears && !present {
				t.Error("credential should have been kept")
			}
		})
	}
}

func TestEvaluate_PartialCredential(t *testing.T) {
	mem := storage.NewMemory()
	store := credential.NewStore(mem, zap.NewNop())
	g := New(store, nil, targets, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	mem.Set(ctx, credential.KeyToken, tokenExpiring(t, fixedNow.Add(time.Hour)))

	got := g.Evaluate(ctx, credential.RoleFarmer)
	want := Decision{Kind: RedirectToLogin, Target: "/farmer-login"}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
	if _, ok, _ := mem.Get(ctx, credential.KeyToken); ok {
		t.Error("orphan token should have been cleared")
	}
}

func TestEvaluate_StorageErrorFailsClosed(t *testing.T) {
	store := credential.NewStore(&brokenStorage{Memory: storage.NewMemory()}, zap.NewNop())
	g := New(store, nil, targets, zap.NewNop())

	got := g.Evaluate(context.Background(), credential.RoleCustomer)
	want := Decision{Kind: RedirectToLogin, Target: "/customer-login"}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
}

func TestRouteTable(t *testing.T) {
	table := NewRouteTable()
	table.Require("/farmer-dashboard", credential.RoleFarmer)
	table.Require("/profile", "")

	req, ok := table.Lookup("/farmer-dashboard")
	if !ok || req.Role != credential.RoleFarmer {
		t.Errorf("Lookup(/farmer-dashboard) = (%+v, %v)", req, ok)
	}
	req, ok = table.Lookup("/profile")
	if !ok || req.Role != "" {
		t.Errorf("Lookup(/profile) = (%+v, %v)", req, ok)
	}
	if _, ok := table.Lookup("/products"); ok {
		t.Error("Lookup(/products) reported a guarded route")
	}
}

func TestKindString(t *testing.T) {
	if Allow.String() != "ALLOW" || RedirectToLogin.String() != "REDIRECT_TO_LOGIN" ||
		RedirectToOwnDashboard.String() != "REDIRECT_TO_OWN_DASHBOARD" {
		t.Error("Kind.String() does not match the decision names")
	}
}
