// Package gatewaytest wires a gateway client against an httptest backend.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/gateway"
	"github.com/ekrishihub/storefront/internal/storage"
	"go.uber.org/zap"
)

// PublicPaths is the allow-list used by test clients
var PublicPaths = []string{
	"/farmer-login", "/customer-login", "/auth/register", "/auth/verify-otp", "/auth/resend-otp",
}

// Backend is a test backend mounted under /api
type Backend struct {
	Client *gateway.Client
	Store  *credential.Store
	Server *httptest.Server
}

// New starts handler behind a gateway client with an empty credential store
func New(t *testing.T, handler http.Handler) *Backend {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	classifier, err := gateway.NewClassifier(srv.URL+"/api", "/api", PublicPaths)
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}

	store := credential.NewStore(storage.NewMemory(), zap.NewNop())
	transport := gateway.NewTransport(gateway.TransportConfig{
		Classifier: classifier,
		Store:      store,
		Targets:    gateway.ExpiryTargets{FarmerLogin: "/farmer-login", CustomerLogin: "/customer-login"},
	})

	return &Backend{
		Client: gateway.NewClient(classifier, transport, 2*time.Second, zap.NewNop()),
		Store:  store,
		Server: srv,
	}
}

// JSON writes v with status
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}
