package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ekrishihub/storefront/internal/config"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/gateway"
	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/internal/ratelimit"
	"github.com/ekrishihub/storefront/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Env: "test",
		API: config.APIConfig{
			BaseURL:     baseURL,
			Prefix:      "/api",
			Timeout:     2 * time.Second,
			PublicPaths: []string{"/farmer-login", "/customer-login", "/auth/register", "/auth/verify-otp", "/auth/resend-otp"},
		},
		Session: config.SessionConfig{
			FarmerLoginPath:       "/farmer-login",
			CustomerLoginPath:     "/customer-login",
			FarmerDashboardPath:   "/farmer-dashboard",
			CustomerDashboardPath: "/customer-dashboard",
		},
		Storage:   config.StorageConfig{Driver: config.StorageMemory},
		OTP:       config.OTPConfig{ResendCooldown: time.Minute},
		Payment:   config.PaymentConfig{Currency: "INR", MerchantName: "eKrishiHub"},
		Notify:    config.NotifyConfig{Capacity: 10},
		CORS:      config.CORSConfig{AllowedOrigins: "*"},
		Turnstile: config.TurnstileConfig{SiteKey: "site-key"},
	}
}

func newApp(t *testing.T, backend http.HandlerFunc) *App {
	t.Helper()
	if backend == nil {
		backend = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected backend request %s %s", r.Method, r.URL.Path)
		}
	}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL + "/api")
	app, err := Build(context.Background(), cfg, storage.NewMemory(), ratelimit.NewMemoryCooldown(time.Minute), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ravi@example.com",
		"role": role,
		"exp":  exp.Unix(),
	}).SignedString([]byte("test-secret-key-minimum-32-chars"))
	require.NoError(t, err)
	return s
}

func signIn(t *testing.T, app *App, role credential.Role) {
	t.Helper()
	err := app.Store.Set(context.Background(), credential.Credential{
		Token: signToken(t, string(role), time.Now().Add(time.Hour)),
		Role:  role,
	})
	require.NoError(t, err)
}

func do(app *App, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	app := newApp(t, nil)

	w := do(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

type downStorage struct {
	*storage.Memory
}

func (downStorage) Health(context.Context) error {
	return errors.New("connection refused")
}

func TestRouter_HealthReportsStorage(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1/api")
	app, err := Build(context.Background(), cfg, downStorage{storage.NewMemory()}, ratelimit.NewMemoryCooldown(time.Minute), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	w := do(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRouter_RouteTable(t *testing.T) {
	app := newApp(t, nil)

	tests := []struct {
		pattern string
		guarded bool
		role    credential.Role
	}{
		{"/tasks", true, credential.RoleFarmer},
		{"/edit-product/:id", true, credential.RoleFarmer},
		{"/my-orders", true, credential.RoleCustomer},
		{"/customer-dashboard", true, credential.RoleCustomer},
		{"/profile", true, ""},
		{"/farmer-login", false, ""},
		{"/", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			req, ok := app.Routes.Lookup(tt.pattern)
			assert.Equal(t, tt.guarded, ok)
			assert.Equal(t, tt.role, req.Role)
		})
	}
}

func TestRouter_GuardRedirectsAnonymous(t *testing.T) {
	app := newApp(t, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/tasks", "/farmer-login"},
		{"/farmer-dashboard", "/farmer-login"},
		{"/my-orders", "/customer-login"},
		{"/profile", "/farmer-login"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(app, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestRouter_WrongRoleGoesToOwnDashboard(t *testing.T) {
	app := newApp(t, nil)
	signIn(t, app, credential.RoleCustomer)

	w := do(app, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/customer-dashboard", w.Header().Get("Location"))

	_, ok, err := app.Store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "a role mismatch keeps the session")
}

func TestRouter_ExpiredTokenClearsSession(t *testing.T) {
	app := newApp(t, nil)
	err := app.Store.Set(context.Background(), credential.Credential{
		Token: signToken(t, "FARMER", time.Now().Add(-time.Minute)),
		Role:  credential.RoleFarmer,
	})
	require.NoError(t, err)

	w := do(app, http.MethodGet, "/farmer-dashboard", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/farmer-login", w.Header().Get("Location"))

	_, ok, err := app.Store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, app.Session.Snapshot().Authenticated)
}

func TestRouter_BackendRejectionEndsSession(t *testing.T) {
	app := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		w.WriteHeader(http.StatusUnauthorized)
	})
	signIn(t, app, credential.RoleFarmer)

	w := do(app, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/farmer-login", w.Header().Get("Location"))

	_, ok, err := app.Store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, app.Session.Snapshot().Authenticated)

	toasts := app.Feed.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.LevelError, toasts[0].Level)
	assert.Equal(t, gateway.MessageSessionExpired, toasts[0].Message)
}

func TestRouter_BackendServerErrorKeepsSession(t *testing.T) {
	app := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	signIn(t, app, credential.RoleFarmer)

	w := do(app, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "SERVER_ERROR", body.Error.Code)

	_, ok, err := app.Store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRouter_LoginFlow(t *testing.T) {
	var tok string
	app := newApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/farmer-login":
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, "ts-token", r.Header.Get("X-Turnstile-Token"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"token": tok, "name": "Ravi"})
		default:
			t.Errorf("unexpected backend request %s", r.URL.Path)
		}
	})
	tok = signToken(t, "ROLE_FARMER", time.Now().Add(time.Hour))

	w := do(app, http.MethodPost, "/farmer-login", `{"email":"Ravi@Example.com","password":"secret1","turnstileToken":"ts-token"}`)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/farmer-dashboard", w.Header().Get("Location"))

	snap := app.Session.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, credential.RoleFarmer, snap.Role)
	assert.Equal(t, "Ravi", snap.DisplayName)

	w = do(app, http.MethodGet, "/farmer-dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "farmer-dashboard")
}

func TestRouter_Notifications(t *testing.T) {
	app := newApp(t, nil)
	app.Feed.Notify(notify.LevelInfo, "hello")

	w := do(app, http.MethodGet, "/api/notifications", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")

	w = do(app, http.MethodGet, "/api/notifications", "")
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}
