package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseAllowedOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty string", input: "", want: []string{"*"}},
		{name: "only separators", input: " , ,", want: []string{"*"}},
		{name: "wildcard", input: "*", want: []string{"*"}},
		{name: "dev server", input: "http://localhost:5173", want: []string{"http://localhost:5173"}},
		{
			name:  "storefront and admin with spaces",
			input: "https://ekrishihub.in , https://admin.ekrishihub.in",
			want:  []string{"https://ekrishihub.in", "https://admin.ekrishihub.in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAllowedOrigins(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseAllowedOrigins() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseAllowedOrigins()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	tests := []struct {
		name        string
		allowed     string
		origin      string
		wantOrigin  string
		wantCreds   string
		wantBlocked bool
	}{
		{name: "any origin", allowed: "*", origin: "http://elsewhere.test", wantOrigin: "*"},
		{name: "listed origin", allowed: "http://localhost:5173", origin: "http://localhost:5173", wantOrigin: "http://localhost:5173", wantCreds: "true"},
		{name: "unlisted origin", allowed: "http://localhost:5173", origin: "http://evil.test", wantBlocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.allowed))
			r.PUT("/tasks/:id/status", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/tasks/1/status", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			req.Header.Set("Access-Control-Request-Headers", "X-Turnstile-Token")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if tt.wantBlocked {
				if w.Code != http.StatusForbidden {
					t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
				}
				return
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
		})
	}
}
