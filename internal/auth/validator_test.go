package auth

import (
	"strings"
	"testing"

	"github.com/ekrishihub/storefront/internal/credential"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid email", "test@example.com", true},
		{"valid with subdomain", "user@mail.example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.co.uk", true},
		{"invalid no @", "userexample.com", false},
		{"invalid no domain", "user@", false},
		{"invalid no user", "@example.com", false},
		{"invalid spaces", "user @example.com", false},
		{"invalid double @", "user@@example.com", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"lowercase", "USER@EXAMPLE.COM", "user@example.com"},
		{"trim spaces", "  user@example.com  ", "user@example.com"},
		{"already clean", "user@example.com", "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeEmail(tt.email); got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         LoginRequest
		wantErr     bool
		errContains string
	}{
		{
			name: "valid farmer",
			req:  LoginRequest{Role: credential.RoleFarmer, Email: "f@example.com", Password: "secret1"},
		},
		{
			name:        "missing email",
			req:         LoginRequest{Role: credential.RoleFarmer, Password: "secret1"},
			wantErr:     true,
			errContains: "Email is required",
		},
		{
			name:        "bad email",
			req:         LoginRequest{Role: credential.RoleCustomer, Email: "nope", Password: "secret1"},
			wantErr:     true,
			errContains: "Invalid email",
		},
		{
			name:        "short password",
			req:         LoginRequest{Role: credential.RoleCustomer, Email: "c@example.com", Password: "12345"},
			wantErr:     true,
			errContains: "Min 6 characters",
		},
		{
			name:        "unknown role",
			req:         LoginRequest{Role: "ADMIN", Email: "c@example.com", Password: "secret1"},
			wantErr:     true,
			errContains: "role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLoginRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLoginRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateLoginRequest() error = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func TestValidateRegisterRequest(t *testing.T) {
	valid := RegisterRequest{
		Name:            "Asha",
		Email:           "asha@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Role:            credential.RoleCustomer,
	}

	tests := []struct {
		name        string
		mutate      func(r *RegisterRequest)
		errContains string
	}{
		{"valid", func(r *RegisterRequest) {}, ""},
		{"no name", func(r *RegisterRequest) { r.Name = " " }, "Name is required"},
		{"mismatch", func(r *RegisterRequest) { r.ConfirmPassword = "secret2" }, "Passwords must match"},
		{"no confirm", func(r *RegisterRequest) { r.ConfirmPassword = "" }, "Please confirm your password"},
		{"no role", func(r *RegisterRequest) { r.Role = "" }, "Role must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidateRegisterRequest(&req)
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("ValidateRegisterRequest() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidateRegisterRequest() error = %v, want it to contain %q", err, tt.errContains)
			}
		})
	}
}

func TestValidateOTP(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"123456", false},
		{" 123456 ", false},
		{"12345", true},
		{"1234567", true},
		{"12a456", true},
		{"", true},
	}

	for _, tt := range tests {
		if err := ValidateOTP(tt.code); (err != nil) != tt.wantErr {
			t.Errorf("ValidateOTP(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
		}
	}
}
