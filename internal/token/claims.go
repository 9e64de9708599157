package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the bearer token payload the storefront reads.
// Role may arrive as a string or a list, so it is kept raw and normalized on use.
type Claims struct {
	Role  interface{} `json:"role,omitempty"`
	Email string      `json:"email,omitempty"`
	Name  string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NormalizedRole returns the claim role in canonical form, or "" when absent
func (c *Claims) NormalizedRole() string {
	if c == nil {
		return ""
	}
	return NormalizeRole(c.Role)
}

// Identity returns the email claim, falling back to the subject
func (c *Claims) Identity() string {
	if c == nil {
		return ""
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Subject
}

// TokenType constants
const (
	TokenTypeBearer = "Bearer"
)
