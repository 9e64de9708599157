// Package credential owns the persisted bearer credential of the signed-in user.
package credential

import (
	"github.com/ekrishihub/storefront/internal/token"
)

// Role is a storefront user role
type Role string

// Roles
const (
	RoleFarmer   Role = "FARMER"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalizes a raw role value. Unknown roles yield "".
func ParseRole(raw interface{}) Role {
	switch r := Role(token.NormalizeRole(raw)); r {
	case RoleFarmer, RoleCustomer:
		return r
	}
	return ""
}

// Profile is the user snapshot stored next to the token
type Profile struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credential is a signed-in session: a bearer token and the role it was issued for
type Credential struct {
	Token       string
	Role        Role
	DisplayName string
	Profile     Profile
}

// Complete reports whether both token and role are set
func (c Credential) Complete() bool {
	return c.Token != "" && c.Role != ""
}
