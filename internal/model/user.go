package model

import "slices"

// Role is one of the fixed account roles.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleCustomer Role = "CUSTOMER"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleManager, RoleCustomer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(AllRoles, r)
}

// ParseRole parses an exact role name such as "ADMIN".
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// User is a registered account. Roles are fixed at registration.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"-"`
	Roles        []Role `json:"roles"`
}

// RegisterRequest represents the request payload for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Roles    []Role `json:"roles"`
}

// LoginRequest represents the request payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
