package domain

import "strings"

// Role is the account type carried in tokens and the X-USER-ROLE header.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleClient, RoleSeller, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
