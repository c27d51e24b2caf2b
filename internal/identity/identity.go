package identity

import "strings"

// Role is the closed set of caller roles. Comparison is structural; parsing
// from external input happens once, at the token boundary.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole normalizes a raw role claim. Anything that is not an admin role is
// treated as a regular user.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity describes an authenticated caller. A nil *Identity means the caller
// presented no credential at all (anonymous/guest), which is a valid state and
// not an error.
type Identity struct {
	UserID   int64
	Username string
	Role     Role
}

// IsAdmin reports whether the identity is present and carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
