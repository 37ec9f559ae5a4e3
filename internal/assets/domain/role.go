package domain

import "strings"

// Role is the closed set of user roles. An admin bypasses department
// scoping entirely; a responsible user is restricted to the department they
// are responsible for.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleResponsible Role = "responsible"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleResponsible:
		return RoleResponsible, true
	default:
		return "", false
	}
}

// Equals compares roles case-insensitively.
func (r Role) Equals(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

func (r Role) String() string { return string(r) }
