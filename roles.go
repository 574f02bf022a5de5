package userauth

// RoleSet is the set of roles permitted to invoke a route. Authorization
// succeeds iff the caller's role is a member.
type RoleSet []Role

// NewRoleSet builds a RoleSet from role strings.
func NewRoleSet(roles ...Role) RoleSet {
	return RoleSet(roles)
}

// Contains reports membership. An empty set admits every authenticated caller.
func (s RoleSet) Contains(role Role) bool {
	if len(s) == 0 {
		return true
	}
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// AllRoles returns the predefined roles.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}
