package authgate

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r AccountRole) bool {
	switch r {
	case RoleStandard, RoleAdministrator:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into an AccountRole
func ParseRole(roleStr string) (AccountRole, bool) {
	role := AccountRole(roleStr)
	return role, IsValidRole(role)
}

// AllRoles returns the closed role enumeration in hierarchical order
func AllRoles() []AccountRole {
	return []AccountRole{RoleStandard, RoleAdministrator}
}

// RoleIsAtLeast checks if the role meets the minimum required level
func RoleIsAtLeast(r, minRole AccountRole) bool {
	roleHierarchy := map[AccountRole]int{
		RoleStandard:      0,
		RoleAdministrator: 1,
	}

	currentLevel, exists := roleHierarchy[r]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// AuthoritiesForRole derives the authority set attached to a principal.
// An absent or unknown role yields an empty set, not an error.
func AuthoritiesForRole(r AccountRole) []string {
	if !IsValidRole(r) {
		return []string{}
	}
	return []string{"role:" + string(r)}
}
