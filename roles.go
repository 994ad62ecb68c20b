package authcore

// IsValid checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleAnalista, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanView checks if this role can view credentials
func CanView(r UserRole) bool {
	switch r {
	case RoleUser, RoleAnalista, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanAnalyze checks if this role can run analysis over captured media
func CanAnalyze(r UserRole) bool {
	switch r {
	case RoleAnalista, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanManage checks if this role can manage other accounts
func CanManage(r UserRole) bool {
	return r == RoleAdmin
}

// IsAtLeast checks if the role meets the minimum required level
func IsAtLeast(r, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleUser:     0,
		RoleAnalista: 1,
		RoleAdmin:    2,
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

// GetAllRoles returns all predefined roles in hierarchical order
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleUser,
		RoleAnalista,
		RoleAdmin,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}
