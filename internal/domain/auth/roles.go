package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleSecretary  = "secretary"
	RoleEmployee   = "employee"
)

// Roles lists the roles a user account can hold, most privileged first.
var Roles = []string{
	RoleSuperAdmin,
	RoleAdmin,
	RoleSecretary,
	RoleEmployee,
}

var titleCaser = cases.Title(language.English)

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// RoleLabel renders a role key for display, e.g. "super_admin" -> "Super Admin".
func RoleLabel(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}
	return titleCaser.String(strings.ReplaceAll(role, "_", " "))
}

// IsAdmin reports whether the role carries administrator rights.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
