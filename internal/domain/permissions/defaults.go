package permissions

// lockedCapabilities are always granted to a role; editors render them disabled.
var lockedCapabilities = map[Role][]Capability{
	RoleAdmin: {CanManagePermissions, CanDeleteEmployees},
}

// Defaults returns a fresh copy of the compiled-in document.
func Defaults() Document {
	return Document{
		RoleAdmin: {
			CanManageEmployees:   true,
			CanApproveLeaves:     true,
			CanPostAnnouncements: true,
			CanPostBehavior:      true,
			CanViewSalaries:      true,
			CanEditSalaries:      true,
			CanDeleteEmployees:   true,
			CanManagePermissions: true,
		},
		RoleSecretary: {
			CanManageEmployees:   true,
			CanApproveLeaves:     true,
			CanPostAnnouncements: true,
			CanPostBehavior:      false,
			CanViewSalaries:      false,
			CanEditSalaries:      false,
			CanDeleteEmployees:   false,
			CanManagePermissions: false,
		},
		RoleEmployee: {
			CanManageEmployees:   false,
			CanApproveLeaves:     false,
			CanPostAnnouncements: false,
			CanPostBehavior:      false,
			CanViewSalaries:      false,
			CanEditSalaries:      false,
			CanDeleteEmployees:   false,
			CanManagePermissions: false,
		},
	}
}

// Locked reports whether the (role, capability) control is disabled for editing.
func Locked(role Role, capability Capability) bool {
	for _, c := range lockedCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}
