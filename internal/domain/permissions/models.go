// Package permissions holds the role capability matrix: which of the fixed
// capability flags each role carries, the compiled-in defaults, and the
// policy that evaluates a viewer against them.
package permissions

import (
	"errors"

	"hrportal/internal/domain/auth"
)

type Role string

const (
	RoleAdmin     Role = auth.RoleAdmin
	RoleSecretary Role = auth.RoleSecretary
	RoleEmployee  Role = auth.RoleEmployee
)

type Capability string

const (
	CanManageEmployees   Capability = "can_manage_employees"
	CanApproveLeaves     Capability = "can_approve_leaves"
	CanPostAnnouncements Capability = "can_post_announcements"
	CanPostBehavior      Capability = "can_post_behavior"
	CanViewSalaries      Capability = "can_view_salaries"
	CanEditSalaries      Capability = "can_edit_salaries"
	CanDeleteEmployees   Capability = "can_delete_employees"
	CanManagePermissions Capability = "can_manage_permissions"
)

// Roles is the closed set of roles present in the matrix, in display order.
var Roles = []Role{RoleAdmin, RoleSecretary, RoleEmployee}

// Capabilities is the closed set of capability flags, in display order.
var Capabilities = []Capability{
	CanManageEmployees,
	CanApproveLeaves,
	CanPostAnnouncements,
	CanPostBehavior,
	CanViewSalaries,
	CanEditSalaries,
	CanDeleteEmployees,
	CanManagePermissions,
}

var capabilityLabels = map[Capability]string{
	CanManageEmployees:   "Manage employees",
	CanApproveLeaves:     "Approve leaves",
	CanPostAnnouncements: "Post announcements",
	CanPostBehavior:      "Post behavior notes",
	CanViewSalaries:      "View salaries",
	CanEditSalaries:      "Edit salaries",
	CanDeleteEmployees:   "Delete employees",
	CanManagePermissions: "Manage permissions",
}

var (
	ErrUnknownRole       = errors.New("permissions: unknown role")
	ErrUnknownCapability = errors.New("permissions: unknown capability")
	ErrMissingRole       = errors.New("permissions: document is missing a role")
	ErrMissingCapability = errors.New("permissions: permission set is missing a capability")
	ErrLockedCapability  = errors.New("permissions: locked capability cannot be revoked")
)

// PermissionSet is the full set of capability flags for one role.
type PermissionSet map[Capability]bool

// Document maps every role to its permission set. It is always persisted whole.
type Document map[Role]PermissionSet

func (r Role) Valid() bool {
	for _, candidate := range Roles {
		if candidate == r {
			return true
		}
	}
	return false
}

func (c Capability) Valid() bool {
	_, ok := capabilityLabels[c]
	return ok
}

func (c Capability) Label() string {
	return capabilityLabels[c]
}

func (r Role) Label() string {
	return auth.RoleLabel(string(r))
}
