// Package navigation decides which menu entries a viewer can reach.
package navigation

import "hrportal/internal/domain/permissions"

type Entry struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	Path         string `json:"path"`
	AdminOnly    bool   `json:"admin_only,omitempty"`
	EmployeeOnly bool   `json:"employee_only,omitempty"`
}

// Entries is the fixed, ordered menu.
var Entries = []Entry{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard"},
	{Key: "employees", Label: "Employees", Path: "/employees"},
	{Key: "leaves", Label: "Leave requests", Path: "/leaves"},
	{Key: "my-leaves", Label: "My leaves", Path: "/my-leaves", EmployeeOnly: true},
	{Key: "announcements", Label: "Announcements", Path: "/announcements"},
	{Key: "behavior", Label: "Behavior", Path: "/behavior"},
	{Key: "sites", Label: "Sites", Path: "/sites", AdminOnly: true},
	{Key: "groups", Label: "Groups", Path: "/sites/groups", AdminOnly: true},
	{Key: "registrations", Label: "Pending registrations", Path: "/registrations", AdminOnly: true},
	{Key: "permissions", Label: "Permissions", Path: "/settings/permissions", AdminOnly: true},
	{Key: "profile", Label: "Profile", Path: "/profile"},
}

// Visible keeps the entries whose predicates hold, preserving order.
func Visible(entries []Entry, isAdmin, isEmployee bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.AdminOnly && !isAdmin {
			continue
		}
		if e.EmployeeOnly && !isEmployee {
			continue
		}
		out = append(out, e)
	}
	return out
}

// For evaluates the viewer through the policy and filters the default menu.
func For(policy permissions.Policy, viewer permissions.Viewer) []Entry {
	return Visible(Entries, policy.IsAdmin(viewer), policy.IsEmployee(viewer))
}

// Reachable reports whether path belongs to an entry the viewer can see.
func Reachable(policy permissions.Policy, viewer permissions.Viewer, path string) bool {
	for _, e := range For(policy, viewer) {
		if e.Path == path {
			return true
		}
	}
	return false
}
