package dashboard

import "hrportal/internal/domain/permissions"

// Tile is a shortcut on the dashboard. A tile with a Capability needs that
// capability; AdminOnly and EmployeeOnly follow the navigation predicates.
type Tile struct {
	Key          string                 `json:"key"`
	Label        string                 `json:"label"`
	Path         string                 `json:"path"`
	Capability   permissions.Capability `json:"capability,omitempty"`
	AdminOnly    bool                   `json:"admin_only,omitempty"`
	EmployeeOnly bool                   `json:"employee_only,omitempty"`
}

type StatCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

var Tiles = []Tile{
	{Key: "employees", Label: "Employees", Path: "/employees", Capability: permissions.CanManageEmployees},
	{Key: "approve-leaves", Label: "Approve leaves", Path: "/leaves", Capability: permissions.CanApproveLeaves},
	{Key: "request-leave", Label: "Request leave", Path: "/my-leaves", EmployeeOnly: true},
	{Key: "announcements", Label: "Announcements", Path: "/announcements", Capability: permissions.CanPostAnnouncements},
	{Key: "behavior", Label: "Behavior notes", Path: "/behavior", Capability: permissions.CanPostBehavior},
	{Key: "salaries", Label: "Salaries", Path: "/salaries", Capability: permissions.CanViewSalaries},
	{Key: "registrations", Label: "Pending registrations", Path: "/registrations", AdminOnly: true},
	{Key: "permissions", Label: "Permissions", Path: "/settings/permissions", Capability: permissions.CanManagePermissions},
}

func VisibleTiles(policy permissions.Policy, viewer permissions.Viewer) []Tile {
	out := make([]Tile, 0, len(Tiles))
	for _, t := range Tiles {
		if t.AdminOnly && !policy.IsAdmin(viewer) {
			continue
		}
		if t.EmployeeOnly && !policy.IsEmployee(viewer) {
			continue
		}
		if t.Capability != "" && !policy.Can(viewer, t.Capability) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// StatCards picks the counters a viewer is shown. Staff counters need
// can_manage_employees, leave counters can_approve_leaves, organization
// counters admin rights. Ordinary employees see none.
func StatCards(policy permissions.Policy, viewer permissions.Viewer, stats Stats) []StatCard {
	var out []StatCard
	if policy.Can(viewer, permissions.CanManageEmployees) {
		out = append(out,
			StatCard{Key: "total_employees", Label: "Employees", Value: stats.TotalEmployees},
			StatCard{Key: "active_employees", Label: "Active employees", Value: stats.ActiveEmployees},
		)
	}
	if policy.Can(viewer, permissions.CanApproveLeaves) {
		out = append(out,
			StatCard{Key: "pending_leaves", Label: "Pending leaves", Value: stats.PendingLeaves},
			StatCard{Key: "on_leave_today", Label: "On leave today", Value: stats.OnLeaveToday},
		)
	}
	if policy.IsAdmin(viewer) {
		out = append(out,
			StatCard{Key: "pending_registrations", Label: "Pending registrations", Value: stats.PendingRegistrations},
			StatCard{Key: "sites", Label: "Sites", Value: stats.Sites},
			StatCard{Key: "groups", Label: "Groups", Value: stats.Groups},
		)
	}
	return out
}
