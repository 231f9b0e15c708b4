package dashboard

import "time"

type Stats struct {
	TotalEmployees       int       `json:"total_employees"`
	ActiveEmployees      int       `json:"active_employees"`
	PendingRegistrations int       `json:"pending_registrations"`
	PendingLeaves        int       `json:"pending_leaves"`
	OnLeaveToday         int       `json:"on_leave_today"`
	Sites                int       `json:"sites"`
	Groups               int       `json:"groups"`
	GeneratedAt          time.Time `json:"generated_at"`
}
