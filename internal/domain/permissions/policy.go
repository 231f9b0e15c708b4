package permissions

import "hrportal/internal/domain/auth"

// Viewer is the authenticated user a decision is made for.
type Viewer struct {
	UserID string
	Role   string
}

// Policy is the single place role checks and capability flags are evaluated.
// Navigation, dashboard tiles and HTTP guards all go through it.
type Policy interface {
	IsAdmin(v Viewer) bool
	IsEmployee(v Viewer) bool
	Can(v Viewer, capability Capability) bool
}

// DocumentPolicy evaluates viewers against a permissions document.
// super_admin holds every capability and is not stored in the document;
// locked capabilities are granted whatever the stored flag says.
type DocumentPolicy struct {
	Doc Document
}

func NewPolicy(doc Document) DocumentPolicy {
	return DocumentPolicy{Doc: doc.Clone()}
}

func (p DocumentPolicy) IsAdmin(v Viewer) bool {
	return auth.IsAdmin(v.Role)
}

func (p DocumentPolicy) IsEmployee(v Viewer) bool {
	return v.Role == auth.RoleEmployee
}

func (p DocumentPolicy) Can(v Viewer, capability Capability) bool {
	if !capability.Valid() {
		return false
	}
	if v.Role == auth.RoleSuperAdmin {
		return true
	}
	role := Role(v.Role)
	if !role.Valid() {
		return false
	}
	if Locked(role, capability) {
		return true
	}
	return p.Doc.Allowed(role, capability)
}

// Capabilities lists what the viewer may do, in display order.
func (p DocumentPolicy) Capabilities(v Viewer) map[Capability]bool {
	out := make(map[Capability]bool, len(Capabilities))
	for _, c := range Capabilities {
		out[c] = p.Can(v, c)
	}
	return out
}
