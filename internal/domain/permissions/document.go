package permissions

import (
	"fmt"
	"sort"
)

func (d Document) Clone() Document {
	out := make(Document, len(d))
	for role, set := range d {
		out[role] = set.Clone()
	}
	return out
}

func (s PermissionSet) Clone() PermissionSet {
	out := make(PermissionSet, len(s))
	for c, v := range s {
		out[c] = v
	}
	return out
}

// Allowed reports the stored flag; a missing role or capability is false.
func (d Document) Allowed(role Role, capability Capability) bool {
	return d[role][capability]
}

// Toggle flips exactly one (role, capability) pair in place.
func (d Document) Toggle(role Role, capability Capability) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	if !capability.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownCapability, capability)
	}
	set, ok := d[role]
	if !ok {
		set = PermissionSet{}
		d[role] = set
	}
	set[capability] = !set[capability]
	return nil
}

// Equal compares two documents over the closed role and capability sets.
func (d Document) Equal(other Document) bool {
	for _, role := range Roles {
		for _, c := range Capabilities {
			if d[role][c] != other[role][c] {
				return false
			}
		}
	}
	return true
}

// Validate checks that the document carries exactly the known roles and
// capabilities. It does not look at locked capabilities; see Enforce.
func (d Document) Validate() error {
	for role, set := range d {
		if !role.Valid() {
			return fmt.Errorf("%w: %s", ErrUnknownRole, role)
		}
		for c := range set {
			if !c.Valid() {
				return fmt.Errorf("%w: %s.%s", ErrUnknownCapability, role, c)
			}
		}
	}
	for _, role := range Roles {
		set, ok := d[role]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingRole, role)
		}
		for _, c := range Capabilities {
			if _, ok := set[c]; !ok {
				return fmt.Errorf("%w: %s.%s", ErrMissingCapability, role, c)
			}
		}
	}
	return nil
}

// Enforce rejects documents that revoke a locked capability.
func (d Document) Enforce() error {
	for role, caps := range lockedCapabilities {
		for _, c := range caps {
			if !d[role][c] {
				return fmt.Errorf("%w: %s.%s", ErrLockedCapability, role, c)
			}
		}
	}
	return nil
}

// Merge overlays the known flags of other onto a copy of d. Unknown roles and
// capabilities in other are ignored; flags absent from other keep d's value.
func (d Document) Merge(other Document) Document {
	out := d.Clone()
	for _, role := range Roles {
		set, ok := other[role]
		if !ok {
			continue
		}
		if out[role] == nil {
			out[role] = PermissionSet{}
		}
		for _, c := range Capabilities {
			if v, ok := set[c]; ok {
				out[role][c] = v
			}
		}
	}
	return out
}

// Change is one flag that differs between two documents.
type Change struct {
	Role       Role       `json:"role"`
	Capability Capability `json:"capability"`
	From       bool       `json:"from"`
	To         bool       `json:"to"`
}

// Diff lists the flags that differ from base to d, in display order.
func (d Document) Diff(base Document) []Change {
	var out []Change
	for _, role := range Roles {
		for _, c := range Capabilities {
			from, to := base[role][c], d[role][c]
			if from != to {
				out = append(out, Change{Role: role, Capability: c, From: from, To: to})
			}
		}
	}
	return out
}

// Granted returns the capabilities set for role, sorted.
func (d Document) Granted(role Role) []Capability {
	var out []Capability
	for c, v := range d[role] {
		if v && c.Valid() {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
