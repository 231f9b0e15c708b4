package sites

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sites and groups in memory. It backs handler tests and
// local runs without a database.
type MemoryStore struct {
	mu     sync.Mutex
	sites  map[string]Site
	groups map[string]Group
}

var _ StoreAPI = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sites: map[string]Site{}, groups: map[string]Group{}}
}

func (m *MemoryStore) ListSites(context.Context) ([]Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Site, 0, len(m.sites))
	for _, s := range m.sites {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetSite(_ context.Context, id string) (Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return Site{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) CreateSite(_ context.Context, site Site) (Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.siteNameTaken(site.Name, "") {
		return Site{}, ErrConflict
	}
	now := time.Now().UTC()
	site.ID = uuid.NewString()
	site.CreatedAt, site.UpdatedAt = now, now
	m.sites[site.ID] = site
	return site, nil
}

func (m *MemoryStore) UpdateSite(_ context.Context, id string, site Site) (Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sites[id]
	if !ok {
		return Site{}, ErrNotFound
	}
	if m.siteNameTaken(site.Name, id) {
		return Site{}, ErrConflict
	}
	site.ID = id
	site.CreatedAt = existing.CreatedAt
	site.UpdatedAt = time.Now().UTC()
	m.sites[id] = site
	return site, nil
}

func (m *MemoryStore) DeleteSite(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[id]; !ok {
		return ErrNotFound
	}
	for _, g := range m.groups {
		if g.SiteID == id {
			return ErrHasGroups
		}
	}
	delete(m.sites, id)
	return nil
}

func (m *MemoryStore) ListGroups(_ context.Context, siteID string) ([]Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Group{}
	for _, g := range m.groups {
		if siteID == "" || g.SiteID == siteID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetGroup(_ context.Context, id string) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.groups[id]
	if !ok {
		return Group{}, ErrNotFound
	}
	return g, nil
}

func (m *MemoryStore) CreateGroup(_ context.Context, group Group) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[group.SiteID]; !ok {
		return Group{}, ErrNotFound
	}
	if m.groupNameTaken(group.SiteID, group.Name, "") {
		return Group{}, ErrConflict
	}
	now := time.Now().UTC()
	group.ID = uuid.NewString()
	group.CreatedAt, group.UpdatedAt = now, now
	m.groups[group.ID] = group
	return group, nil
}

func (m *MemoryStore) UpdateGroup(_ context.Context, id string, group Group) (Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.groups[id]
	if !ok {
		return Group{}, ErrNotFound
	}
	if m.groupNameTaken(group.SiteID, group.Name, id) {
		return Group{}, ErrConflict
	}
	group.ID = id
	group.CreatedAt = existing.CreatedAt
	group.UpdatedAt = time.Now().UTC()
	m.groups[id] = group
	return group, nil
}

func (m *MemoryStore) DeleteGroup(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[id]; !ok {
		return ErrNotFound
	}
	delete(m.groups, id)
	return nil
}

func (m *MemoryStore) siteNameTaken(name, exceptID string) bool {
	for id, s := range m.sites {
		if id != exceptID && strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) groupNameTaken(siteID, name, exceptID string) bool {
	for id, g := range m.groups {
		if id != exceptID && g.SiteID == siteID && strings.EqualFold(g.Name, name) {
			return true
		}
	}
	return false
}
