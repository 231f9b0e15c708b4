package sites

import (
	"context"
	"strings"
)

// Service normalizes input before it reaches the store.
type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListSites(ctx context.Context) ([]Site, error) {
	return s.store.ListSites(ctx)
}

func (s *Service) GetSite(ctx context.Context, id string) (Site, error) {
	return s.store.GetSite(ctx, id)
}

func (s *Service) CreateSite(ctx context.Context, site Site) (Site, error) {
	return s.store.CreateSite(ctx, normalizeSite(site))
}

func (s *Service) UpdateSite(ctx context.Context, id string, site Site) (Site, error) {
	return s.store.UpdateSite(ctx, id, normalizeSite(site))
}

func (s *Service) DeleteSite(ctx context.Context, id string) error {
	return s.store.DeleteSite(ctx, id)
}

func (s *Service) ListGroups(ctx context.Context, siteID string) ([]Group, error) {
	return s.store.ListGroups(ctx, strings.TrimSpace(siteID))
}

func (s *Service) GetGroup(ctx context.Context, id string) (Group, error) {
	return s.store.GetGroup(ctx, id)
}

// CreateGroup checks the parent site first so a missing site is ErrNotFound
// rather than a constraint failure.
func (s *Service) CreateGroup(ctx context.Context, group Group) (Group, error) {
	group = normalizeGroup(group)
	if _, err := s.store.GetSite(ctx, group.SiteID); err != nil {
		return Group{}, err
	}
	return s.store.CreateGroup(ctx, group)
}

func (s *Service) UpdateGroup(ctx context.Context, id string, group Group) (Group, error) {
	group = normalizeGroup(group)
	if _, err := s.store.GetSite(ctx, group.SiteID); err != nil {
		return Group{}, err
	}
	return s.store.UpdateGroup(ctx, id, group)
}

func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	return s.store.DeleteGroup(ctx, id)
}

func normalizeSite(site Site) Site {
	site.Name = strings.TrimSpace(site.Name)
	site.Address = strings.TrimSpace(site.Address)
	site.City = strings.TrimSpace(site.City)
	site.Phone = strings.TrimSpace(site.Phone)
	return site
}

func normalizeGroup(group Group) Group {
	group.SiteID = strings.TrimSpace(group.SiteID)
	group.Name = strings.TrimSpace(group.Name)
	group.Description = strings.TrimSpace(group.Description)
	return group
}
