package sites

import "context"

type StoreAPI interface {
	ListSites(ctx context.Context) ([]Site, error)
	GetSite(ctx context.Context, id string) (Site, error)
	CreateSite(ctx context.Context, site Site) (Site, error)
	UpdateSite(ctx context.Context, id string, site Site) (Site, error)
	DeleteSite(ctx context.Context, id string) error
	ListGroups(ctx context.Context, siteID string) ([]Group, error)
	GetGroup(ctx context.Context, id string) (Group, error)
	CreateGroup(ctx context.Context, group Group) (Group, error)
	UpdateGroup(ctx context.Context, id string, group Group) (Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
