package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"hrportal/internal/domain/sites"
)

func (c *Client) ListSites(ctx context.Context) ([]sites.Site, error) {
	var out []sites.Site
	err := c.do(ctx, http.MethodGet, "/api/sites", nil, nil, &out)
	return out, err
}

func (c *Client) GetSite(ctx context.Context, id string) (sites.Site, error) {
	var out sites.Site
	err := c.do(ctx, http.MethodGet, "/api/sites/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateSite(ctx context.Context, site sites.Site) (sites.Site, error) {
	if strings.TrimSpace(site.Name) == "" {
		return sites.Site{}, &ValidationError{Field: "name", Reason: "is required"}
	}
	var out sites.Site
	err := c.do(ctx, http.MethodPost, "/api/sites", nil, site, &out)
	return out, err
}

func (c *Client) UpdateSite(ctx context.Context, id string, site sites.Site) (sites.Site, error) {
	if strings.TrimSpace(site.Name) == "" {
		return sites.Site{}, &ValidationError{Field: "name", Reason: "is required"}
	}
	var out sites.Site
	err := c.do(ctx, http.MethodPut, "/api/sites/"+url.PathEscape(id), nil, site, &out)
	return out, err
}

func (c *Client) DeleteSite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sites/"+url.PathEscape(id), nil, nil, nil)
}

// ListGroups returns every group, or only those of siteID when it is set.
func (c *Client) ListGroups(ctx context.Context, siteID string) ([]sites.Group, error) {
	var query url.Values
	if siteID != "" {
		query = url.Values{"site_id": {siteID}}
	}
	var out []sites.Group
	err := c.do(ctx, http.MethodGet, "/api/sites/groups", query, nil, &out)
	return out, err
}

func (c *Client) GetGroup(ctx context.Context, id string) (sites.Group, error) {
	var out sites.Group
	err := c.do(ctx, http.MethodGet, "/api/sites/groups/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateGroup(ctx context.Context, group sites.Group) (sites.Group, error) {
	if err := checkGroup(group); err != nil {
		return sites.Group{}, err
	}
	var out sites.Group
	err := c.do(ctx, http.MethodPost, "/api/sites/groups", nil, group, &out)
	return out, err
}

func (c *Client) UpdateGroup(ctx context.Context, id string, group sites.Group) (sites.Group, error) {
	if err := checkGroup(group); err != nil {
		return sites.Group{}, err
	}
	var out sites.Group
	err := c.do(ctx, http.MethodPut, "/api/sites/groups/"+url.PathEscape(id), nil, group, &out)
	return out, err
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sites/groups/"+url.PathEscape(id), nil, nil, nil)
}

func checkGroup(group sites.Group) error {
	if strings.TrimSpace(group.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(group.SiteID) == "" {
		return &ValidationError{Field: "site_id", Reason: "is required"}
	}
	return nil
}
