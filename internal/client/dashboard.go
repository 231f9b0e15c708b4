package client

import (
	"context"
	"net/http"

	"hrportal/internal/domain/dashboard"
)

type Overview struct {
	Stats dashboard.Stats      `json:"stats"`
	Cards []dashboard.StatCard `json:"cards"`
	Tiles []dashboard.Tile     `json:"tiles"`
}

func (c *Client) DashboardStats(ctx context.Context) (dashboard.Stats, error) {
	var out dashboard.Stats
	err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil, &out)
	return out, err
}

// DashboardOverview returns the stats with the cards and tiles the current
// viewer is allowed to see.
func (c *Client) DashboardOverview(ctx context.Context) (Overview, error) {
	var out Overview
	err := c.do(ctx, http.MethodGet, "/api/dashboard/overview", nil, nil, &out)
	return out, err
}
