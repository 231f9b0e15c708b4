package dashboard

import (
	"context"
	"time"
)

type StoreAPI interface {
	CountEmployees(ctx context.Context) (total int, active int, err error)
	CountPendingRegistrations(ctx context.Context) (int, error)
	CountPendingLeaves(ctx context.Context) (int, error)
	CountOnLeave(ctx context.Context, day time.Time) (int, error)
	CountSites(ctx context.Context) (int, error)
	CountGroups(ctx context.Context) (int, error)
}

var _ StoreAPI = (*Store)(nil)
