package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"hrportal/internal/platform/cache"
)

const statsCacheKey = "dashboard:stats"

type Service struct {
	store    StoreAPI
	cache    cache.Store
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(store StoreAPI, c cache.Store, cacheTTL time.Duration) *Service {
	return &Service{store: store, cache: c, cacheTTL: cacheTTL, now: time.Now}
}

// Stats gathers the aggregate counters concurrently. Results are cached for
// cacheTTL so the dashboard does not fan out on every page view.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		var cached Stats
		found, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			slog.Warn("dashboard cache read failed", "err", err)
		} else if found {
			return cached, nil
		}
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats := Stats{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalEmployees, stats.ActiveEmployees, err = s.store.CountEmployees(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingRegistrations, err = s.store.CountPendingRegistrations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PendingLeaves, err = s.store.CountPendingLeaves(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.OnLeaveToday, err = s.store.CountOnLeave(gctx, today)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Sites, err = s.store.CountSites(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Groups, err = s.store.CountGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
			slog.Warn("dashboard cache write failed", "err", err)
		}
	}
	return stats, nil
}

// Invalidate drops cached stats after a write that changes them.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		slog.Warn("dashboard cache invalidate failed", "err", err)
	}
}
