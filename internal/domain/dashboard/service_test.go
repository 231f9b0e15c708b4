package dashboard

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/platform/cache"
)

type fakeStore struct {
	calls   atomic.Int32
	leaveOn time.Time
	err     error
}

func (f *fakeStore) CountEmployees(context.Context) (int, int, error) {
	f.calls.Add(1)
	return 12, 10, nil
}

func (f *fakeStore) CountPendingRegistrations(context.Context) (int, error) { return 2, nil }
func (f *fakeStore) CountPendingLeaves(context.Context) (int, error)        { return 3, f.err }
func (f *fakeStore) CountSites(context.Context) (int, error)                { return 4, nil }
func (f *fakeStore) CountGroups(context.Context) (int, error)               { return 5, nil }

func (f *fakeStore) CountOnLeave(_ context.Context, day time.Time) (int, error) {
	f.leaveOn = day
	return 1, nil
}

func TestStatsAggregatesCounters(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, time.Minute)
	svc.now = func() time.Time { return time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, stats.TotalEmployees)
	require.Equal(t, 10, stats.ActiveEmployees)
	require.Equal(t, 2, stats.PendingRegistrations)
	require.Equal(t, 3, stats.PendingLeaves)
	require.Equal(t, 1, stats.OnLeaveToday)
	require.Equal(t, 4, stats.Sites)
	require.Equal(t, 5, stats.Groups)
	require.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), store.leaveOn)
}

func TestStatsPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeStore{err: boom}, nil, time.Minute)
	_, err := svc.Stats(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestStatsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	store := &fakeStore{}
	svc := NewService(store, cache.NewJSON(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test"), time.Minute)
	ctx := context.Background()

	_, err := svc.Stats(ctx)
	require.NoError(t, err)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, store.calls.Load())

	svc.Invalidate(ctx)
	_, err = svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, store.calls.Load())
}

func tileKeys(tiles []Tile) []string {
	out := make([]string, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, t.Key)
	}
	return out
}

func TestVisibleTiles(t *testing.T) {
	doc := permissions.Defaults()
	policy := permissions.NewPolicy(doc)

	require.Equal(t,
		[]string{"employees", "approve-leaves", "announcements", "behavior", "salaries", "registrations", "permissions"},
		tileKeys(VisibleTiles(policy, permissions.Viewer{Role: auth.RoleAdmin})))
	require.Equal(t,
		[]string{"employees", "approve-leaves", "announcements"},
		tileKeys(VisibleTiles(policy, permissions.Viewer{Role: auth.RoleSecretary})))
	require.Equal(t,
		[]string{"request-leave"},
		tileKeys(VisibleTiles(policy, permissions.Viewer{Role: auth.RoleEmployee})))

	doc[permissions.RoleEmployee][permissions.CanPostAnnouncements] = true
	require.Equal(t,
		[]string{"request-leave", "announcements"},
		tileKeys(VisibleTiles(permissions.NewPolicy(doc), permissions.Viewer{Role: auth.RoleEmployee})))
}

func TestStatCards(t *testing.T) {
	policy := permissions.NewPolicy(permissions.Defaults())
	stats := Stats{TotalEmployees: 7, PendingRegistrations: 2}

	require.Len(t, StatCards(policy, permissions.Viewer{Role: auth.RoleAdmin}, stats), 7)
	require.Len(t, StatCards(policy, permissions.Viewer{Role: auth.RoleSecretary}, stats), 4)
	require.Empty(t, StatCards(policy, permissions.Viewer{Role: auth.RoleEmployee}, stats))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	cards := []StatCard{{Key: "sites", Label: "Sites", Value: 4}}
	require.NoError(t, WritePDF(&buf, "Dashboard", cards, Stats{GeneratedAt: time.Now()}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, "Dashboard", nil, Stats{}))
	require.NotZero(t, buf.Len())
}
