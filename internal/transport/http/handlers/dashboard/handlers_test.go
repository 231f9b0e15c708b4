package dashboardhandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/dashboard"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/transport/http/middleware"
)

type fixedStats struct {
	stats dashboard.Stats
	err   error
}

func (f fixedStats) Stats(context.Context) (dashboard.Stats, error) {
	return f.stats, f.err
}

func serve(t *testing.T, stats StatsSource, role, path string) *httptest.ResponseRecorder {
	t.Helper()
	policies := permissions.NewService(permissions.NewMemoryStore(nil), nil, time.Minute)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api", NewHandler(stats, policies).RegisterRoutes)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: role}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var sample = dashboard.Stats{TotalEmployees: 12, ActiveEmployees: 10, PendingLeaves: 3, PendingRegistrations: 2, Sites: 2, Groups: 5}

func TestOverviewFollowsRole(t *testing.T) {
	decode := func(rec *httptest.ResponseRecorder) Overview {
		var env struct {
			Data Overview `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		return env.Data
	}

	rec := serve(t, fixedStats{stats: sample}, auth.RoleAdmin, "/api/dashboard/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	admin := decode(rec)
	require.Len(t, admin.Cards, 7)

	rec = serve(t, fixedStats{stats: sample}, auth.RoleEmployee, "/api/dashboard/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	employee := decode(rec)
	require.Empty(t, employee.Cards)
	require.Len(t, employee.Tiles, 1)
	require.Equal(t, "request-leave", employee.Tiles[0].Key)
}

func TestStatsRequiresAuth(t *testing.T) {
	rec := serve(t, fixedStats{stats: sample}, "", "/api/dashboard/stats")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, fixedStats{stats: sample}, auth.RoleSecretary, "/api/dashboard/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_employees":12`)
}

func TestStatsFailure(t *testing.T) {
	rec := serve(t, fixedStats{err: errors.New("db down")}, auth.RoleAdmin, "/api/dashboard/stats")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "stats_failed")
}

func TestStatsPDF(t *testing.T) {
	rec := serve(t, fixedStats{stats: sample}, auth.RoleAdmin, "/api/dashboard/stats.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.True(t, len(rec.Body.Bytes()) > 4)
	require.Equal(t, "%PDF", string(rec.Body.Bytes()[:4]))
}
