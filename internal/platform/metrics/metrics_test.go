package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func routed(pattern string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, pattern)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCollectorLabelsByRouteAndCode(t *testing.T) {
	c := New()
	c.Record(routed("/api/sites/{id}"), http.StatusOK, 10*time.Millisecond)
	c.Record(routed("/api/sites/{id}"), http.StatusNotFound, 20*time.Millisecond)
	c.Record(httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusTooManyRequests, 0)

	body := scrape(t, c)
	require.Contains(t, body, `hrportal_http_requests_total{code="200",route="/api/sites/{id}"} 1`)
	require.Contains(t, body, `hrportal_http_requests_total{code="404",route="/api/sites/{id}"} 1`)
	require.Contains(t, body, `hrportal_http_requests_total{code="429",route="unknown"} 1`)
	require.Contains(t, body, `hrportal_http_request_duration_seconds_count{route="/api/sites/{id}"} 2`)
}

func TestCollectorEnqueued(t *testing.T) {
	c := New()
	c.Enqueued(nil)
	c.Enqueued(nil)
	c.Enqueued(errors.New("redis down"))

	body := scrape(t, c)
	require.Contains(t, body, `hrportal_tasks_enqueued_total{result="ok"} 2`)
	require.Contains(t, body, `hrportal_tasks_enqueued_total{result="error"} 1`)
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Record(routed("/healthz"), http.StatusOK, time.Millisecond)
		}()
	}
	wg.Wait()
	require.Contains(t, scrape(t, c), `hrportal_http_requests_total{code="200",route="/healthz"} 50`)
}

func TestNilCollectorHandlerUnavailable(t *testing.T) {
	var c *Collector
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
