package dashboardhandler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/dashboard"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type StatsSource interface {
	Stats(ctx context.Context) (dashboard.Stats, error)
}

type Handler struct {
	Stats    StatsSource
	Policies middleware.PolicySource
}

func NewHandler(stats StatsSource, policies middleware.PolicySource) *Handler {
	return &Handler{Stats: stats, Policies: policies}
}

// Overview is the dashboard as one viewer sees it.
type Overview struct {
	Stats dashboard.Stats      `json:"stats"`
	Cards []dashboard.StatCard `json:"cards"`
	Tiles []dashboard.Tile     `json:"tiles"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/stats", h.HandleStats)
		r.Get("/overview", h.HandleOverview)
		r.Get("/stats.pdf", h.HandleStatsPDF)
	})
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	stats, err := h.Stats.Stats(r.Context())
	if err != nil {
		slog.Error("dashboard stats failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to load dashboard stats", reqID)
		return
	}
	api.Success(w, stats, reqID)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	overview, ok := h.overview(w, r)
	if !ok {
		return
	}
	api.Success(w, overview, reqID)
}

func (h *Handler) HandleStatsPDF(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	overview, ok := h.overview(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := dashboard.WritePDF(&buf, "HR dashboard", overview.Cards, overview.Stats); err != nil {
		slog.Error("dashboard pdf failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "failed to render report", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=dashboard.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("dashboard pdf write failed", "err", err)
	}
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) (Overview, bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	policy, err := h.Policies.Policy(r.Context())
	if err != nil {
		slog.Error("load policy failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
		return Overview{}, false
	}
	stats, err := h.Stats.Stats(r.Context())
	if err != nil {
		slog.Error("dashboard stats failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "stats_failed", "failed to load dashboard stats", reqID)
		return Overview{}, false
	}
	viewer := middleware.Viewer(user)
	cards := dashboard.StatCards(policy, viewer, stats)
	if cards == nil {
		cards = []dashboard.StatCard{}
	}
	return Overview{
		Stats: stats,
		Cards: cards,
		Tiles: dashboard.VisibleTiles(policy, viewer),
	}, true
}
