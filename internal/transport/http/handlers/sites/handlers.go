package siteshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/domain/sites"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

// Invalidator is told when site or group counts change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Handler struct {
	Service  *sites.Service
	Policies middleware.PolicySource
	Audit    audit.Recorder
	Stats    Invalidator
}

func NewHandler(service *sites.Service, policies middleware.PolicySource, recorder audit.Recorder, stats Invalidator) *Handler {
	return &Handler{Service: service, Policies: policies, Audit: recorder, Stats: stats}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	canManage := middleware.RequireCapability(permissions.CanManageEmployees, h.Policies)
	r.Route("/sites", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.HandleListSites)
		r.With(canManage).Post("/", h.HandleCreateSite)

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.HandleListGroups)
			r.With(canManage).Post("/", h.HandleCreateGroup)
			r.Get("/{id}", h.HandleGetGroup)
			r.With(canManage).Put("/{id}", h.HandleUpdateGroup)
			r.With(canManage).Delete("/{id}", h.HandleDeleteGroup)
		})

		r.Get("/{id}", h.HandleGetSite)
		r.With(canManage).Put("/{id}", h.HandleUpdateSite)
		r.With(canManage).Delete("/{id}", h.HandleDeleteSite)
	})
}

func (h *Handler) HandleListSites(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.ListSites(r.Context())
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) HandleGetSite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	site, err := h.Service.GetSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, site, reqID)
}

func (h *Handler) HandleCreateSite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, ok := decodeSite(w, r, reqID)
	if !ok {
		return
	}
	site, err := h.Service.CreateSite(r.Context(), payload)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionSiteCreate, "site", site.ID, nil, site)
	api.Created(w, site, reqID)
}

func (h *Handler) HandleUpdateSite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, ok := decodeSite(w, r, reqID)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	before, err := h.Service.GetSite(r.Context(), id)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	site, err := h.Service.UpdateSite(r.Context(), id, payload)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionSiteUpdate, "site", site.ID, before, site)
	api.Success(w, site, reqID)
}

func (h *Handler) HandleDeleteSite(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteSite(r.Context(), id); err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionSiteDelete, "site", id, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	list, err := h.Service.ListGroups(r.Context(), r.URL.Query().Get("site_id"))
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, list, reqID)
}

func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	group, err := h.Service.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, group, reqID)
}

func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, ok := decodeGroup(w, r, reqID)
	if !ok {
		return
	}
	group, err := h.Service.CreateGroup(r.Context(), payload)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionGroupCreate, "group", group.ID, nil, group)
	api.Created(w, group, reqID)
}

func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	payload, ok := decodeGroup(w, r, reqID)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	before, err := h.Service.GetGroup(r.Context(), id)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	group, err := h.Service.UpdateGroup(r.Context(), id, payload)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionGroupUpdate, "group", group.ID, before, group)
	api.Success(w, group, reqID)
}

func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteGroup(r.Context(), id); err != nil {
		writeError(w, err, reqID)
		return
	}
	h.changed(r, audit.ActionGroupDelete, "group", id, nil, nil)
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func decodeSite(w http.ResponseWriter, r *http.Request, reqID string) (sites.Site, bool) {
	var payload sites.Site
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return sites.Site{}, false
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	return payload, !validator.Reject(w, reqID)
}

func decodeGroup(w http.ResponseWriter, r *http.Request, reqID string) (sites.Group, bool) {
	var payload sites.Group
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return sites.Group{}, false
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	return payload, !validator.Reject(w, reqID)
}

// changed records the write and drops cached dashboard counters.
func (h *Handler) changed(r *http.Request, action, entityType, entityID string, before, after any) {
	if h.Stats != nil {
		h.Stats.Invalidate(r.Context())
	}
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), audit.Entry{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
		IP:         shared.ClientIP(r),
		Before:     before,
		After:      after,
	}); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, sites.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "site or group not found", reqID)
	case errors.Is(err, sites.ErrConflict):
		api.Fail(w, http.StatusConflict, "conflict", "name already in use", reqID)
	case errors.Is(err, sites.ErrHasGroups):
		api.Fail(w, http.StatusConflict, "site_has_groups", "site still has groups", reqID)
	default:
		slog.Error("sites request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}
