package confighandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service *permissions.Service
	Audit   audit.Recorder
}

func NewHandler(service *permissions.Service, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

type savePermissionsRequest struct {
	Permissions permissions.Document `json:"permissions"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/config", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/permissions", h.HandleGetPermissions)
		r.With(middleware.RequireCapability(permissions.CanManagePermissions, h.Service)).Put("/permissions", h.HandleSavePermissions)
	})
}

func (h *Handler) HandleGetPermissions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	doc, err := h.Service.Document(r.Context())
	if err != nil {
		slog.Error("load permissions failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "permissions_load_failed", "failed to load permissions", reqID)
		return
	}
	api.Success(w, doc, reqID)
}

func (h *Handler) HandleSavePermissions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload savePermissionsRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	if payload.Permissions == nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "permissions", Reason: "is required"}})
		return
	}

	user, _ := middleware.GetUser(r.Context())
	before, err := h.Service.Document(r.Context())
	if err != nil {
		slog.Warn("load permissions before save failed", "err", err)
	}

	saved, err := h.Service.Save(r.Context(), payload.Permissions, user.UserID)
	if err != nil {
		switch {
		case errors.Is(err, permissions.ErrUnknownRole),
			errors.Is(err, permissions.ErrUnknownCapability),
			errors.Is(err, permissions.ErrMissingRole),
			errors.Is(err, permissions.ErrMissingCapability),
			errors.Is(err, permissions.ErrLockedCapability):
			shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "permissions", Reason: err.Error()}})
		default:
			slog.Error("save permissions failed", "err", err, "requestId", reqID)
			api.Fail(w, http.StatusInternalServerError, "permissions_save_failed", "failed to save permissions", reqID)
		}
		return
	}

	if h.Audit != nil {
		var changes []permissions.Change
		if before != nil {
			changes = saved.Diff(before)
		}
		if err := h.Audit.Record(r.Context(), audit.Entry{
			ActorID:    user.UserID,
			Action:     audit.ActionPermissionsUpdate,
			EntityType: "app_config",
			EntityID:   "permissions",
			RequestID:  reqID,
			IP:         shared.ClientIP(r),
			Before:     before,
			After:      map[string]any{"permissions": saved, "changes": changes},
		}); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionPermissionsUpdate, "err", err)
		}
	}
	api.Success(w, saved, reqID)
}
