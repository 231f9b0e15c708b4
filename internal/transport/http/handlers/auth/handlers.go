package authhandler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/navigation"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Handler struct {
	Service   *auth.Service
	Policies  middleware.PolicySource
	Audit     audit.Recorder
	RateLimit int
}

func NewHandler(service *auth.Service, policies middleware.PolicySource, recorder audit.Recorder, rateLimit int) *Handler {
	return &Handler{Service: service, Policies: policies, Audit: recorder, RateLimit: rateLimit}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=secretary employee"`
	SiteID    string `json:"site_id" validate:"omitempty,uuid"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Session is what a signed-in client needs to render its shell: who it is,
// which navigation entries it may reach and which capability flags it holds.
type Session struct {
	User         auth.User                       `json:"user"`
	RoleLabel    string                          `json:"role_label"`
	IsAdmin      bool                            `json:"is_admin"`
	IsEmployee   bool                            `json:"is_employee"`
	Capabilities map[permissions.Capability]bool `json:"capabilities"`
	Navigation   []navigation.Entry              `json:"navigation"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(h.RateLimit, time.Minute))
			r.Post("/register", h.HandleRegister)
			r.Post("/login", h.HandleLogin)
			r.Post("/request-reset", h.HandleRequestReset)
			r.Post("/reset-password", h.HandleResetPassword)
		})
		r.Get("/verify-reset-token", h.HandleVerifyResetToken)
		r.With(middleware.RequireAuth).Get("/me", h.HandleMe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.Policies))
			r.Get("/pending-registrations", h.HandlePendingRegistrations)
			r.Post("/approve-registration/{userId}", h.HandleApproveRegistration)
			r.Post("/reject-registration/{userId}", h.HandleRejectRegistration)
		})
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, reqID) {
		return
	}

	user, err := h.Service.Register(r.Context(), auth.RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
		SiteID:    payload.SiteID,
	})
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Created(w, user, reqID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, reqID) {
		return
	}

	token, user, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	session, err := h.session(r, user)
	if err != nil {
		slog.Error("build session failed", "userId", user.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to load permissions", reqID)
		return
	}
	api.Success(w, map[string]any{"token": token, "session": session}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	current, _ := middleware.GetUser(r.Context())
	user, err := h.Service.Me(r.Context(), current.UserID)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	session, err := h.session(r, user)
	if err != nil {
		slog.Error("build session failed", "userId", user.ID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "session_error", "failed to load permissions", reqID)
		return
	}
	api.Success(w, session, reqID)
}

func (h *Handler) session(r *http.Request, user auth.User) (Session, error) {
	policy, err := h.Policies.Policy(r.Context())
	if err != nil {
		return Session{}, err
	}
	viewer := permissions.Viewer{UserID: user.ID, Role: user.Role}
	caps := make(map[permissions.Capability]bool, len(permissions.Capabilities))
	for _, c := range permissions.Capabilities {
		caps[c] = policy.Can(viewer, c)
	}
	return Session{
		User:         user,
		RoleLabel:    auth.RoleLabel(user.Role),
		IsAdmin:      policy.IsAdmin(viewer),
		IsEmployee:   policy.IsEmployee(viewer),
		Capabilities: caps,
		Navigation:   navigation.For(policy, viewer),
	}, nil
}

func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload resetRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, reqID) {
		return
	}
	if err := h.Service.RequestReset(r.Context(), payload.Email); err != nil {
		// The response never reveals whether the address exists.
		slog.Warn("password reset request failed", "err", err, "requestId", reqID)
	}
	api.Success(w, map[string]string{"status": "reset_requested"}, reqID)
}

func (h *Handler) HandleVerifyResetToken(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Service.VerifyResetToken(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, map[string]bool{"valid": true}, reqID)
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload resetPasswordRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	validator := shared.NewValidator()
	validator.Struct(payload)
	if validator.Reject(w, reqID) {
		return
	}
	userID, err := h.Service.ResetPassword(r.Context(), payload.Token, payload.NewPassword)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	// the caller is anonymous; the token holder acts on their own account
	h.record(r, audit.Entry{ActorID: userID, Action: audit.ActionPasswordReset, EntityType: "user", EntityID: userID})
	api.Success(w, map[string]string{"status": "password_reset"}, reqID)
}

func (h *Handler) HandlePendingRegistrations(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	pending, err := h.Service.PendingRegistrations(r.Context())
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	api.Success(w, pending, reqID)
}

func (h *Handler) HandleApproveRegistration(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	userID := chi.URLParam(r, "userId")
	user, err := h.Service.ApproveRegistration(r.Context(), userID)
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.record(r, audit.Entry{
		Action:     audit.ActionRegistrationApprove,
		EntityType: "user",
		EntityID:   user.ID,
		Before:     map[string]string{"status": auth.UserStatusPending},
		After:      map[string]string{"status": user.Status},
	})
	api.Success(w, user, reqID)
}

func (h *Handler) HandleRejectRegistration(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	userID := chi.URLParam(r, "userId")
	user, err := h.Service.RejectRegistration(r.Context(), userID, r.URL.Query().Get("reason"))
	if err != nil {
		writeError(w, err, reqID)
		return
	}
	h.record(r, audit.Entry{
		Action:     audit.ActionRegistrationReject,
		EntityType: "user",
		EntityID:   user.ID,
		Before:     map[string]string{"status": auth.UserStatusPending},
		After:      map[string]string{"status": user.Status, "reason": user.RejectionReason},
	})
	api.Success(w, user, reqID)
}

func (h *Handler) record(r *http.Request, entry audit.Entry) {
	if h.Audit == nil {
		return
	}
	if user, ok := middleware.GetUser(r.Context()); ok {
		entry.ActorID = user.UserID
	}
	entry.RequestID = middleware.GetRequestID(r.Context())
	entry.IP = shared.ClientIP(r)
	if err := h.Audit.Record(r.Context(), entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "err", err)
	}
}

func writeError(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
	case errors.Is(err, auth.ErrAccountInactive):
		api.Fail(w, http.StatusForbidden, "account_inactive", "account is not active", reqID)
	case errors.Is(err, auth.ErrInvalidToken):
		api.Fail(w, http.StatusBadRequest, "invalid_token", "invalid or expired token", reqID)
	case errors.Is(err, auth.ErrWeakPassword):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "password", Reason: "must be at least 8 characters"}})
	case errors.Is(err, auth.ErrInvalidRole):
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "role", Reason: "cannot be requested at registration"}})
	case errors.Is(err, auth.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
	case errors.Is(err, auth.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", reqID)
	case errors.Is(err, auth.ErrNotPending):
		api.Fail(w, http.StatusConflict, "not_pending", "registration is not pending", reqID)
	default:
		slog.Error("auth request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}
