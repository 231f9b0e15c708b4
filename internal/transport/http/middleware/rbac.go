package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/transport/http/api"
)

// PolicySource yields the policy built from the current permissions document.
type PolicySource interface {
	Policy(ctx context.Context) (permissions.Policy, error)
}

func Viewer(user auth.UserContext) permissions.Viewer {
	return permissions.Viewer{UserID: user.UserID, Role: user.RoleName}
}

// RequireCapability allows the request when the caller's role holds capability.
func RequireCapability(capability permissions.Capability, src PolicySource) func(http.Handler) http.Handler {
	return requirePolicy(src, func(p permissions.Policy, v permissions.Viewer) bool {
		return p.Can(v, capability)
	})
}

// RequireAdmin allows admin and super_admin callers.
func RequireAdmin(src PolicySource) func(http.Handler) http.Handler {
	return requirePolicy(src, func(p permissions.Policy, v permissions.Viewer) bool {
		return p.IsAdmin(v)
	})
}

func requirePolicy(src PolicySource, allowed func(permissions.Policy, permissions.Viewer) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			policy, err := src.Policy(r.Context())
			if err != nil {
				slog.Error("load policy failed", "err", err, "requestId", GetRequestID(r.Context()))
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
				return
			}
			if !allowed(policy, Viewer(user)) {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
