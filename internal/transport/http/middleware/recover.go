package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"hrportal/internal/transport/http/api"
)

// Recoverer turns a panicking handler into a 500 envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path),
				slog.String("requestId", GetRequestID(r.Context())),
				slog.String("stack", string(debug.Stack())),
			)
			api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", GetRequestID(r.Context()))
		}()
		next.ServeHTTP(w, r)
	})
}
