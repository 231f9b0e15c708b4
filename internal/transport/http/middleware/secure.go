package middleware

import (
	"log/slog"
	"net/http"

	"github.com/unrolled/secure"
)

func SecureHeaders(isProd bool) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:               true,
		ContentTypeNosniff:      true,
		ReferrerPolicy:          "no-referrer",
		PermissionsPolicy:       "geolocation=(), microphone=(), camera=(), payment=()",
		ContentSecurityPolicy:   "default-src 'self'; frame-ancestors 'none'; object-src 'none'",
		CrossOriginOpenerPolicy: "same-origin",
		STSSeconds:              63072000,
		STSIncludeSubdomains:    true,
		STSPreload:              true,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:           !isProd,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				slog.Warn("secure headers blocked request", "err", err, "path", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
