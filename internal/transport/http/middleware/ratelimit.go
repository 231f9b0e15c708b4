package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"hrportal/internal/transport/http/api"
)

// RateLimit limits callers by authenticated user, falling back to client IP.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(actorOrIPKey),
		httprate.WithLimitHandler(limitExceeded),
	)
}

// AuthRateLimit guards login, registration and reset endpoints. Each client IP
// and each submitted email address gets its own budget.
func AuthRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	limit = max(limit, 1)
	byIP := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitExceeded),
	)
	byEmail := httprate.Limit(limit, window,
		httprate.WithKeyFuncs(emailOrIPKey),
		httprate.WithLimitHandler(limitExceeded),
	)
	return func(next http.Handler) http.Handler {
		return byIP(byEmail(next))
	}
}

func limitExceeded(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
}

func actorOrIPKey(r *http.Request) (string, error) {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

func emailOrIPKey(r *http.Request) (string, error) {
	if email := peekJSONField(r, "email"); email != "" {
		return "email:" + strings.ToLower(email), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

// peekJSONField reads a top-level string field from a JSON body and restores
// the body for the next handler.
func peekJSONField(r *http.Request, field string) string {
	if r.Body == nil || r.Method == http.MethodGet {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}
