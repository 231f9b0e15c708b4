package shared

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address without its port. chi's RealIP
// middleware has already applied forwarding headers to RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
