package server

import (
	"net"
	"net/http"
	"strings"
)

// checkOrigin validates the Origin header against server.allowed_origins.
// Prefix matching admits any port on an allowed host.
func (s *WMSServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Non-browser clients send no origin
	if origin == "" {
		return true
	}

	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}

// clientIP returns the remote host without port
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
