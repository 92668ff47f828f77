package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/teranos/wmsnav/logger"
)

// setupHTTPRoutes configures all HTTP handlers
func (s *WMSServer) setupHTTPRoutes() {
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))
	s.mux.HandleFunc("/wms", s.corsMiddleware(s.HandleWMS))                                    // Navigate: 308 on alias, 404 on unknown tab
	s.mux.HandleFunc("/api/wms/tabs", s.corsMiddleware(s.rateLimit(s.HandleTabs)))             // Canonical tabs and redirect table (GET)
	s.mux.HandleFunc("/api/wms/resolve", s.corsMiddleware(s.rateLimit(s.HandleResolve)))       // Resolve ?tab= (GET)
	s.mux.HandleFunc("/api/wms/sessions", s.corsMiddleware(s.rateLimit(s.HandleSessions)))     // Mount a session (POST)
	s.mux.HandleFunc("/api/wms/sessions/{id}", s.corsMiddleware(s.rateLimit(s.HandleSession))) // Snapshot/navigate/teardown (GET/PATCH/DELETE)
	s.mux.HandleFunc("/api/wms/events", s.corsMiddleware(s.rateLimit(s.HandleEvents)))         // Recent telemetry (GET)
	s.mux.HandleFunc("/ws/wms/sessions/{id}", s.corsMiddleware(s.HandleSessionWebSocket))      // Readiness stream
}

// corsMiddleware adds CORS headers for configured origins and answers preflight requests
func (s *WMSServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		start := time.Now()
		next(w, r)
		s.logger.Debugw("HTTP request",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldRemote, r.RemoteAddr,
			logger.FieldDuration, time.Since(start),
		)
	}
}

// rateLimit rejects clients exceeding server.rate_limit_per_minute
func (s *WMSServer) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

// requireMethod writes 405 and returns false unless r.Method is one of methods
func requireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
