package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/version"
	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/telemetry"
	"github.com/teranos/wmsnav/wms/view"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// tabParam reads ?tab=. An absent parameter and an empty one are the same input.
func tabParam(r *http.Request) string {
	return r.URL.Query().Get("tab")
}

// HandleHealth serves health check endpoint with version info
func (s *WMSServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"version":    versionInfo.Version,
		"commit":     versionInfo.CommitHash,
		"build_time": versionInfo.BuildTime,
		"sessions":   s.registry.Len(),
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"database":   s.db != nil,
	})
}

type tabEntry struct {
	Tab   tab.Tab `json:"tab"`
	Label string  `json:"label"`
	Href  string  `json:"href"`
}

// HandleTabs lists the canonical tabs in display order and the redirect table
func (s *WMSServer) HandleTabs(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	canonical := tab.Canonical()
	tabs := make([]tabEntry, 0, len(canonical))
	for _, t := range canonical {
		tabs = append(tabs, tabEntry{Tab: t, Label: view.Label(t), Href: view.Href(t)})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tabs":      tabs,
		"redirects": tab.Redirects(),
	})
}

// HandleResolve resolves ?tab= and returns the resolution. One route event is recorded.
func (s *WMSServer) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, s.resolver.Resolve(r.Context(), tabParam(r)))
}

type wmsResponse struct {
	Resolution tab.Resolution `json:"resolution"`
	View       view.View      `json:"view"`
}

// HandleWMS is the navigation entry point. Aliases answer 308 to the canonical
// URL, unknown tabs answer 404 with the unknown-tab view.
func (s *WMSServer) HandleWMS(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	res := s.resolver.Resolve(r.Context(), tabParam(r))
	if res.Redirected() {
		http.Redirect(w, r, view.Href(res.Resolved), http.StatusPermanentRedirect)
		return
	}

	v, err := view.For(res.Resolved)
	if err != nil {
		s.handleError(w, err, "Render contract violated")
		return
	}

	status := http.StatusOK
	if res.Resolved.IsInvalid() {
		status = http.StatusNotFound
	}
	writeJSON(w, status, wmsResponse{Resolution: res, View: v})
}

// HandleEvents returns the most recent persisted telemetry, newest first
func (s *WMSServer) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.handleError(w, errors.NewInvalidRequestError("limit must be a positive integer, got %q", raw), "Invalid limit")
			return
		}
		limit = min(n, maxEventLimit)
	}

	routes := []telemetry.RouteEvent{}
	overlays := []telemetry.OverlayEvent{}
	if s.db != nil {
		var err error
		if routes, err = telemetry.RecentRoutes(r.Context(), s.db, limit); err != nil {
			s.handleError(w, err, "Failed to read route events")
			return
		}
		if overlays, err = telemetry.RecentOverlays(r.Context(), s.db, limit); err != nil {
			s.handleError(w, err, "Failed to read overlay events")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"routes":   routes,
		"overlays": overlays,
	})
}
