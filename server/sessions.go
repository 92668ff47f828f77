package server

import (
	"net/http"

	"github.com/teranos/wmsnav/logger"
)

// HandleSessions mounts a new view session for ?tab=
func (s *WMSServer) HandleSessions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s.getState() != ServerStateRunning {
		writeError(w, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	sess := s.registry.Mount(r.Context(), tabParam(r))
	w.Header().Set("Location", "/api/wms/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

// HandleSession serves one session: GET snapshot, PATCH ?tab= navigation, DELETE teardown
func (s *WMSServer) HandleSession(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete) {
		return
	}

	id := r.PathValue("id")
	sess, err := s.registry.Get(id)
	if err != nil {
		s.handleError(w, err, "Session lookup failed")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, sess.Snapshot())

	case http.MethodPatch:
		if _, err := sess.Navigate(r.Context(), tabParam(r)); err != nil {
			s.handleError(w, err, "Navigation failed")
			return
		}
		writeJSON(w, http.StatusOK, sess.Snapshot())

	case http.MethodDelete:
		if err := s.registry.Close(id); err != nil {
			s.handleError(w, err, "Session teardown failed")
			return
		}
		s.logger.Debugw("Session closed over HTTP", logger.FieldSessionID, id)
		w.WriteHeader(http.StatusNoContent)
	}
}
