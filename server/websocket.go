package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/wms/readiness"
	"github.com/teranos/wmsnav/wms/session"
)

// WebSocket timeouts, per the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Clients only send control frames
	maxMessageSize = 512
)

// StatusMessage is pushed to websocket subscribers
type StatusMessage struct {
	Type      string            `json:"type"` // "snapshot" or "readiness"
	Flag      string            `json:"flag,omitempty"`
	State     readiness.State   `json:"state,omitempty"`
	Snapshot  *session.Snapshot `json:"snapshot,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func (s *WMSServer) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// HandleSessionWebSocket streams a session's snapshot followed by each
// readiness transition. The stream ends when the session is closed, the
// client disconnects or the server stops.
func (s *WMSServer) HandleSessionWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.registry.Get(id)
	if err != nil {
		s.handleError(w, err, "Session lookup failed")
		return
	}

	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warnw("WebSocket upgrade failed", logger.FieldSessionID, id, "error", err)
		return
	}

	log := s.logger.With(logger.FieldSessionID, id, logger.FieldRemote, r.RemoteAddr)
	log.Debugw("Status stream opened")

	clientGone := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.readPump(conn, clientGone)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer conn.Close()
		s.writePump(conn, sess, clientGone)
		log.Debugw("Status stream closed")
	}()
}

// readPump discards client frames and signals when the peer goes away
func (s *WMSServer) readPump(conn *websocket.Conn, clientGone chan<- struct{}) {
	defer close(clientGone)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				s.logger.Warnw("WebSocket read error", "error", err)
			}
			return
		}
	}
}

func (s *WMSServer) writePump(conn *websocket.Conn, sess *session.Session, clientGone <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg StatusMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg) == nil
	}

	snap := sess.Snapshot()
	if !write(StatusMessage{Type: "snapshot", Snapshot: &snap, Timestamp: time.Now()}) {
		return
	}

	data, connFlag := sess.DataLoad(), sess.Connection()
	dataDone, connDone := data.Done(), connFlag.Done()
	closed := sess.Done()

	for {
		select {
		case <-dataDone:
			dataDone = nil
			if !write(StatusMessage{Type: "readiness", Flag: data.Name(), State: data.State(), Timestamp: time.Now()}) {
				return
			}

		case <-connDone:
			connDone = nil
			if !write(StatusMessage{Type: "readiness", Flag: connFlag.Name(), State: connFlag.State(), Timestamp: time.Now()}) {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
			return

		case <-clientGone:
			return

		case <-s.ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"))
			return
		}
	}
}
