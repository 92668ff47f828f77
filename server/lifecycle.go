package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/sym"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// getState returns the current server state
func (s *WMSServer) getState() ServerState {
	return ServerState(s.state.Load())
}

// setState atomically updates the server state
func (s *WMSServer) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

// stateString returns human-readable state name
func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start listens on port and serves until Stop. It returns nil after a clean shutdown.
func (s *WMSServer) Start(port int) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", port)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Stop
func (s *WMSServer) Serve(listener net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	logger.SymbolInfow(s.logger, sym.Route, "Server ready",
		"url", fmt.Sprintf("http://%s", listener.Addr()),
	)

	err := s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "http server failed")
}

// Stop drains HTTP connections, tears down every session and waits for
// websocket goroutines to exit
func (s *WMSServer) Stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	var shutdownErr error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			shutdownErr = errors.Wrap(err, "http shutdown")
		}
	}

	n := s.registry.Len()
	s.registry.CloseAll()
	if n > 0 {
		s.logger.Infow("Closed view sessions", "count", n)
	}

	// Cancel context so websocket writers send a close frame and exit
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		s.logger.Warnw("Timed out waiting for websocket goroutines")
	}

	s.setState(ServerStateStopped)
	return shutdownErr
}
