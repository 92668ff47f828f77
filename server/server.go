// Package server exposes tab resolution, the unknown-tab page and view
// sessions over HTTP, with a websocket that streams readiness changes.
package server

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/db"
	"github.com/teranos/wmsnav/wms/persona"
	"github.com/teranos/wmsnav/wms/session"
	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/telemetry"
)

// ServerState tracks the shutdown phase
type ServerState int32

const (
	ServerStateRunning ServerState = iota
	ServerStateDraining
	ServerStateStopped
)

// WMSServer serves the warehouse navigation API
type WMSServer struct {
	db       *sql.DB
	logger   *zap.SugaredLogger
	sink     telemetry.Sink
	resolver *tab.Resolver
	registry *session.Registry

	allowedOrigins []string
	limiter        *clientLimiter
	mux            *http.ServeMux
	httpServer     *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	state  atomic.Int32

	startedAt time.Time
}

// NewWMSServer wires the resolver, overlay gate and session registry. database
// may be nil, in which case persona selection always falls back to the default
// and telemetry only goes to the log.
func NewWMSServer(database *sql.DB, cfg *am.Config, log *zap.SugaredLogger) *WMSServer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg == nil {
		cfg = &am.Config{}
	}

	sinks := telemetry.Fanout{telemetry.NewZapSink(log.Named("wms"))}
	var store persona.Store
	if database != nil {
		sinks = append(sinks, telemetry.NewSQLSink(database, log.Named("telemetry")))
		store = db.NewClientStore(database)
	}

	resolver := tab.NewResolver(sinks, nil)
	registry := session.NewRegistry(session.Deps{
		Store:           store,
		Resolver:        resolver,
		Gate:            persona.NewGate(sinks, nil),
		DataLoadDelay:   cfg.DataLoadDelay(),
		ConnectionDelay: cfg.ConnectionDelay(),
		Logger:          log.Named("session"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &WMSServer{
		db:             database,
		logger:         log,
		sink:           sinks,
		resolver:       resolver,
		registry:       registry,
		allowedOrigins: cfg.GetServerAllowedOrigins(),
		limiter:        newClientLimiter(cfg.Server.RateLimitPerMinute),
		mux:            http.NewServeMux(),
		ctx:            ctx,
		cancel:         cancel,
		startedAt:      time.Now(),
	}
	s.setupHTTPRoutes()
	return s
}

// Handler returns the routed handler, for tests and embedding
func (s *WMSServer) Handler() http.Handler {
	return s.mux
}

// Sessions returns the live session registry
func (s *WMSServer) Sessions() *session.Registry {
	return s.registry
}

// ApplyConfig updates runtime-tunable settings. It matches am.ReloadCallback.
func (s *WMSServer) ApplyConfig(cfg *am.Config) error {
	s.registry.SetDelays(cfg.DataLoadDelay(), cfg.ConnectionDelay())
	s.logger.Infow("Applied config reload",
		"data_load_delay_ms", cfg.WMS.DataLoadDelayMS,
		"connection_delay_ms", cfg.WMS.ConnectionDelayMS,
	)
	return nil
}
