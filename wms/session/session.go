// Package session models one mounted warehouse view: the persona read at
// mount, the resolved tab, the shared filter state and the readiness flags.
//
// For every navigation the order is fixed: normalize and resolve, record the
// route, then evaluate the persona overlay. The overlay is re-evaluated only
// when the (persona, resolved tab) pair changes.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/wms/persona"
	"github.com/teranos/wmsnav/wms/readiness"
	"github.com/teranos/wmsnav/wms/tab"
)

// ErrClosed is returned when navigating a session after teardown.
var ErrClosed = errors.New("session closed")

// Deps are the collaborators a session needs. Zero values are usable:
// no store means the default persona, nil resolver and gate discard records.
type Deps struct {
	Store           persona.Store
	Resolver        *tab.Resolver
	Gate            *persona.Gate
	DataLoadDelay   time.Duration
	ConnectionDelay time.Duration
	Logger          *zap.SugaredLogger
}

type overlayKey struct {
	persona  persona.Persona
	resolved tab.Tab
}

// Session is safe for concurrent use.
type Session struct {
	id   string
	deps Deps
	log  *zap.SugaredLogger

	data *readiness.Flag
	conn *readiness.Flag

	mu          sync.Mutex
	persona     persona.Persona
	resolution  tab.Resolution
	state       persona.SharedState
	decision    persona.Decision
	lastOverlay *overlayKey
	closed      bool
	done        chan struct{}
	mountedAt   time.Time
}

// Mount creates a session for rawTab and starts its readiness flags.
func Mount(ctx context.Context, id string, deps Deps, rawTab string) *Session {
	if deps.Resolver == nil {
		deps.Resolver = tab.NewResolver(nil, nil)
	}
	if deps.Gate == nil {
		deps.Gate = persona.NewGate(nil, nil)
	}
	base := deps.Logger
	if base == nil {
		base = zap.NewNop().Sugar()
	}

	s := &Session{
		id:        id,
		deps:      deps,
		log:       base.With(logger.FieldSessionID, id),
		data:      readiness.NewDataLoad(),
		conn:      readiness.NewConnection(),
		state:     persona.SharedState{Filters: map[string]string{}},
		done:      make(chan struct{}),
		mountedAt: time.Now(),
	}

	p, err := persona.LoadSelected(ctx, deps.Store)
	if err != nil {
		s.log.Warnw("Falling back to default persona", "persona", p, "error", err)
	}
	s.persona = p

	s.mu.Lock()
	s.navigateLocked(ctx, rawTab)
	s.mu.Unlock()

	s.data.Start(deps.DataLoadDelay)
	s.conn.Start(deps.ConnectionDelay)

	logger.OpenInfow(s.log, "Session mounted",
		"persona", s.persona,
		"resolved", s.resolution.Resolved,
		"reason", s.resolution.Reason,
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Persona returns the persona read at mount.
func (s *Session) Persona() persona.Persona {
	return s.persona
}

// Navigate resolves a new raw tab value for this session.
func (s *Session) Navigate(ctx context.Context, rawTab string) (tab.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return tab.Resolution{}, errors.Wrapf(ErrClosed, "navigate session %s", s.id)
	}
	return s.navigateLocked(ctx, rawTab), nil
}

func (s *Session) navigateLocked(ctx context.Context, rawTab string) tab.Resolution {
	ctx = logger.WithSessionID(ctx, s.id)
	res := s.deps.Resolver.Resolve(ctx, rawTab)
	s.resolution = res

	key := overlayKey{persona: s.persona, resolved: res.Resolved}
	if s.lastOverlay == nil || *s.lastOverlay != key {
		s.decision = s.deps.Gate.Evaluate(ctx, &s.state, s.persona, res.Resolved)
		s.lastOverlay = &key
	}
	return res
}

// Resolution returns the latest resolution.
func (s *Session) Resolution() tab.Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution
}

// DataLoad returns the loading → ready flag.
func (s *Session) DataLoad() *readiness.Flag {
	return s.data
}

// Connection returns the connecting → connected flag.
func (s *Session) Connection() *readiness.Flag {
	return s.conn
}

// Close stops the readiness flags. Further navigation fails with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.data.Stop()
	s.conn.Stop()
	logger.CloseInfow(s.log, "Session closed", "lifetime", time.Since(s.mountedAt).String())
}

// Done is closed by Close.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot is a point-in-time copy of a session, safe to serialize.
type Snapshot struct {
	ID         string              `json:"id"`
	Persona    persona.Persona     `json:"persona"`
	Resolution tab.Resolution      `json:"resolution"`
	State      persona.SharedState `json:"state"`
	Overlay    persona.Decision    `json:"overlay"`
	Data       readiness.State     `json:"data"`
	Connection readiness.State     `json:"connection"`
	Closed     bool                `json:"closed"`
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		Persona:    s.persona,
		Resolution: s.resolution,
		State:      s.state.Clone(),
		Overlay:    s.decision,
		Data:       s.data.State(),
		Connection: s.conn.State(),
		Closed:     s.closed,
	}
}
