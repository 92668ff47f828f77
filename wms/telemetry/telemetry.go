// Package telemetry defines the event sinks that record navigation decisions.
//
// Two record shapes exist. A RouteEvent is written once per tab resolution
// and an OverlayEvent once per persona overlay evaluation. Sinks are
// fire-and-forget: they never return errors to the caller, so a broken sink
// can not change how a tab resolves.
package telemetry

import (
	"context"
	"sync"
	"time"
)

// Overlay actions recorded in OverlayEvent.Action.
const (
	ActionApplied = "applied"
	ActionSkipped = "skipped"
)

// RouteEvent records one tab resolution.
type RouteEvent struct {
	Incoming   string    `json:"incoming"`
	Normalized string    `json:"normalized"`
	Resolved   string    `json:"resolved"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

// OverlayEvent records one persona overlay decision.
type OverlayEvent struct {
	Persona    string    `json:"persona"`
	Submodule  string    `json:"submodule"`
	HasOverlay bool      `json:"hasOverlay"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

// RouteSink receives route resolution records.
type RouteSink interface {
	RecordRoute(ctx context.Context, ev RouteEvent)
}

// OverlaySink receives overlay decision records.
type OverlaySink interface {
	RecordOverlay(ctx context.Context, ev OverlayEvent)
}

// Sink receives both record shapes.
type Sink interface {
	RouteSink
	OverlaySink
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRoute(context.Context, RouteEvent)     {}
func (Nop) RecordOverlay(context.Context, OverlayEvent) {}

// Fanout forwards each record to every sink, in order.
type Fanout []Sink

func (f Fanout) RecordRoute(ctx context.Context, ev RouteEvent) {
	for _, s := range f {
		if s != nil {
			s.RecordRoute(ctx, ev)
		}
	}
}

func (f Fanout) RecordOverlay(ctx context.Context, ev OverlayEvent) {
	for _, s := range f {
		if s != nil {
			s.RecordOverlay(ctx, ev)
		}
	}
}

// Recorder keeps records in memory. Used by tests and by `wmsnav resolve --trace`.
type Recorder struct {
	mu       sync.Mutex
	routes   []RouteEvent
	overlays []OverlayEvent
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordRoute(_ context.Context, ev RouteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, ev)
}

func (r *Recorder) RecordOverlay(_ context.Context, ev OverlayEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overlays = append(r.overlays, ev)
}

// Routes returns a copy of the recorded route events.
func (r *Recorder) Routes() []RouteEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RouteEvent(nil), r.routes...)
}

// Overlays returns a copy of the recorded overlay events.
func (r *Recorder) Overlays() []OverlayEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OverlayEvent(nil), r.overlays...)
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = nil
	r.overlays = nil
}
