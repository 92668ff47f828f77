package persona

import (
	"context"
	"time"

	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/telemetry"
)

// Overlay is the set of defaults a persona receives on the dashboard.
type Overlay struct {
	Filters      map[string]string `json:"filters"`
	ActiveSubTab string            `json:"activeSubTab"`
}

var overlays = map[Persona]Overlay{
	Operador: {
		Filters:      map[string]string{"owner_id": "ACME", "time_window": "Hoy"},
		ActiveSubTab: "ordenes_hoy",
	},
	Comerciante: {
		Filters:      map[string]string{"owner_id": "ACME", "time_window": "Semana"},
		ActiveSubTab: "resumen",
	},
}

// overlayPolicy lists, per submodule, the personas allowed to receive
// overlays. Submodules missing from the table allow nobody.
var overlayPolicy = map[string][]Persona{
	tab.Dashboard.String(): {Comerciante, Operador},
}

// DefaultsFor returns a copy of p's overlay defaults.
func DefaultsFor(p Persona) (Overlay, bool) {
	ov, ok := overlays[p]
	if !ok {
		return Overlay{}, false
	}
	filters := make(map[string]string, len(ov.Filters))
	for k, v := range ov.Filters {
		filters[k] = v
	}
	return Overlay{Filters: filters, ActiveSubTab: ov.ActiveSubTab}, true
}

// Allowed reports whether p may receive overlays on submodule. Unknown
// submodules and unknown personas are denied.
func Allowed(p Persona, submodule string) bool {
	for _, allowed := range overlayPolicy[submodule] {
		if allowed == p {
			return true
		}
	}
	return false
}

// SharedState is the filter and active sub-tab state shared by the views of
// one session.
type SharedState struct {
	Filters      map[string]string `json:"filters"`
	ActiveSubTab string            `json:"activeSubTab"`
}

// Clone returns a deep copy.
func (s *SharedState) Clone() SharedState {
	out := SharedState{ActiveSubTab: s.ActiveSubTab}
	if s.Filters != nil {
		out.Filters = make(map[string]string, len(s.Filters))
		for k, v := range s.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// Decision is the outcome of one overlay evaluation.
type Decision struct {
	Persona    Persona `json:"persona"`
	Submodule  string  `json:"submodule"`
	HasOverlay bool    `json:"hasOverlay"`
	Action     string  `json:"action"`
}

// Applied reports whether state was modified.
func (d Decision) Applied() bool {
	return d.Action == telemetry.ActionApplied
}

// Apply merges p's overlay into state when p is allowed an overlay on the
// resolved tab and the tab is the dashboard. Persona filter keys replace
// existing values; other keys are kept. When the overlay is not applied,
// state is not written at all.
func Apply(state *SharedState, p Persona, resolved tab.Tab) Decision {
	d := Decision{
		Persona:    p,
		Submodule:  resolved.String(),
		HasOverlay: Allowed(p, resolved.String()),
		Action:     telemetry.ActionSkipped,
	}
	if !d.HasOverlay || resolved != tab.Dashboard || state == nil {
		return d
	}
	ov, ok := overlays[p]
	if !ok {
		return d
	}

	if state.Filters == nil {
		state.Filters = make(map[string]string, len(ov.Filters))
	}
	for k, v := range ov.Filters {
		state.Filters[k] = v
	}
	state.ActiveSubTab = ov.ActiveSubTab
	d.Action = telemetry.ActionApplied
	return d
}

// Gate evaluates overlays and records each decision.
type Gate struct {
	sink  telemetry.OverlaySink
	clock func() time.Time
}

// NewGate returns a Gate recording to sink. A nil sink discards records; a
// nil clock uses time.Now.
func NewGate(sink telemetry.OverlaySink, clock func() time.Time) *Gate {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Gate{sink: sink, clock: clock}
}

// Evaluate applies the overlay rules to state and writes one overlay record.
func (g *Gate) Evaluate(ctx context.Context, state *SharedState, p Persona, resolved tab.Tab) Decision {
	d := Apply(state, p, resolved)
	g.sink.RecordOverlay(ctx, telemetry.OverlayEvent{
		Persona:    d.Persona.String(),
		Submodule:  d.Submodule,
		HasOverlay: d.HasOverlay,
		Action:     d.Action,
		Timestamp:  g.clock(),
	})
	return d
}
