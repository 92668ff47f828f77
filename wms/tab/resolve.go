package tab

import (
	"context"
	"time"

	"github.com/teranos/wmsnav/wms/telemetry"
)

// Reason names the resolver branch that produced a Resolution.
type Reason string

const (
	ReasonFallbackEmpty   Reason = "fallback_empty"
	ReasonDirectMatch     Reason = "direct_match"
	ReasonRedirectApplied Reason = "redirect_applied"
	ReasonInvalidTab      Reason = "invalid_tab"
)

// Resolution is the outcome of resolving one raw tab value.
type Resolution struct {
	Incoming   string `json:"incoming"`
	Normalized string `json:"normalized"`
	Resolved   Tab    `json:"resolved"`
	Reason     Reason `json:"reason"`
}

// Redirected reports whether the raw value was an alias. Callers may use it
// to rewrite the navigation reference to the canonical tab.
func (r Resolution) Redirected() bool {
	return r.Reason == ReasonRedirectApplied
}

// Resolve maps a raw tab value to a Resolution. It has no side effects.
func Resolve(raw string) Resolution {
	normalized := Normalize(raw)
	res := Resolution{Incoming: raw, Normalized: normalized}

	switch {
	case normalized == "":
		res.Resolved, res.Reason = Dashboard, ReasonFallbackEmpty
	case Tab(normalized).IsCanonical():
		res.Resolved, res.Reason = Tab(normalized), ReasonDirectMatch
	default:
		if target, ok := Redirect(normalized); ok {
			res.Resolved, res.Reason = target, ReasonRedirectApplied
		} else {
			res.Resolved, res.Reason = Invalid, ReasonInvalidTab
		}
	}
	return res
}

// Resolver resolves raw values and records each resolution on a sink.
type Resolver struct {
	sink  telemetry.RouteSink
	clock func() time.Time
}

// NewResolver returns a Resolver recording to sink. A nil sink discards
// records; a nil clock uses time.Now.
func NewResolver(sink telemetry.RouteSink, clock func() time.Time) *Resolver {
	if sink == nil {
		sink = telemetry.Nop{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{sink: sink, clock: clock}
}

// Resolve resolves raw and writes exactly one route record for the call.
// Repeated calls with the same input each produce their own record.
func (r *Resolver) Resolve(ctx context.Context, raw string) Resolution {
	res := Resolve(raw)
	r.sink.RecordRoute(ctx, telemetry.RouteEvent{
		Incoming:   res.Incoming,
		Normalized: res.Normalized,
		Resolved:   res.Resolved.String(),
		Reason:     string(res.Reason),
		Timestamp:  r.clock(),
	})
	return res
}
