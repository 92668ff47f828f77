package telemetry

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/wmsnav/logger"
	"github.com/teranos/wmsnav/sym"
)

// ZapSink writes records as structured log entries. The field names match the
// telemetry schema so log queries and stored rows read the same.
type ZapSink struct {
	routes   *zap.SugaredLogger
	overlays *zap.SugaredLogger
}

// NewZapSink returns a sink logging under "<base>.route" and "<base>.overlay".
func NewZapSink(base *zap.SugaredLogger) *ZapSink {
	if base == nil {
		base = zap.NewNop().Sugar()
	}
	return &ZapSink{
		routes:   base.Named("route"),
		overlays: base.Named("overlay"),
	}
}

func (z *ZapSink) RecordRoute(ctx context.Context, ev RouteEvent) {
	symbol := sym.Route
	switch ev.Reason {
	case "redirect_applied":
		symbol = sym.Redirect
	case "invalid_tab":
		symbol = sym.Invalid
	}
	logger.SymbolInfow(logger.LoggerFromContext(ctx, z.routes), symbol, "route resolved",
		logger.FieldIncoming, ev.Incoming,
		logger.FieldNormalized, ev.Normalized,
		logger.FieldResolved, ev.Resolved,
		logger.FieldReason, ev.Reason,
		logger.FieldTimestamp, ev.Timestamp,
	)
}

func (z *ZapSink) RecordOverlay(ctx context.Context, ev OverlayEvent) {
	logger.SymbolInfow(logger.LoggerFromContext(ctx, z.overlays), sym.Overlay, "overlay evaluated",
		logger.FieldPersona, ev.Persona,
		logger.FieldSubmodule, ev.Submodule,
		logger.FieldHasOverlay, ev.HasOverlay,
		logger.FieldAction, ev.Action,
		logger.FieldTimestamp, ev.Timestamp,
	)
}
