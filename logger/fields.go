package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging across wmsnav.
const (
	// Identity and context
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"

	// Components
	FieldComponent = "component"
	FieldSymbol    = "symbol"

	// HTTP
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldRemote   = "remote"
	FieldDuration = "duration_ms"

	// Route resolution (telemetry schema)
	FieldIncoming   = "incoming"
	FieldNormalized = "normalized"
	FieldResolved   = "resolved"
	FieldReason     = "reason"
	FieldTimestamp  = "timestamp"

	// Overlay decisions (telemetry schema)
	FieldPersona    = "persona"
	FieldSubmodule  = "submodule"
	FieldHasOverlay = "hasOverlay"
	FieldAction     = "action"

	// Errors
	FieldError = "error"

	// Storage
	FieldDBPath = "db_path"
)

type contextKey string

const (
	sessionIDKey contextKey = "logger_session_id"
	requestIDKey contextKey = "logger_request_id"
)

// WithSessionID adds a view session ID to the context for logging
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if ctx == nil {
		return fields
	}
	if id, ok := ctx.Value(sessionIDKey).(string); ok && id != "" {
		fields = append(fields, FieldSessionID, id)
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, FieldRequestID, id)
	}
	return fields
}

// LoggerFromContext returns base with the context's session and request IDs attached.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	sink := telemetry.NewZapSink(logger.ComponentLogger("wms.route"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
