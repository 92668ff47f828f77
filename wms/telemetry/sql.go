package telemetry

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/wmsnav/errors"
)

// SQLSink persists records into the route_events and overlay_events tables
// created by the db migrations. Insert failures are logged and dropped.
type SQLSink struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewSQLSink returns a sink writing to db.
func NewSQLSink(db *sql.DB, logger *zap.SugaredLogger) *SQLSink {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SQLSink{db: db, logger: logger}
}

func (s *SQLSink) RecordRoute(ctx context.Context, ev RouteEvent) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO route_events (incoming, normalized, resolved, reason, created_at) VALUES (?, ?, ?, ?, ?)`,
		ev.Incoming, ev.Normalized, ev.Resolved, ev.Reason, ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warnw("Failed to persist route event", "resolved", ev.Resolved, "error", err)
	}
}

func (s *SQLSink) RecordOverlay(ctx context.Context, ev OverlayEvent) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overlay_events (persona, submodule, has_overlay, action, created_at) VALUES (?, ?, ?, ?, ?)`,
		ev.Persona, ev.Submodule, ev.HasOverlay, ev.Action, ev.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Warnw("Failed to persist overlay event", "persona", ev.Persona, "error", err)
	}
}

// RecentRoutes returns up to limit route events, newest first.
func RecentRoutes(ctx context.Context, db *sql.DB, limit int) ([]RouteEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT incoming, normalized, resolved, reason, created_at FROM route_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query route events")
	}
	defer rows.Close()

	events := []RouteEvent{}
	for rows.Next() {
		var ev RouteEvent
		var created string
		if err := rows.Scan(&ev.Incoming, &ev.Normalized, &ev.Resolved, &ev.Reason, &created); err != nil {
			return nil, errors.Wrap(err, "scan route event")
		}
		ev.Timestamp = parseTimestamp(created)
		events = append(events, ev)
	}
	return events, errors.Wrap(rows.Err(), "iterate route events")
}

// RecentOverlays returns up to limit overlay events, newest first.
func RecentOverlays(ctx context.Context, db *sql.DB, limit int) ([]OverlayEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT persona, submodule, has_overlay, action, created_at FROM overlay_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query overlay events")
	}
	defer rows.Close()

	events := []OverlayEvent{}
	for rows.Next() {
		var ev OverlayEvent
		var created string
		if err := rows.Scan(&ev.Persona, &ev.Submodule, &ev.HasOverlay, &ev.Action, &created); err != nil {
			return nil, errors.Wrap(err, "scan overlay event")
		}
		ev.Timestamp = parseTimestamp(created)
		events = append(events, ev)
	}
	return events, errors.Wrap(rows.Err(), "iterate overlay events")
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
