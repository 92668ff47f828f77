package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/wmsnav/errors"
	wmstest "github.com/teranos/wmsnav/internal/testing"
)

func TestSQLSinkRecordRoute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO route_events").
		WithArgs("crossdock", "crossdock", "cross-dock", "redirect_applied", "2026-03-01T09:30:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewSQLSink(db, nil)
	sink.RecordRoute(context.Background(), RouteEvent{
		Incoming: "crossdock", Normalized: "crossdock", Resolved: "cross-dock", Reason: "redirect_applied", Timestamp: ts,
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSinkRecordOverlay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO overlay_events").
		WithArgs("comerciante", "picking", false, ActionSkipped, "2026-03-01T09:30:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewSQLSink(db, nil)
	sink.RecordOverlay(context.Background(), OverlayEvent{
		Persona: "comerciante", Submodule: "picking", HasOverlay: false, Action: ActionSkipped, Timestamp: ts,
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLSinkSwallowsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO route_events").WillReturnError(errors.New("disk I/O error"))

	core, logs := observer.New(zapcore.WarnLevel)
	sink := NewSQLSink(db, zap.New(core).Sugar())

	assert.NotPanics(t, func() {
		sink.RecordRoute(context.Background(), RouteEvent{Resolved: "dashboard", Timestamp: ts})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1, logs.FilterMessage("Failed to persist route event").Len())
}

func TestRecentRoutes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"incoming", "normalized", "resolved", "reason", "created_at"}).
		AddRow("foobar", "foobar", "invalid", "invalid_tab", "2026-03-01T09:30:00Z").
		AddRow("", "", "dashboard", "fallback_empty", "not-a-time")
	mock.ExpectQuery("SELECT incoming, normalized, resolved, reason, created_at FROM route_events").
		WithArgs(10).
		WillReturnRows(rows)

	events, err := RecentRoutes(context.Background(), db, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "invalid", events[0].Resolved)
	assert.True(t, events[0].Timestamp.Equal(ts))
	assert.True(t, events[1].Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentOverlaysQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT persona").WillReturnError(errors.New("no such table: overlay_events"))

	_, err = RecentOverlays(context.Background(), db, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query overlay events")
}

func TestSQLSinkRoundTrip(t *testing.T) {
	database := wmstest.CreateTestDB(t)
	sink := NewSQLSink(database, zaptest.NewLogger(t).Sugar())
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	sink.RecordRoute(ctx, RouteEvent{Incoming: "Stock", Normalized: "stock", Resolved: "inventario", Reason: "redirect_applied", Timestamp: at})
	sink.RecordRoute(ctx, RouteEvent{Incoming: "", Normalized: "", Resolved: "dashboard", Reason: "fallback_empty", Timestamp: at.Add(time.Second)})
	sink.RecordOverlay(ctx, OverlayEvent{Persona: "operador", Submodule: "dashboard", HasOverlay: true, Action: ActionApplied, Timestamp: at})

	routes, err := RecentRoutes(ctx, database, 10)
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "dashboard", routes[0].Resolved)
	assert.Equal(t, "Stock", routes[1].Incoming)
	assert.True(t, at.Equal(routes[1].Timestamp))

	overlays, err := RecentOverlays(ctx, database, 1)
	require.NoError(t, err)
	require.Len(t, overlays, 1)
	assert.True(t, overlays[0].HasOverlay)
	assert.Equal(t, ActionApplied, overlays[0].Action)
}

func TestRecentEventsEmpty(t *testing.T) {
	database := wmstest.CreateTestDB(t)

	routes, err := RecentRoutes(context.Background(), database, 5)
	require.NoError(t, err)
	assert.NotNil(t, routes)
	assert.Empty(t, routes)

	overlays, err := RecentOverlays(context.Background(), database, 5)
	require.NoError(t, err)
	assert.NotNil(t, overlays)
	assert.Empty(t, overlays)
}
