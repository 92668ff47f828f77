package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/wms/persona"
	"github.com/teranos/wmsnav/wms/readiness"
	"github.com/teranos/wmsnav/wms/tab"
	"github.com/teranos/wmsnav/wms/telemetry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticStore map[string]string

func (s staticStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s[key]
	return v, ok, nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("database is locked")
}

func testDeps(t *testing.T, store persona.Store, rec *telemetry.Recorder) Deps {
	return Deps{
		Store:           store,
		Resolver:        tab.NewResolver(rec, nil),
		Gate:            persona.NewGate(rec, nil),
		DataLoadDelay:   time.Hour,
		ConnectionDelay: time.Hour,
		Logger:          zaptest.NewLogger(t).Sugar(),
	}
}

func TestMountOperadorDashboard(t *testing.T) {
	rec := telemetry.NewRecorder()
	s := Mount(context.Background(), "s1", testDeps(t, staticStore{persona.StorageKey: "operador"}, rec), "dashboard")
	defer s.Close()

	snap := s.Snapshot()
	assert.Equal(t, persona.Operador, snap.Persona)
	assert.Equal(t, tab.Dashboard, snap.Resolution.Resolved)
	assert.Equal(t, map[string]string{"owner_id": "ACME", "time_window": "Hoy"}, snap.State.Filters)
	assert.Equal(t, "ordenes_hoy", snap.State.ActiveSubTab)
	assert.True(t, snap.Overlay.Applied())
	assert.Equal(t, readiness.Loading, snap.Data)
	assert.Equal(t, readiness.Connecting, snap.Connection)

	require.Len(t, rec.Routes(), 1)
	require.Len(t, rec.Overlays(), 1)
}

func TestMountDefaultsPersona(t *testing.T) {
	s := Mount(context.Background(), "s2", testDeps(t, staticStore{}, telemetry.NewRecorder()), "")
	defer s.Close()

	assert.Equal(t, persona.Comerciante, s.Persona())
	assert.Equal(t, tab.ReasonFallbackEmpty, s.Resolution().Reason)
	assert.Equal(t, "resumen", s.Snapshot().State.ActiveSubTab)
}

func TestMountStorageFailureUsesDefault(t *testing.T) {
	s := Mount(context.Background(), "s3", testDeps(t, failingStore{}, telemetry.NewRecorder()), "picking")
	defer s.Close()
	assert.Equal(t, persona.Default, s.Persona())
}

func TestMountInvalidTabLeavesStateUntouched(t *testing.T) {
	rec := telemetry.NewRecorder()
	s := Mount(context.Background(), "s4", testDeps(t, staticStore{persona.StorageKey: "operador"}, rec), "foobar")
	defer s.Close()

	snap := s.Snapshot()
	assert.Equal(t, tab.Invalid, snap.Resolution.Resolved)
	assert.Empty(t, snap.State.Filters)
	assert.Empty(t, snap.State.ActiveSubTab)
	assert.False(t, snap.Overlay.HasOverlay)
	assert.Equal(t, telemetry.ActionSkipped, rec.Overlays()[0].Action)
}

func TestNavigateReevaluatesOverlayOnlyOnChange(t *testing.T) {
	rec := telemetry.NewRecorder()
	s := Mount(context.Background(), "s5", testDeps(t, staticStore{persona.StorageKey: "operador"}, rec), "picking")
	defer s.Close()

	steps := []string{"PICKING", "picking", "dashboard", "warehouse", "Recepción"}
	for _, raw := range steps {
		_, err := s.Navigate(context.Background(), raw)
		require.NoError(t, err)
	}

	assert.Len(t, rec.Routes(), 1+len(steps), "every navigation records a route")

	var subs []string
	for _, ev := range rec.Overlays() {
		subs = append(subs, ev.Submodule)
	}
	assert.Equal(t, []string{"picking", "dashboard", "recepciones"}, subs,
		"overlay re-runs only when the resolved tab changes")
}

func TestNavigateKeepsUserFiltersOnNonDashboard(t *testing.T) {
	s := Mount(context.Background(), "s6", testDeps(t, staticStore{persona.StorageKey: "operador"}, telemetry.NewRecorder()), "dashboard")
	defer s.Close()

	before := s.Snapshot().State
	_, err := s.Navigate(context.Background(), "inventory")
	require.NoError(t, err)

	assert.Equal(t, before, s.Snapshot().State)
	assert.Equal(t, tab.Inventario, s.Resolution().Resolved)
}

func TestOrderResolveThenOverlay(t *testing.T) {
	var order []string
	sink := orderSink{order: &order}
	deps := Deps{
		Resolver:        tab.NewResolver(sink, nil),
		Gate:            persona.NewGate(sink, nil),
		DataLoadDelay:   time.Hour,
		ConnectionDelay: time.Hour,
	}
	s := Mount(context.Background(), "s7", deps, "dashboard")
	defer s.Close()

	assert.Equal(t, []string{"route", "overlay"}, order)
}

type orderSink struct{ order *[]string }

func (o orderSink) RecordRoute(context.Context, telemetry.RouteEvent) {
	*o.order = append(*o.order, "route")
}

func (o orderSink) RecordOverlay(context.Context, telemetry.OverlayEvent) {
	*o.order = append(*o.order, "overlay")
}

func TestReadinessTransitions(t *testing.T) {
	deps := testDeps(t, nil, telemetry.NewRecorder())
	deps.DataLoadDelay = 5 * time.Millisecond
	deps.ConnectionDelay = 10 * time.Millisecond

	s := Mount(context.Background(), "s8", deps, "packing")
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.DataLoad().Wait(ctx))
	require.NoError(t, s.Connection().Wait(ctx))

	snap := s.Snapshot()
	assert.Equal(t, readiness.Ready, snap.Data)
	assert.Equal(t, readiness.Connected, snap.Connection)
}

func TestCloseStopsTimersAndNavigation(t *testing.T) {
	deps := testDeps(t, nil, telemetry.NewRecorder())
	deps.DataLoadDelay = 20 * time.Millisecond
	s := Mount(context.Background(), "s9", deps, "packing")

	s.Close()
	s.Close()
	time.Sleep(40 * time.Millisecond)

	assert.True(t, s.Closed())
	assert.Equal(t, readiness.Loading, s.Snapshot().Data)

	_, err := s.Navigate(context.Background(), "picking")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDoneClosedByClose(t *testing.T) {
	s := Mount(context.Background(), "s-done", testDeps(t, nil, telemetry.NewRecorder()), "dashboard")

	select {
	case <-s.Done():
		t.Fatal("done before close")
	default:
	}

	s.Close()
	s.Close()

	select {
	case <-s.Done():
	default:
		t.Fatal("done not closed")
	}
}
