package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/wms/persona"
)

var _ persona.Store = (*ClientStore)(nil)

func newTestStore(t *testing.T) *ClientStore {
	t.Helper()
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "client.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClientStore(db)
}

func TestClientStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, persona.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, persona.StorageKey, "operador"))
	v, ok, err := s.Get(ctx, persona.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "operador", v)

	require.NoError(t, s.Set(ctx, persona.StorageKey, "comerciante"))
	v, _, err = s.Get(ctx, persona.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "comerciante", v)

	require.NoError(t, s.Delete(ctx, persona.StorageKey))
	_, ok, err = s.Get(ctx, persona.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientStoreFeedsPersonaSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, persona.StorageKey, "operador"))
	p, err := persona.LoadSelected(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, persona.Operador, p)

	require.NoError(t, s.Set(ctx, persona.StorageKey, "gerente"))
	p, err = persona.LoadSelected(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, persona.Default, p)
}

func TestClientStoreSetUsesClock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewClientStore(db)
	s.clock = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	mock.ExpectExec("INSERT INTO client_storage").
		WithArgs(persona.StorageKey, "operador", "2026-03-01T08:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Set(context.Background(), persona.StorageKey, "operador"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStoreGetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM client_storage").
		WithArgs(persona.StorageKey).
		WillReturnError(errors.New("disk I/O error"))

	_, ok, err := NewClientStore(db).Get(context.Background(), persona.StorageKey)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStoreClosedDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "closed.db"), nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, nil))
	db.Close()

	_, _, err = NewClientStore(db).Get(context.Background(), persona.StorageKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabaseClosed))
}
