package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/teranos/wmsnav/errors"
)

// ClientStore is the SQLite-backed key/value store that stands in for the
// browser's local storage. It satisfies persona.Store.
type ClientStore struct {
	db    *sql.DB
	clock func() time.Time
}

// NewClientStore returns a store over the client_storage table.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db, clock: time.Now}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *ClientStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM client_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		if IsDatabaseClosed(err) {
			return "", false, errors.Wrapf(ErrDatabaseClosed, "get %s", key)
		}
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *ClientStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.clock().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if IsDatabaseClosed(err) {
			return errors.Wrapf(ErrDatabaseClosed, "set %s", key)
		}
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *ClientStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM client_storage WHERE key = ?", key); err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}
