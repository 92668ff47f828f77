package commands

import (
	"database/sql"

	"github.com/teranos/wmsnav/am"
	"github.com/teranos/wmsnav/db"
	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
)

// resolveDatabasePath returns dbPath, or the configured path when empty
func resolveDatabasePath(dbPath string) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	cfg, err := am.Load()
	if err != nil {
		return "", errors.Wrap(err, "failed to load configuration")
	}
	return cfg.GetDatabasePath(), nil
}

// openDatabase opens and migrates a database using the specified path.
// If dbPath is empty, it loads from am config. Uses logger.Logger for db operations.
func openDatabase(dbPath string) (*sql.DB, error) {
	path, err := resolveDatabasePath(dbPath)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenWithMigrations(path, logger.Logger)
	if err != nil {
		return nil, errors.WithHintf(err, "check database.path (currently %s)", path)
	}
	return database, nil
}
