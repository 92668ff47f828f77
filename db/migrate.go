package db

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/wmsnav/errors"
	"github.com/teranos/wmsnav/logger"
)

//go:embed sqlite/migrations/*.sql
var migrations embed.FS

const migrationsDir = "sqlite/migrations"

// Migration is one embedded schema file.
type Migration struct {
	Version  string
	Filename string
}

// Migrations lists the embedded migrations in application order.
func Migrations() ([]Migration, error) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	// 000_create_schema_migrations.sql sorts first
	sort.Strings(files)

	out := make([]Migration, 0, len(files))
	for _, f := range files {
		out = append(out, Migration{Version: strings.Split(f, "_")[0], Filename: f})
	}
	return out, nil
}

// Migrate runs all pending migrations.
// If logger is provided, logs migration progress; otherwise operates silently.
func Migrate(db *sql.DB, log *zap.SugaredLogger) error {
	list, err := Migrations()
	if err != nil {
		return err
	}

	applied := 0
	for _, m := range list {
		// schema_migrations is created by 000
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", m.Version).Scan(&exists)
		if err != nil {
			if m.Version != "000" {
				return errors.Newf("schema_migrations table missing, but migration is not 000: %s", m.Filename)
			}
		} else if exists {
			if log != nil {
				log.Debugw("Skipping migration (already applied)",
					"migration", m.Filename,
					"version", m.Version,
				)
			}
			continue
		}

		sqlBytes, err := migrations.ReadFile(path.Join(migrationsDir, m.Filename))
		if err != nil {
			return errors.Wrapf(err, "read %s", m.Filename)
		}

		if log != nil {
			log.Infow("Applying migration",
				"migration", m.Filename,
				"version", m.Version,
			)
		}

		tx, err := db.Begin()
		if err != nil {
			return errors.Wrapf(err, "begin tx for %s", m.Filename)
		}

		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "execute %s", m.Filename)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "record %s", m.Filename)
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "commit %s", m.Filename)
		}
		applied++
	}

	if log != nil {
		logger.DBInfow(log, "Migrations complete",
			"total_migrations", len(list),
			"applied", applied,
		)
	}

	return nil
}

// AppliedVersions returns the recorded migration versions in order.
func AppliedVersions(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, errors.Wrap(err, "query schema_migrations")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations")
		}
		out = append(out, v)
	}
	return out, errors.Wrap(rows.Err(), "iterate schema_migrations")
}
