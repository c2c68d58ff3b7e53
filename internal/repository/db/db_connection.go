package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
	"PRAGMA synchronous = NORMAL;",
}

// InitDB opens (or creates) the SQLite file at path and applies the schema.
// Use ":memory:" for a throwaway database.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single connection: the store writer and the event recorder share it
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaZoneConfig = `
CREATE TABLE IF NOT EXISTS zone_config (
    zone TEXT PRIMARY KEY CHECK (zone IN ('morning', 'afternoon')),
    enabled BOOLEAN NOT NULL,
    start_time TEXT NOT NULL,
    min_humidity REAL NOT NULL,
    max_humidity REAL NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaIrrigationEvents = `
CREATE TABLE IF NOT EXISTS irrigation_events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    zone TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexIrrigationEvents = `
CREATE INDEX IF NOT EXISTS idx_irrigation_events_occurred_at ON irrigation_events (occurred_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after Commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaZoneConfig,
		schemaIrrigationEvents,
		indexIrrigationEvents,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
