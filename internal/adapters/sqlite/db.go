package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS markers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	latitude    REAL         NOT NULL,
	longitude   REAL         NOT NULL,
	title       VARCHAR(255) NOT NULL,
	description TEXT,
	image_url   VARCHAR(255)
);

CREATE TABLE IF NOT EXISTS polygons (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	coordinates TEXT         NOT NULL,
	name        VARCHAR(255) NOT NULL,
	description TEXT
);
`

// DB wraps a database/sql handle on a sqlite file.
type DB struct {
	SQL *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection: ":memory:" databases are per connection, and sqlite
	// allows a single writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{SQL: db}, nil
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

// Stats reports open, in-use and idle connections.
func (db *DB) Stats() (open, inUse, idle int) {
	s := db.SQL.Stats()
	return s.OpenConnections, s.InUse, s.Idle
}

// Close releases the handle.
func (db *DB) Close() {
	_ = db.SQL.Close()
}
