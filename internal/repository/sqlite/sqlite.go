// Package sqlite implements the repository interfaces on a SQLite file
// database via modernc.org/sqlite (pure Go, no CGo — cross-compiles cleanly
// and lets tests run against ":memory:").
//
// The entire persisted state of the application is this one file. SQLite's
// statement-level serialization is the only write coordination the app uses;
// there are no explicit transactions or locks above it.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository interfaces.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; the pool must be pinned to
	// one connection or a second conn sees an empty schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — important once
	// the click tracker starts inserting on every page interaction.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// OFF by default in SQLite; we rely on course.instructor_id and
	// lecture/note course_id referencing real rows.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Call via defer wherever New is called so
// the WAL is flushed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent —
// safe to run on every startup against an existing file.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_student    INTEGER NOT NULL DEFAULT 1,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS courses (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			instructor_id TEXT NOT NULL REFERENCES users(id),
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating courses table: %w", err)
	}

	// Lectures and notes are structurally identical but deliberately kept as
	// separate tables — they are listed separately and may diverge.
	for _, table := range []string{"lectures", "notes"} {
		_, err = db.conn.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				content    TEXT NOT NULL DEFAULT '',
				course_id  TEXT NOT NULL REFERENCES courses(id),
				file_path  TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_%s_course_id ON %s(course_id);
		`, table, table, table))
		if err != nil {
			return fmt.Errorf("creating %s table: %w", table, err)
		}
	}

	// user_id is nullable: anonymous visitors are tracked too. No index
	// beyond the primary key — the only bulk read is the full-table export,
	// which walks by id.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS click_events (
			id            TEXT PRIMARY KEY,
			user_id       TEXT REFERENCES users(id),
			session_id    TEXT NOT NULL,
			page_url      TEXT NOT NULL DEFAULT '',
			element_id    TEXT NOT NULL DEFAULT '',
			element_class TEXT NOT NULL DEFAULT '',
			element_text  TEXT NOT NULL DEFAULT '',
			click_x       INTEGER,
			click_y       INTEGER,
			timestamp     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			user_agent    TEXT NOT NULL DEFAULT '',
			ip_address    TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating click_events table: %w", err)
	}

	return nil
}
