// Package sqlite implements the persistence repositories on top of a SQLite
// database using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	description TEXT,
	website     TEXT,
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	CHECK (start_time < end_time)
);

CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	event_id    TEXT NOT NULL REFERENCES events(id),
	title       TEXT NOT NULL DEFAULT '',
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	location_id TEXT,
	capacity    INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	CHECK (start_time < end_time)
);

CREATE TABLE IF NOT EXISTS session_hosts (
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	attendee_id TEXT NOT NULL,
	PRIMARY KEY (session_id, attendee_id)
);

CREATE TABLE IF NOT EXISTS attendees (
	id              TEXT PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	display_name    TEXT NOT NULL,
	legacy_guest_id TEXT UNIQUE,
	is_admin        INTEGER NOT NULL DEFAULT 0,
	password_hash   TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rsvps (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	attendee_id TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	UNIQUE (session_id, attendee_id)
);

CREATE TABLE IF NOT EXISTS meetings (
	id           TEXT PRIMARY KEY,
	requester_id TEXT NOT NULL,
	requestee_id TEXT NOT NULL,
	start_time   TEXT NOT NULL,
	end_time     TEXT NOT NULL,
	status       TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'declined')),
	title        TEXT,
	notes        TEXT,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL,
	confirmed_at TEXT,
	CHECK (start_time < end_time)
);

CREATE TABLE IF NOT EXISTS auth_sessions (
	id          TEXT PRIMARY KEY,
	attendee_id TEXT NOT NULL REFERENCES attendees(id),
	token       TEXT NOT NULL UNIQUE,
	expires_at  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	revoked_at  TEXT
);

CREATE INDEX IF NOT EXISTS idx_sessions_event ON sessions (event_id, start_time);
CREATE INDEX IF NOT EXISTS idx_rsvps_attendee ON rsvps (attendee_id);
CREATE INDEX IF NOT EXISTS idx_meetings_interval ON meetings (start_time, end_time);
`

// Store owns the database handle shared by the repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn and enables foreign
// key enforcement for every connection.
func Open(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:confhub.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for callers that need raw access, such as
// schema inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate applies the embedded schema. All statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTransaction runs fn inside a transaction, rolling back when fn fails.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into persistence sentinels. The modernc
// driver reports constraint failures as message text, so matching is lexical.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return persistence.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return persistence.ErrForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return ts, nil
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	clone := value.String
	return &clone
}

func nullableTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*value), Valid: true}
}

func timePtr(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	ts, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
