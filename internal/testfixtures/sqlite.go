package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/conference-hub/internal/persistence"
	"github.com/example/conference-hub/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// storage instance for integration-style persistence tests.
type SQLiteHarness struct {
	Events       persistence.EventRepository
	Sessions     persistence.SessionRepository
	Attendees    persistence.AttendeeRepository
	RSVPs        persistence.RSVPRepository
	Meetings     persistence.MeetingRepository
	AuthSessions persistence.AuthSessionRepository

	Store *sqlite.Store

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "confhub.db")

	store, err := sqlite.Open("file:" + path + "?_foreign_keys=on")
	if err != nil {
		tb.Fatalf("failed to open sqlite store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		store.Close()
		tb.Fatalf("failed to migrate sqlite store: %v", err)
	}

	harness := &SQLiteHarness{
		Events:       sqlite.NewEventRepository(store),
		Sessions:     sqlite.NewSessionRepository(store),
		Attendees:    sqlite.NewAttendeeRepository(store),
		RSVPs:        sqlite.NewRSVPRepository(store),
		Meetings:     sqlite.NewMeetingRepository(store),
		AuthSessions: sqlite.NewAuthSessionRepository(store),
		Store:        store,
	}
	harness.cleanup = func() {
		store.Close()
	}
	tb.Cleanup(harness.Close)

	return harness
}
