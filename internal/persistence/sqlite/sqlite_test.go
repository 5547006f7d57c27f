package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func seedEvent(t *testing.T, store *Store) persistence.Event {
	t.Helper()

	event := persistence.Event{
		ID:    "evt-1",
		Name:  "AI Security Forum",
		Start: time.Date(2025, time.August, 6, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.August, 6, 20, 0, 0, 0, time.UTC),
	}
	if err := NewEventRepository(store).CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func seedSession(t *testing.T, store *Store, id, title string, start, end time.Time) persistence.Session {
	t.Helper()

	session := persistence.Session{
		ID:       id,
		EventID:  "evt-1",
		Title:    title,
		Start:    start,
		End:      end,
		Capacity: 40,
		HostIDs:  []string{"host-1"},
	}
	if err := NewSessionRepository(store).CreateSession(context.Background(), session); err != nil {
		t.Fatalf("seed session %s: %v", id, err)
	}
	return session
}

func TestEventRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewEventRepository(store)

	event := seedEvent(t, store)

	t.Run("lookup by name round trips", func(t *testing.T) {
		got, err := repo.GetEventByName(ctx, event.Name)
		if err != nil {
			t.Fatalf("get event: %v", err)
		}
		if got.ID != event.ID || !got.Start.Equal(event.Start) {
			t.Fatalf("unexpected event: %+v", got)
		}
	})

	t.Run("duplicate name maps to ErrDuplicate", func(t *testing.T) {
		dup := event
		dup.ID = "evt-2"
		if err := repo.CreateEvent(ctx, dup); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("unknown name maps to ErrNotFound", func(t *testing.T) {
		if _, err := repo.GetEventByName(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewSessionRepository(store)

	seedEvent(t, store)
	nine := time.Date(2025, time.August, 6, 9, 0, 0, 0, time.UTC)
	ten := nine.Add(time.Hour)
	seedSession(t, store, "ses-1", "Opening Keynote", nine, ten)
	seedSession(t, store, "ses-2", "", ten, ten.Add(time.Hour))

	t.Run("get returns hosts and boundaries", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "ses-1")
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if len(got.HostIDs) != 1 || got.HostIDs[0] != "host-1" {
			t.Fatalf("unexpected hosts: %v", got.HostIDs)
		}
		if !got.Start.Equal(nine) || !got.End.Equal(ten) {
			t.Fatalf("unexpected boundaries: %v %v", got.Start, got.End)
		}
	})

	t.Run("list by event ordered by start", func(t *testing.T) {
		sessions, err := repo.ListSessions(ctx, persistence.SessionFilter{EventID: "evt-1"})
		if err != nil {
			t.Fatalf("list sessions: %v", err)
		}
		if len(sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(sessions))
		}
		if sessions[0].ID != "ses-1" || sessions[1].ID != "ses-2" {
			t.Fatalf("unexpected order: %s, %s", sessions[0].ID, sessions[1].ID)
		}
		if sessions[1].Title != "" {
			t.Fatalf("expected blank slot title, got %q", sessions[1].Title)
		}
	})

	t.Run("reversed interval is a constraint violation", func(t *testing.T) {
		bad := persistence.Session{ID: "ses-3", EventID: "evt-1", Start: ten, End: nine}
		if err := repo.CreateSession(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("unknown event is a foreign key violation", func(t *testing.T) {
		bad := persistence.Session{ID: "ses-4", EventID: "evt-missing", Start: nine, End: ten}
		if err := repo.CreateSession(ctx, bad); !errors.Is(err, persistence.ErrForeignKeyViolation) {
			t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
		}
	})
}

func TestAttendeeRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewAttendeeRepository(store)

	guestRef := "recGUEST001"
	attendee := persistence.Attendee{
		ID:            "uid-alice",
		Email:         "Alice@Example.com",
		DisplayName:   "Alice",
		LegacyGuestID: &guestRef,
		PasswordHash:  "hash",
	}
	if err := repo.CreateAttendee(ctx, attendee); err != nil {
		t.Fatalf("create attendee: %v", err)
	}

	t.Run("email is normalized to lower case", func(t *testing.T) {
		got, err := repo.GetAttendeeByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("get by email: %v", err)
		}
		if got.ID != "uid-alice" {
			t.Fatalf("unexpected attendee: %+v", got)
		}
	})

	t.Run("legacy guest reference resolves", func(t *testing.T) {
		got, err := repo.GetAttendeeByLegacyGuestID(ctx, guestRef)
		if err != nil {
			t.Fatalf("get by legacy guest id: %v", err)
		}
		if got.ID != "uid-alice" {
			t.Fatalf("unexpected attendee: %+v", got)
		}
	})

	t.Run("duplicate email maps to ErrDuplicate", func(t *testing.T) {
		dup := persistence.Attendee{ID: "uid-bob", Email: "alice@example.com", PasswordHash: "hash"}
		if err := repo.CreateAttendee(ctx, dup); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("update missing attendee maps to ErrNotFound", func(t *testing.T) {
		missing := persistence.Attendee{ID: "uid-missing", Email: "x@example.com"}
		if err := repo.UpdateAttendee(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRSVPRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewRSVPRepository(store)

	seedEvent(t, store)
	nine := time.Date(2025, time.August, 6, 9, 0, 0, 0, time.UTC)
	seedSession(t, store, "ses-1", "Talk", nine, nine.Add(time.Hour))

	first := persistence.RSVP{ID: "rsvp-1", SessionID: "ses-1", AttendeeID: "uid-alice"}
	if err := repo.CreateRSVP(ctx, first); err != nil {
		t.Fatalf("create rsvp: %v", err)
	}

	t.Run("pair uniqueness enforced by index", func(t *testing.T) {
		dup := persistence.RSVP{ID: "rsvp-2", SessionID: "ses-1", AttendeeID: "uid-alice"}
		if err := repo.CreateRSVP(ctx, dup); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("get by pair", func(t *testing.T) {
		got, err := repo.GetRSVP(ctx, "ses-1", "uid-alice")
		if err != nil {
			t.Fatalf("get rsvp: %v", err)
		}
		if got.ID != "rsvp-1" {
			t.Fatalf("unexpected rsvp: %+v", got)
		}
	})

	t.Run("list by attendee", func(t *testing.T) {
		rsvps, err := repo.ListRSVPs(ctx, persistence.RSVPFilter{AttendeeID: "uid-alice"})
		if err != nil {
			t.Fatalf("list rsvps: %v", err)
		}
		if len(rsvps) != 1 {
			t.Fatalf("expected one rsvp, got %d", len(rsvps))
		}
	})

	t.Run("delete then delete again", func(t *testing.T) {
		if err := repo.DeleteRSVP(ctx, "rsvp-1"); err != nil {
			t.Fatalf("delete rsvp: %v", err)
		}
		if err := repo.DeleteRSVP(ctx, "rsvp-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMeetingRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewMeetingRepository(store)

	nine := time.Date(2025, time.August, 6, 9, 0, 0, 0, time.UTC)
	ten := nine.Add(time.Hour)

	meeting := persistence.Meeting{
		ID:          "mtg-1",
		RequesterID: "uid-alice",
		RequesteeID: "uid-bob",
		Start:       nine,
		End:         ten,
		Status:      "pending",
	}
	if err := repo.CreateMeeting(ctx, meeting); err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	t.Run("status update stamps confirmation", func(t *testing.T) {
		stored, err := repo.GetMeeting(ctx, "mtg-1")
		if err != nil {
			t.Fatalf("get meeting: %v", err)
		}
		confirmed := time.Date(2025, time.August, 5, 12, 0, 0, 0, time.UTC)
		stored.Status = "confirmed"
		stored.ConfirmedAt = &confirmed
		if err := repo.UpdateMeeting(ctx, stored); err != nil {
			t.Fatalf("update meeting: %v", err)
		}

		got, err := repo.GetMeeting(ctx, "mtg-1")
		if err != nil {
			t.Fatalf("get meeting: %v", err)
		}
		if got.Status != "confirmed" || got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(confirmed) {
			t.Fatalf("unexpected meeting after update: %+v", got)
		}
	})

	t.Run("list filters by either side", func(t *testing.T) {
		forBob, err := repo.ListMeetings(ctx, persistence.MeetingFilter{AttendeeID: "uid-bob"})
		if err != nil {
			t.Fatalf("list meetings: %v", err)
		}
		if len(forBob) != 1 || forBob[0].ID != "mtg-1" {
			t.Fatalf("unexpected meetings for bob: %v", forBob)
		}

		none, err := repo.ListMeetings(ctx, persistence.MeetingFilter{AttendeeID: "uid-carol"})
		if err != nil {
			t.Fatalf("list meetings: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("expected no meetings for carol, got %v", none)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		confirmed, err := repo.ListMeetings(ctx, persistence.MeetingFilter{Status: "confirmed"})
		if err != nil {
			t.Fatalf("list meetings: %v", err)
		}
		if len(confirmed) != 1 {
			t.Fatalf("expected one confirmed meeting, got %d", len(confirmed))
		}
	})

	t.Run("invalid status is a constraint violation", func(t *testing.T) {
		bad := persistence.Meeting{
			ID:          "mtg-2",
			RequesterID: "uid-alice",
			RequesteeID: "uid-bob",
			Start:       nine,
			End:         ten,
			Status:      "maybe",
		}
		if err := repo.CreateMeeting(ctx, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("expected ErrConstraintViolation, got %v", err)
		}
	})

	t.Run("delete removes regardless of status", func(t *testing.T) {
		if err := repo.DeleteMeeting(ctx, "mtg-1"); err != nil {
			t.Fatalf("delete meeting: %v", err)
		}
		if _, err := repo.GetMeeting(ctx, "mtg-1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAuthSessionRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := NewAuthSessionRepository(store)

	if err := NewAttendeeRepository(store).CreateAttendee(ctx, persistence.Attendee{
		ID:           "uid-alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}); err != nil {
		t.Fatalf("seed attendee: %v", err)
	}

	expires := time.Now().UTC().Add(24 * time.Hour)
	session := persistence.AuthSession{
		ID:         "as-1",
		AttendeeID: "uid-alice",
		Token:      "token-1",
		ExpiresAt:  expires,
	}
	if _, err := repo.CreateAuthSession(ctx, session); err != nil {
		t.Fatalf("create auth session: %v", err)
	}

	t.Run("token lookup", func(t *testing.T) {
		got, err := repo.GetAuthSession(ctx, "token-1")
		if err != nil {
			t.Fatalf("get auth session: %v", err)
		}
		if got.AttendeeID != "uid-alice" || got.RevokedAt != nil {
			t.Fatalf("unexpected session: %+v", got)
		}
	})

	t.Run("revoke stamps the session", func(t *testing.T) {
		revokedAt := time.Now().UTC()
		got, err := repo.RevokeAuthSession(ctx, "token-1", revokedAt)
		if err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if got.RevokedAt == nil {
			t.Fatalf("expected revoked stamp, got %+v", got)
		}
	})

	t.Run("expired sessions are purged", func(t *testing.T) {
		stale := persistence.AuthSession{
			ID:         "as-2",
			AttendeeID: "uid-alice",
			Token:      "token-2",
			ExpiresAt:  time.Now().UTC().Add(-time.Hour),
		}
		if _, err := repo.CreateAuthSession(ctx, stale); err != nil {
			t.Fatalf("create stale session: %v", err)
		}
		if err := repo.DeleteExpiredAuthSessions(ctx, time.Now().UTC()); err != nil {
			t.Fatalf("delete expired: %v", err)
		}
		if _, err := repo.GetAuthSession(ctx, "token-2"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for purged session, got %v", err)
		}
	})
}
