package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type attendeeRepoStub struct {
	attendees map[string]Attendee
	hashes    map[string]string
}

func newAttendeeRepoStub() *attendeeRepoStub {
	return &attendeeRepoStub{
		attendees: make(map[string]Attendee),
		hashes:    make(map[string]string),
	}
}

func (s *attendeeRepoStub) CreateAttendee(ctx context.Context, attendee Attendee, passwordHash string) (Attendee, error) {
	for _, existing := range s.attendees {
		if existing.Email == attendee.Email {
			return Attendee{}, ErrAlreadyExists
		}
	}
	s.attendees[attendee.ID] = attendee
	s.hashes[attendee.ID] = passwordHash
	return attendee, nil
}

func (s *attendeeRepoStub) GetAttendee(ctx context.Context, id string) (Attendee, error) {
	attendee, ok := s.attendees[id]
	if !ok {
		return Attendee{}, ErrNotFound
	}
	return attendee, nil
}

func (s *attendeeRepoStub) UpdateAttendee(ctx context.Context, attendee Attendee) (Attendee, error) {
	if _, ok := s.attendees[attendee.ID]; !ok {
		return Attendee{}, ErrNotFound
	}
	s.attendees[attendee.ID] = attendee
	return attendee, nil
}

func (s *attendeeRepoStub) DeleteAttendee(ctx context.Context, id string) error {
	if _, ok := s.attendees[id]; !ok {
		return ErrNotFound
	}
	delete(s.attendees, id)
	return nil
}

func (s *attendeeRepoStub) ListAttendees(ctx context.Context) ([]Attendee, error) {
	out := make([]Attendee, 0, len(s.attendees))
	for _, attendee := range s.attendees {
		out = append(out, attendee)
	}
	return out, nil
}

func newTestAttendeeService(repo *attendeeRepoStub) *AttendeeService {
	seq := 0
	return NewAttendeeService(repo,
		func() string { seq++; return fmt.Sprintf("attendee-%d", seq) },
		func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) })
}

func TestAttendeeService_CreateAttendee_RequiresAdmin(t *testing.T) {
	t.Parallel()

	svc := newTestAttendeeService(newAttendeeRepoStub())

	_, err := svc.CreateAttendee(context.Background(), CreateAttendeeParams{
		Principal: Principal{AttendeeID: "alice"},
		Input:     AttendeeInput{Email: "bob@example.com", DisplayName: "Bob"},
		Password:  "secret",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAttendeeService_CreateAttendee_NormalizesAndHashes(t *testing.T) {
	t.Parallel()

	repo := newAttendeeRepoStub()
	svc := newTestAttendeeService(repo)

	guestID := "  guest-7  "
	created, err := svc.CreateAttendee(context.Background(), CreateAttendeeParams{
		Principal: Principal{AttendeeID: "root", IsAdmin: true},
		Input:     AttendeeInput{Email: "  Bob@Example.COM ", DisplayName: " Bob ", LegacyGuestID: &guestID},
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("CreateAttendee returned error: %v", err)
	}
	if created.Email != "bob@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.LegacyGuestID == nil || *created.LegacyGuestID != "guest-7" {
		t.Fatalf("expected trimmed legacy guest id, got %v", created.LegacyGuestID)
	}

	hash := repo.hashes[created.ID]
	if hash == "" {
		t.Fatalf("expected a stored password hash")
	}
	if err := VerifyPassword(hash, "secret"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrong password to fail, got %v", err)
	}
}

func TestAttendeeService_CreateAttendee_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestAttendeeService(newAttendeeRepoStub())

	_, err := svc.CreateAttendee(context.Background(), CreateAttendeeParams{
		Principal: Principal{IsAdmin: true},
		Input:     AttendeeInput{Email: "not-an-email"},
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"email", "display_name", "password"} {
		if _, ok := vErr.FieldErrors[field]; !ok {
			t.Fatalf("expected %s error, got %v", field, vErr.FieldErrors)
		}
	}
}

func TestAttendeeService_UpdateAttendee_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := newAttendeeRepoStub()
	svc := newTestAttendeeService(repo)
	admin := Principal{AttendeeID: "root", IsAdmin: true}

	created, err := svc.CreateAttendee(context.Background(), CreateAttendeeParams{
		Principal: admin,
		Input:     AttendeeInput{Email: "bob@example.com", DisplayName: "Bob"},
		Password:  "secret",
	})
	if err != nil {
		t.Fatalf("CreateAttendee returned error: %v", err)
	}

	updated, err := svc.UpdateAttendee(context.Background(), UpdateAttendeeParams{
		Principal:  admin,
		AttendeeID: created.ID,
		Input:      AttendeeInput{Email: "bob@example.com", DisplayName: "Robert", IsAdmin: true},
	})
	if err != nil {
		t.Fatalf("UpdateAttendee returned error: %v", err)
	}
	if updated.DisplayName != "Robert" || !updated.IsAdmin {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestAttendeeService_ListAttendees_OrdersByEmail(t *testing.T) {
	t.Parallel()

	repo := newAttendeeRepoStub()
	repo.attendees["b"] = Attendee{ID: "b", Email: "zoe@example.com", DisplayName: "Zoe"}
	repo.attendees["a"] = Attendee{ID: "a", Email: "amy@example.com", DisplayName: "Amy"}
	svc := newTestAttendeeService(repo)

	got, err := svc.ListAttendees(context.Background())
	if err != nil {
		t.Fatalf("ListAttendees returned error: %v", err)
	}
	if len(got) != 2 || got[0].Email != "amy@example.com" {
		t.Fatalf("unexpected ordering: %+v", got)
	}
}
