package application

import (
	"context"
	"errors"
	"testing"
)

type sessionDirStub struct {
	sessions []Session
	err      error
}

func (s *sessionDirStub) GetSession(ctx context.Context, id string) (Session, error) {
	if s.err != nil {
		return Session{}, s.err
	}
	for _, session := range s.sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return Session{}, ErrNotFound
}

func (s *sessionDirStub) ListSessions(ctx context.Context, filter SessionRepositoryFilter) ([]Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if filter.EventID != "" && session.EventID != filter.EventID {
			continue
		}
		out = append(out, session)
	}
	return out, nil
}

func newAvailabilityFixture(t *testing.T) (*sessionDirStub, *rsvpRepoStub, *meetingRepoStub) {
	t.Helper()
	sessions := &sessionDirStub{sessions: []Session{
		{ID: "s1", EventID: "ev", Title: "Opening keynote", Start: slotTime(t, 9), End: slotTime(t, 10)},
		{ID: "s2", EventID: "ev", Title: "", Start: slotTime(t, 10), End: slotTime(t, 11)},
	}}
	return sessions, newRSVPRepoStub(), newMeetingRepoStub()
}

func TestAvailabilityService_MutualFreeSlots_BlankIDsYieldEmptyResult(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if len(result.Slots) != 0 || result.UserRSVPCount != 0 || result.OtherRSVPCount != 0 {
		t.Fatalf("expected empty result for blank id, got %+v", result)
	}
}

func TestAvailabilityService_MutualFreeSlots_ReturnsOpenSessions(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if len(result.Slots) != 2 {
		t.Fatalf("expected both sessions open, got %d", len(result.Slots))
	}
	if result.Slots[0].Label != "Opening keynote" {
		t.Fatalf("expected session title label, got %q", result.Slots[0].Label)
	}
	if result.Slots[1].Label != "Free time" {
		t.Fatalf("expected blank session labeled Free time, got %q", result.Slots[1].Label)
	}
}

func TestAvailabilityService_MutualFreeSlots_ExcludesSessionsWithEitherRSVP(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	rsvps.rsvps["r1"] = RSVP{ID: "r1", SessionID: "s1", AttendeeID: "alice"}
	rsvps.rsvps["r2"] = RSVP{ID: "r2", SessionID: "s2", AttendeeID: "bob"}
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if len(result.Slots) != 0 {
		t.Fatalf("expected no mutual slots, got %+v", result.Slots)
	}
	if result.UserRSVPCount != 1 || result.OtherRSVPCount != 1 {
		t.Fatalf("expected RSVP counts 1/1, got %d/%d", result.UserRSVPCount, result.OtherRSVPCount)
	}
}

func TestAvailabilityService_MutualFreeSlots_ExcludesExactlyBookedIntervals(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	meetings.meetings["m1"] = Meeting{
		ID:          "m1",
		RequesterID: "alice",
		RequesteeID: "carol",
		Start:       slotTime(t, 9),
		End:         slotTime(t, 10),
		Status:      MeetingStatusConfirmed,
	}
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if len(result.Slots) != 1 || result.Slots[0].SessionID != "s2" {
		t.Fatalf("expected only s2 to remain, got %+v", result.Slots)
	}
}

func TestAvailabilityService_MutualFreeSlots_IgnoresPartialOverlapAndOtherStatuses(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	// Partial overlap with s1 and a pending request on s2's exact interval:
	// neither blocks a slot.
	meetings.meetings["m1"] = Meeting{
		ID:          "m1",
		RequesterID: "alice",
		RequesteeID: "carol",
		Start:       slotTime(t, 9),
		End:         slotTime(t, 11),
		Status:      MeetingStatusConfirmed,
	}
	meetings.meetings["m2"] = Meeting{
		ID:          "m2",
		RequesterID: "bob",
		RequesteeID: "carol",
		Start:       slotTime(t, 10),
		End:         slotTime(t, 11),
		Status:      MeetingStatusPending,
	}
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if len(result.Slots) != 2 {
		t.Fatalf("expected both sessions open, got %+v", result.Slots)
	}
}

func TestAvailabilityService_MutualFreeSlots_ResolvesLegacyIdentity(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	rsvps.rsvps["r1"] = RSVP{ID: "r1", SessionID: "s1", AttendeeID: "alice"}
	resolver := &resolverStub{aliases: map[string]string{"guest-7": "alice"}}
	svc := NewAvailabilityService(sessions, rsvps, meetings, resolver, nil)

	result, err := svc.MutualFreeSlots(context.Background(), "guest-7", "bob")
	if err != nil {
		t.Fatalf("MutualFreeSlots returned error: %v", err)
	}
	if result.UserRSVPCount != 1 {
		t.Fatalf("expected legacy guest to see alice's RSVPs, got %d", result.UserRSVPCount)
	}
	if len(result.Slots) != 1 || result.Slots[0].SessionID != "s2" {
		t.Fatalf("expected s1 excluded via resolved identity, got %+v", result.Slots)
	}
}

func TestAvailabilityService_MutualFreeSlots_SurfacesStoreFailure(t *testing.T) {
	t.Parallel()

	sessions, rsvps, meetings := newAvailabilityFixture(t)
	meetings.listErr = errors.New("store unreachable")
	svc := NewAvailabilityService(sessions, rsvps, meetings, nil, nil)

	if _, err := svc.MutualFreeSlots(context.Background(), "alice", "bob"); err == nil {
		t.Fatalf("expected an error when the store cannot be read")
	}
}
