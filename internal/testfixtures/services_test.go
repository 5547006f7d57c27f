package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/conference-hub/internal/application"
)

type capturingMeetingRepo struct {
	created application.Meeting
}

func (c *capturingMeetingRepo) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	c.created = meeting
	return meeting, nil
}

func (c *capturingMeetingRepo) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	return application.Meeting{}, application.ErrNotFound
}

func (c *capturingMeetingRepo) UpdateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	return meeting, nil
}

func (c *capturingMeetingRepo) DeleteMeeting(ctx context.Context, id string) error {
	return nil
}

func (c *capturingMeetingRepo) ListMeetings(ctx context.Context, filter application.MeetingRepositoryFilter) ([]application.Meeting, error) {
	return nil, nil
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(ctx context.Context, id string) (string, error) {
	return id, nil
}

func TestServiceFactoryNewMeetingService(t *testing.T) {
	factory := NewServiceFactory(WithIDGenerator(NewIDGenerator("meeting")))
	repo := &capturingMeetingRepo{}

	svc := factory.NewMeetingService(MeetingServiceDeps{
		Meetings: repo,
		Identity: passthroughResolver{},
	})

	start := ReferenceTime().Add(2 * time.Hour)
	meeting, err := svc.CreateRequest(context.Background(), application.CreateMeetingParams{
		Input: application.MeetingInput{
			RequesterID: "attendee-001",
			RequesteeID: "attendee-002",
			Start:       start,
			End:         start.Add(30 * time.Minute),
		},
	})
	if err != nil {
		t.Fatalf("CreateRequest returned error: %v", err)
	}

	if meeting.ID != "meeting-1" {
		t.Fatalf("expected deterministic id meeting-1, got %q", meeting.ID)
	}
	if !meeting.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected creation stamped with factory clock, got %v", meeting.CreatedAt)
	}
	if repo.created.ID != "meeting-1" {
		t.Fatalf("expected repository to receive the created meeting, got %+v", repo.created)
	}
}

func TestFixturesAreDeterministicAndUnique(t *testing.T) {
	first := NewAttendeeFixture()
	second := NewAttendeeFixture(WithAttendeeAdmin(true))

	if first.ID == second.ID {
		t.Fatalf("expected unique attendee ids, got %q twice", first.ID)
	}
	if !second.IsAdmin {
		t.Fatal("expected admin flag to be applied")
	}
	if first.Application().ID != first.ID || first.Persistence().Email != first.Email {
		t.Fatal("expected converters to preserve identity fields")
	}

	legacy := NewAttendeeFixture(WithAttendeeLegacyGuestID("guest-42"))
	if legacy.Persistence().LegacyGuestID == nil || *legacy.Persistence().LegacyGuestID != "guest-42" {
		t.Fatalf("expected legacy guest id on fixture, got %+v", legacy.Persistence().LegacyGuestID)
	}

	meeting := NewMeetingFixture(WithMeetingConfirmed(ReferenceTime().Add(time.Hour)))
	if meeting.Application().Status != application.MeetingStatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", meeting.Status)
	}
	if meeting.Application().ConfirmedAt == nil {
		t.Fatal("expected confirmation timestamp")
	}

	slot := NewSessionFixture(WithSessionTitle(""))
	if !slot.Application().IsFreeTime() {
		t.Fatal("expected untitled session to count as free time")
	}
}
