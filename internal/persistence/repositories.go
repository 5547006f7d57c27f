package persistence

import (
	"context"
	"time"
)

// EventRepository exposes read and seed operations for conference events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	GetEventByName(ctx context.Context, name string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
}

// SessionFilter narrows session queries.
type SessionFilter struct {
	EventID     string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// SessionRepository stores the session grid. Sessions are created by
// conference setup tooling and read-only to the availability core.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error)
}

// AttendeeRepository exposes CRUD operations for attendees.
type AttendeeRepository interface {
	CreateAttendee(ctx context.Context, attendee Attendee) error
	UpdateAttendee(ctx context.Context, attendee Attendee) error
	GetAttendee(ctx context.Context, id string) (Attendee, error)
	GetAttendeeByEmail(ctx context.Context, email string) (Attendee, error)
	GetAttendeeByLegacyGuestID(ctx context.Context, guestID string) (Attendee, error)
	ListAttendees(ctx context.Context) ([]Attendee, error)
	DeleteAttendee(ctx context.Context, id string) error
}

// RSVPFilter narrows RSVP queries.
type RSVPFilter struct {
	SessionID  string
	AttendeeID string
}

// RSVPRepository stores attendance commitments. Uniqueness of the
// (session, attendee) pair is enforced by the creation path checking
// existence first, backed by a unique index.
type RSVPRepository interface {
	CreateRSVP(ctx context.Context, rsvp RSVP) error
	GetRSVP(ctx context.Context, sessionID, attendeeID string) (RSVP, error)
	ListRSVPs(ctx context.Context, filter RSVPFilter) ([]RSVP, error)
	DeleteRSVP(ctx context.Context, id string) error
}

// MeetingFilter narrows meeting queries.
type MeetingFilter struct {
	AttendeeID string
	Status     string
}

// MeetingRepository stores meeting requests and bookings.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) error
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	UpdateMeeting(ctx context.Context, meeting Meeting) error
	ListMeetings(ctx context.Context, filter MeetingFilter) ([]Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
}

// AuthSessionRepository stores authentication session state.
type AuthSessionRepository interface {
	CreateAuthSession(ctx context.Context, session AuthSession) (AuthSession, error)
	GetAuthSession(ctx context.Context, token string) (AuthSession, error)
	RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) (AuthSession, error)
	DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error
}
