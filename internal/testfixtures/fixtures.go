package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/conference-hub/internal/application"
	"github.com/example/conference-hub/internal/persistence"
)

var (
	attendeeCounter uint64
	eventCounter    uint64
	sessionCounter  uint64
	meetingCounter  uint64
	rsvpCounter     uint64
)

var referenceTime = time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Attendee fixtures ---------------------------

// AttendeeFixture represents a deterministic attendee record that can be
// materialised for application or persistence tests.
type AttendeeFixture struct {
	ID            string
	Email         string
	DisplayName   string
	LegacyGuestID *string
	IsAdmin       bool
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AttendeeOption configures the generated attendee fixture.
type AttendeeOption func(*AttendeeFixture)

// NewAttendeeFixture returns a deterministic attendee fixture with optional
// overrides.
func NewAttendeeFixture(opts ...AttendeeOption) AttendeeFixture {
	idx := atomic.AddUint64(&attendeeCounter, 1)
	id := fmt.Sprintf("attendee-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := AttendeeFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("Attendee %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAttendeeID overrides the generated attendee ID.
func WithAttendeeID(id string) AttendeeOption {
	return func(f *AttendeeFixture) {
		f.ID = id
	}
}

// WithAttendeeEmail overrides the generated email address.
func WithAttendeeEmail(email string) AttendeeOption {
	return func(f *AttendeeFixture) {
		f.Email = email
	}
}

// WithAttendeeLegacyGuestID sets the legacy guest identifier on the fixture.
func WithAttendeeLegacyGuestID(guestID string) AttendeeOption {
	return func(f *AttendeeFixture) {
		f.LegacyGuestID = &guestID
	}
}

// WithAttendeeAdmin sets the admin flag on the generated fixture.
func WithAttendeeAdmin(isAdmin bool) AttendeeOption {
	return func(f *AttendeeFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithAttendeePasswordHash overrides the generated password hash.
func WithAttendeePasswordHash(hash string) AttendeeOption {
	return func(f *AttendeeFixture) {
		f.PasswordHash = hash
	}
}

// Application returns the fixture as an application.Attendee value.
func (f AttendeeFixture) Application() application.Attendee {
	return application.Attendee{
		ID:            f.ID,
		Email:         f.Email,
		DisplayName:   f.DisplayName,
		LegacyGuestID: f.LegacyGuestID,
		IsAdmin:       f.IsAdmin,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.AttendeeCredentials.
func (f AttendeeFixture) Credentials() application.AttendeeCredentials {
	return application.AttendeeCredentials{
		Attendee:     f.Application(),
		PasswordHash: f.PasswordHash,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f AttendeeFixture) Principal() application.Principal {
	return application.Principal{AttendeeID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.Attendee value.
func (f AttendeeFixture) Persistence() persistence.Attendee {
	return persistence.Attendee{
		ID:            f.ID,
		Email:         f.Email,
		DisplayName:   f.DisplayName,
		LegacyGuestID: f.LegacyGuestID,
		IsAdmin:       f.IsAdmin,
		PasswordHash:  f.PasswordHash,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ----------------------------- Event fixtures ----------------------------

// EventFixture represents a deterministic conference event record.
type EventFixture struct {
	ID        string
	Name      string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	id := fmt.Sprintf("event-%03d", idx)
	start := referenceTime.AddDate(0, 0, int(idx))
	fixture := EventFixture{
		ID:        id,
		Name:      fmt.Sprintf("Event %03d", idx),
		Start:     start,
		End:       start.AddDate(0, 0, 2),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the generated event ID.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) {
		f.ID = id
	}
}

// WithEventName overrides the generated event name.
func WithEventName(name string) EventOption {
	return func(f *EventFixture) {
		f.Name = name
	}
}

// Persistence returns the fixture as a persistence.Event value.
func (f EventFixture) Persistence() persistence.Event {
	return persistence.Event{
		ID:        f.ID,
		Name:      f.Name,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Application returns the fixture as an application.Event value.
func (f EventFixture) Application() application.Event {
	return application.Event{
		ID:        f.ID,
		Name:      f.Name,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ---------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic conference session record. A
// fixture with an empty title models a blank free-time slot.
type SessionFixture struct {
	ID        string
	EventID   string
	Title     string
	Start     time.Time
	End       time.Time
	Capacity  int
	HostIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional
// overrides. Sessions are laid out on consecutive hourly slots starting at
// the reference time.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	id := fmt.Sprintf("session-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := SessionFixture{
		ID:        id,
		EventID:   "event-001",
		Title:     fmt.Sprintf("Session %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		Capacity:  int(20 + idx%10),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionEventID overrides the owning event.
func WithSessionEventID(eventID string) SessionOption {
	return func(f *SessionFixture) {
		f.EventID = eventID
	}
}

// WithSessionTitle overrides the session title. An empty title marks the
// session as free time.
func WithSessionTitle(title string) SessionOption {
	return func(f *SessionFixture) {
		f.Title = title
	}
}

// WithSessionInterval sets the start and end of the session.
func WithSessionInterval(start, end time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.Start = start
		f.End = end
	}
}

// WithSessionHosts sets the hosting attendees on the fixture.
func WithSessionHosts(hostIDs ...string) SessionOption {
	return func(f *SessionFixture) {
		f.HostIDs = hostIDs
	}
}

// Persistence returns the fixture as a persistence.Session value.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		EventID:   f.EventID,
		Title:     f.Title,
		Start:     f.Start,
		End:       f.End,
		Capacity:  f.Capacity,
		HostIDs:   f.HostIDs,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:        f.ID,
		EventID:   f.EventID,
		Title:     f.Title,
		Start:     f.Start,
		End:       f.End,
		Capacity:  f.Capacity,
		HostIDs:   f.HostIDs,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ---------------------------- Meeting fixtures ---------------------------

// MeetingFixture represents a deterministic meeting request record.
type MeetingFixture struct {
	ID          string
	RequesterID string
	RequesteeID string
	Start       time.Time
	End         time.Time
	Status      string
	Title       *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
}

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*MeetingFixture)

// NewMeetingFixture returns a deterministic pending meeting fixture with
// optional overrides.
func NewMeetingFixture(opts ...MeetingOption) MeetingFixture {
	idx := atomic.AddUint64(&meetingCounter, 1)
	id := fmt.Sprintf("meeting-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := MeetingFixture{
		ID:          id,
		RequesterID: "attendee-001",
		RequesteeID: "attendee-002",
		Start:       start,
		End:         start.Add(30 * time.Minute),
		Status:      string(application.MeetingStatusPending),
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMeetingID overrides the generated meeting ID.
func WithMeetingID(id string) MeetingOption {
	return func(f *MeetingFixture) {
		f.ID = id
	}
}

// WithMeetingParties sets the requester and requestee on the fixture.
func WithMeetingParties(requesterID, requesteeID string) MeetingOption {
	return func(f *MeetingFixture) {
		f.RequesterID = requesterID
		f.RequesteeID = requesteeID
	}
}

// WithMeetingInterval sets the start and end of the meeting.
func WithMeetingInterval(start, end time.Time) MeetingOption {
	return func(f *MeetingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithMeetingConfirmed marks the fixture as confirmed at the given instant.
func WithMeetingConfirmed(at time.Time) MeetingOption {
	return func(f *MeetingFixture) {
		f.Status = string(application.MeetingStatusConfirmed)
		f.ConfirmedAt = &at
		f.UpdatedAt = at
	}
}

// WithMeetingDeclined marks the fixture as declined.
func WithMeetingDeclined() MeetingOption {
	return func(f *MeetingFixture) {
		f.Status = string(application.MeetingStatusDeclined)
		f.ConfirmedAt = nil
	}
}

// Persistence returns the fixture as a persistence.Meeting value.
func (f MeetingFixture) Persistence() persistence.Meeting {
	return persistence.Meeting{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		RequesteeID: f.RequesteeID,
		Start:       f.Start,
		End:         f.End,
		Status:      f.Status,
		Title:       f.Title,
		Notes:       f.Notes,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		ConfirmedAt: f.ConfirmedAt,
	}
}

// Application returns the fixture as an application.Meeting value.
func (f MeetingFixture) Application() application.Meeting {
	return application.Meeting{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		RequesteeID: f.RequesteeID,
		Start:       f.Start,
		End:         f.End,
		Status:      application.MeetingStatus(f.Status),
		Title:       f.Title,
		Notes:       f.Notes,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
		ConfirmedAt: f.ConfirmedAt,
	}
}

// ------------------------------ RSVP fixtures ----------------------------

// RSVPFixture represents a deterministic RSVP record.
type RSVPFixture struct {
	ID         string
	SessionID  string
	AttendeeID string
	CreatedAt  time.Time
}

// RSVPOption configures the generated RSVP fixture.
type RSVPOption func(*RSVPFixture)

// NewRSVPFixture returns a deterministic RSVP fixture with optional overrides.
func NewRSVPFixture(opts ...RSVPOption) RSVPFixture {
	idx := atomic.AddUint64(&rsvpCounter, 1)
	fixture := RSVPFixture{
		ID:         fmt.Sprintf("rsvp-%03d", idx),
		SessionID:  "session-001",
		AttendeeID: "attendee-001",
		CreatedAt:  referenceTime.Add(time.Duration(idx) * time.Second),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRSVPSession sets the session on the fixture.
func WithRSVPSession(sessionID string) RSVPOption {
	return func(f *RSVPFixture) {
		f.SessionID = sessionID
	}
}

// WithRSVPAttendee sets the attendee on the fixture.
func WithRSVPAttendee(attendeeID string) RSVPOption {
	return func(f *RSVPFixture) {
		f.AttendeeID = attendeeID
	}
}

// Persistence returns the fixture as a persistence.RSVP value.
func (f RSVPFixture) Persistence() persistence.RSVP {
	return persistence.RSVP{
		ID:         f.ID,
		SessionID:  f.SessionID,
		AttendeeID: f.AttendeeID,
		CreatedAt:  f.CreatedAt,
	}
}

// Application returns the fixture as an application.RSVP value.
func (f RSVPFixture) Application() application.RSVP {
	return application.RSVP{
		ID:         f.ID,
		SessionID:  f.SessionID,
		AttendeeID: f.AttendeeID,
		CreatedAt:  f.CreatedAt,
	}
}
