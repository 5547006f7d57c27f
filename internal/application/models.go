package application

import "time"

// Principal represents the authenticated attendee invoking a service method.
type Principal struct {
	AttendeeID string
	IsAdmin    bool
}

// MeetingStatus enumerates the lifecycle states of a meeting request.
type MeetingStatus string

const (
	// MeetingStatusPending marks a request awaiting a response.
	MeetingStatusPending MeetingStatus = "pending"
	// MeetingStatusConfirmed marks an accepted request that occupies its slot.
	MeetingStatusConfirmed MeetingStatus = "confirmed"
	// MeetingStatusDeclined marks a rejected request.
	MeetingStatusDeclined MeetingStatus = "declined"
)

// Meeting represents a one-on-one meeting request between two attendees.
type Meeting struct {
	ID          string
	RequesterID string
	RequesteeID string
	Start       time.Time
	End         time.Time
	Status      MeetingStatus
	Title       *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
}

// MeetingInput captures caller provided meeting request fields.
type MeetingInput struct {
	RequesterID string
	RequesteeID string
	Start       time.Time
	End         time.Time
	Title       *string
	Notes       *string
}

// CreateMeetingParams wraps the data required to create a meeting request.
type CreateMeetingParams struct {
	Input MeetingInput
}

// MeetingOverview groups an attendee's meetings by the views the directory renders.
type MeetingOverview struct {
	PendingIncoming []Meeting
	PendingOutgoing []Meeting
	Confirmed       []Meeting
	Declined        []Meeting
}

// RSVP represents an attendee's registration for a conference session.
type RSVP struct {
	ID         string
	SessionID  string
	AttendeeID string
	CreatedAt  time.Time
}

// ToggleRSVPParams wraps the data required to add or remove an RSVP.
type ToggleRSVPParams struct {
	SessionID  string
	AttendeeID string
	Remove     bool
}

// ToggleRSVPResult reports the outcome of an RSVP toggle.
type ToggleRSVPResult struct {
	RSVP    *RSVP
	Removed bool
}

// Session represents a conference session or a blank free-time slot.
type Session struct {
	ID         string
	EventID    string
	Title      string
	Start      time.Time
	End        time.Time
	LocationID *string
	Capacity   int
	HostIDs    []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsFreeTime reports whether the session is a blank scheduling slot rather
// than a programmed talk.
func (s Session) IsFreeTime() bool {
	return s.Title == ""
}

// Event represents a conference edition.
type Event struct {
	ID          string
	Name        string
	Description *string
	Website     *string
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FreeSlot describes an interval during which two attendees can meet.
type FreeSlot struct {
	SessionID string
	Label     string
	Start     time.Time
	End       time.Time
}

// Availability is the result of a mutual free-slot computation.
type Availability struct {
	Slots          []FreeSlot
	UserRSVPCount  int
	OtherRSVPCount int
}

// AttendeeInput captures caller provided attendee attributes.
type AttendeeInput struct {
	Email         string
	DisplayName   string
	LegacyGuestID *string
	IsAdmin       bool
}

// Attendee represents a conference attendee account.
type Attendee struct {
	ID            string
	Email         string
	DisplayName   string
	LegacyGuestID *string
	IsAdmin       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateAttendeeParams wraps the data required to create an attendee.
type CreateAttendeeParams struct {
	Principal Principal
	Input     AttendeeInput
	Password  string
}

// UpdateAttendeeParams wraps the data required to update an attendee.
type UpdateAttendeeParams struct {
	Principal  Principal
	AttendeeID string
	Input      AttendeeInput
}

// AttendeeCredentials models the authentication attributes persisted for an attendee.
type AttendeeCredentials struct {
	Attendee     Attendee
	PasswordHash string
	Disabled     bool
}

// AuthSession represents an authenticated session issued to an attendee.
type AuthSession struct {
	ID         string
	AttendeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	RevokedAt  *time.Time
}

// AuthenticateParams captures the data required to authenticate an attendee.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	Attendee Attendee
	Session  AuthSession
}
