package persistence

import "time"

// Event represents a conference event record.
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

// Session represents a scheduled block of conference programming. A session
// with an empty title is a blank slot, eligible to be offered as free time.
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

// Attendee represents a person identified by a stable opaque id. LegacyGuestID
// carries the guest-record reference used before the external identity
// provider was introduced; it maps one legacy value to the canonical id.
type Attendee struct {
	ID            string
	Email         string
	DisplayName   string
	LegacyGuestID *string
	IsAdmin       bool
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RSVP represents one attendee's commitment to attend a session.
type RSVP struct {
	ID         string
	SessionID  string
	AttendeeID string
	CreatedAt  time.Time
}

// Meeting represents a bilateral 1:1 meeting request between two attendees
// over a specific interval. Status is one of "pending", "confirmed" or
// "declined".
type Meeting struct {
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

// AuthSession represents an authentication session issued to an attendee.
type AuthSession struct {
	ID         string
	AttendeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	RevokedAt  *time.Time
}
