package slot

import (
	"strings"
	"time"
)

// Interval is a (start, end) pair taken from a session's boundaries. It is the
// unit of availability comparison: two intervals describe the same slot only
// when both instants are exactly equal.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has a positive duration.
func (i Interval) Valid() bool {
	return !i.Start.IsZero() && !i.End.IsZero() && i.Start.Before(i.End)
}

// Same reports exact equality of both boundaries. No tolerance or overlap
// semantics: partially overlapping intervals are distinct slots.
func (i Interval) Same(other Interval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

// Key returns a normalized string form of the interval, stable across time
// zones, suitable as a lock or cache key.
func (i Interval) Key() string {
	var b strings.Builder
	b.WriteString(i.Start.UTC().Format(time.RFC3339Nano))
	b.WriteString("/")
	b.WriteString(i.End.UTC().Format(time.RFC3339Nano))
	return b.String()
}

// Booking represents a confirmed bilateral meeting occupying an interval.
type Booking struct {
	MeetingID string
	Requester string
	Requestee string
	Interval  Interval
}

// Involves reports whether the attendee participates in the booking on either
// side.
func (b Booking) Involves(attendeeID string) bool {
	if attendeeID == "" {
		return false
	}
	return b.Requester == attendeeID || b.Requestee == attendeeID
}

// Conflict details a booking that blocks a candidate interval for a specific
// attendee.
type Conflict struct {
	MeetingID  string
	AttendeeID string
}

// DetectConflicts identifies which of the existing confirmed bookings block
// the candidate: a booking conflicts when its interval exactly equals the
// candidate interval and it involves one of the candidate attendees. The
// candidate's own meeting id, when set, is skipped so a booking never
// conflicts with itself.
func DetectConflicts(existing []Booking, candidate Booking) []Conflict {
	if !candidate.Interval.Valid() {
		return nil
	}

	var conflicts []Conflict
	for _, booking := range existing {
		if candidate.MeetingID != "" && booking.MeetingID == candidate.MeetingID {
			continue
		}
		if !booking.Interval.Same(candidate.Interval) {
			continue
		}
		for _, attendee := range []string{candidate.Requester, candidate.Requestee} {
			if booking.Involves(attendee) {
				conflicts = append(conflicts, Conflict{
					MeetingID:  booking.MeetingID,
					AttendeeID: attendee,
				})
			}
		}
	}
	return conflicts
}

// BusyAt reports whether the attendee has any booking whose interval exactly
// equals the given one.
func BusyAt(bookings []Booking, attendeeID string, interval Interval) bool {
	for _, booking := range bookings {
		if booking.Interval.Same(interval) && booking.Involves(attendeeID) {
			return true
		}
	}
	return false
}
