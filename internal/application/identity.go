package application

import (
	"context"
	"errors"

	"github.com/example/conference-hub/internal/persistence"
)

// AttendeeLookup exposes the attendee reads needed to canonicalize identifiers.
type AttendeeLookup interface {
	GetAttendee(ctx context.Context, id string) (Attendee, error)
	GetAttendeeByLegacyGuestID(ctx context.Context, guestID string) (Attendee, error)
}

// IdentityResolver canonicalizes attendee identifiers. Callers may present
// either a canonical attendee ID or a legacy guest reference issued before
// account sign-in existed; bookings and availability lookups must land on the
// same identity either way.
type IdentityResolver struct {
	attendees AttendeeLookup
}

// NewIdentityResolver wires the resolver against an attendee lookup.
func NewIdentityResolver(attendees AttendeeLookup) *IdentityResolver {
	return &IdentityResolver{attendees: attendees}
}

// Resolve returns the canonical attendee ID for the given identifier. Unknown
// identifiers pass through unchanged: attendees who never registered keep
// using their opaque guest token.
func (r *IdentityResolver) Resolve(ctx context.Context, id string) (string, error) {
	if r == nil || r.attendees == nil || id == "" {
		return id, nil
	}

	if _, err := r.attendees.GetAttendee(ctx, id); err == nil {
		return id, nil
	} else if !isAttendeeNotFound(err) {
		return "", err
	}

	attendee, err := r.attendees.GetAttendeeByLegacyGuestID(ctx, id)
	if err == nil {
		return attendee.ID, nil
	}
	if isAttendeeNotFound(err) {
		return id, nil
	}
	return "", err
}

func isAttendeeNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
