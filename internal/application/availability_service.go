package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/example/conference-hub/internal/slot"
)

// AvailabilityService computes mutual free slots for pairs of attendees. It
// is a pure read: it never mutates the store and never consults the listing
// caches, so its answers always reflect the current records.
type AvailabilityService struct {
	sessions SessionDirectory
	rsvps    RSVPRepository
	meetings MeetingRepository
	identity AttendeeResolver
	logger   *slog.Logger
}

// NewAvailabilityService wires dependencies for availability queries.
func NewAvailabilityService(sessions SessionDirectory, rsvps RSVPRepository, meetings MeetingRepository, identity AttendeeResolver, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{
		sessions: sessions,
		rsvps:    rsvps,
		meetings: meetings,
		identity: identity,
		logger:   defaultLogger(logger),
	}
}

// MutualFreeSlots returns the sessions during which both attendees are free:
// neither holds an RSVP on the session, and neither has a confirmed meeting
// occupying the session's exact interval. A blank attendee id yields an empty
// result without error; a store failure propagates so callers never mistake
// an unreachable store for open slots.
func (s *AvailabilityService) MutualFreeSlots(ctx context.Context, userID, otherID string) (Availability, error) {
	if s == nil {
		return Availability{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.sessions == nil || s.rsvps == nil || s.meetings == nil {
		return Availability{}, fmt.Errorf("availability dependencies not configured")
	}
	logger := serviceLogger(ctx, s.logger, "availability_service", "mutual_free_slots")

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(otherID) == "" {
		return Availability{}, nil
	}

	resolvedUser, err := s.resolveID(ctx, userID)
	if err != nil {
		return Availability{}, err
	}
	resolvedOther, err := s.resolveID(ctx, otherID)
	if err != nil {
		return Availability{}, err
	}

	sessions, err := s.sessions.ListSessions(ctx, SessionRepositoryFilter{})
	if err != nil {
		return Availability{}, fmt.Errorf("listing sessions: %w", err)
	}

	userRSVPs, err := s.rsvps.ListRSVPs(ctx, RSVPRepositoryFilter{AttendeeID: resolvedUser})
	if err != nil {
		return Availability{}, fmt.Errorf("listing rsvps: %w", err)
	}
	otherRSVPs, err := s.rsvps.ListRSVPs(ctx, RSVPRepositoryFilter{AttendeeID: resolvedOther})
	if err != nil {
		return Availability{}, fmt.Errorf("listing rsvps: %w", err)
	}

	confirmed, err := s.meetings.ListMeetings(ctx, MeetingRepositoryFilter{Status: MeetingStatusConfirmed})
	if err != nil {
		return Availability{}, fmt.Errorf("listing confirmed meetings: %w", err)
	}

	reserved := make(map[string]struct{}, len(userRSVPs)+len(otherRSVPs))
	for _, rsvp := range userRSVPs {
		reserved[rsvp.SessionID] = struct{}{}
	}
	for _, rsvp := range otherRSVPs {
		reserved[rsvp.SessionID] = struct{}{}
	}

	bookings := make([]slot.Booking, 0, len(confirmed))
	for _, meeting := range confirmed {
		bookings = append(bookings, slot.Booking{
			MeetingID: meeting.ID,
			Requester: meeting.RequesterID,
			Requestee: meeting.RequesteeID,
			Interval:  slot.Interval{Start: meeting.Start, End: meeting.End},
		})
	}

	slots := make([]FreeSlot, 0, len(sessions))
	for _, session := range sessions {
		if _, ok := reserved[session.ID]; ok {
			continue
		}
		interval := slot.Interval{Start: session.Start, End: session.End}
		if slot.BusyAt(bookings, resolvedUser, interval) || slot.BusyAt(bookings, resolvedOther, interval) {
			continue
		}
		slots = append(slots, FreeSlot{
			SessionID: session.ID,
			Label:     slotLabel(session),
			Start:     session.Start,
			End:       session.End,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start.Equal(slots[j].Start) {
			return slots[i].SessionID < slots[j].SessionID
		}
		return slots[i].Start.Before(slots[j].Start)
	})

	logger.Debug("availability computed", "slots", len(slots))
	return Availability{
		Slots:          slots,
		UserRSVPCount:  len(userRSVPs),
		OtherRSVPCount: len(otherRSVPs),
	}, nil
}

func (s *AvailabilityService) resolveID(ctx context.Context, id string) (string, error) {
	if s.identity == nil {
		return id, nil
	}
	resolved, err := s.identity.Resolve(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolving attendee %q: %w", id, err)
	}
	return resolved, nil
}

func slotLabel(session Session) string {
	if session.IsFreeTime() {
		return "Free time"
	}
	return session.Title
}
