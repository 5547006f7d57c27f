package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/application"
	"github.com/example/conference-hub/internal/ical"
)

type calendarSessionDirectory interface {
	GetSession(ctx context.Context, id string) (application.Session, error)
}

// CalendarHandler renders an attendee's RSVPs and confirmed meetings as an
// iCalendar feed.
type CalendarHandler struct {
	sessions  calendarSessionDirectory
	rsvps     rsvpService
	meetings  meetingService
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

func NewCalendarHandler(sessions calendarSessionDirectory, rsvps rsvpService, meetings meetingService, now func() time.Time, logger *slog.Logger) *CalendarHandler {
	if now == nil {
		now = time.Now
	}
	base := defaultLogger(logger)
	return &CalendarHandler{
		sessions:  sessions,
		rsvps:     rsvps,
		meetings:  meetings,
		now:       now,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil || h.rsvps == nil || h.meetings == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	attendeeID, ok := AttendeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(attendeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAttendeeID)
		return
	}

	entries, err := h.buildEntries(r.Context(), attendeeID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	feed := ical.Feed{
		Name:    "Conference itinerary",
		Entries: entries,
		Now:     h.now(),
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	if err := ical.Encode(w, feed); err != nil {
		handlerLogger(r.Context(), h.logger, "CalendarHandler", "Get").ErrorContext(r.Context(), "failed to encode calendar", "error", err)
	}
}

func (h *CalendarHandler) buildEntries(ctx context.Context, attendeeID string) ([]ical.Entry, error) {
	rsvps, err := h.rsvps.RSVPsForUser(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	entries := make([]ical.Entry, 0, len(rsvps))
	for _, rsvp := range rsvps {
		session, err := h.sessions.GetSession(ctx, rsvp.SessionID)
		if err != nil {
			return nil, err
		}
		summary := session.Title
		if session.IsFreeTime() {
			summary = "Free time"
		}
		entries = append(entries, ical.Entry{
			UID:     "session-" + session.ID,
			Summary: summary,
			Start:   session.Start,
			End:     session.End,
		})
	}

	overview, err := h.meetings.OverviewForUser(ctx, attendeeID)
	if err != nil {
		return nil, err
	}
	for _, meeting := range overview.Confirmed {
		summary := "Meeting"
		if meeting.Title != nil && strings.TrimSpace(*meeting.Title) != "" {
			summary = *meeting.Title
		}
		entry := ical.Entry{
			UID:     "meeting-" + meeting.ID,
			Summary: summary,
			Start:   meeting.Start,
			End:     meeting.End,
		}
		if meeting.Notes != nil {
			entry.Description = *meeting.Notes
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
