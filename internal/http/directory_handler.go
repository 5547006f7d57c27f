package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/conference-hub/internal/application"
)

type sessionService interface {
	ListSessions(ctx context.Context, eventName string) ([]application.Session, error)
	ListEvents(ctx context.Context) ([]application.Event, error)
}

type attendeeService interface {
	CreateAttendee(ctx context.Context, params application.CreateAttendeeParams) (application.Attendee, error)
	UpdateAttendee(ctx context.Context, params application.UpdateAttendeeParams) (application.Attendee, error)
	DeleteAttendee(ctx context.Context, principal application.Principal, attendeeID string) error
	ListAttendees(ctx context.Context) ([]application.Attendee, error)
}

// DirectoryHandler serves the read-only session, event, and attendee
// directories plus the admin-only attendee mutations.
type DirectoryHandler struct {
	sessions  sessionService
	attendees attendeeService
	responder responder
}

func NewDirectoryHandler(sessions sessionService, attendees attendeeService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{sessions: sessions, attendees: attendees, responder: newResponder(logger)}
}

func (h *DirectoryHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventName := strings.TrimSpace(r.URL.Query().Get("event"))
	sessions, err := h.sessions.ListSessions(r.Context(), eventName)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{
		Success:  true,
		Sessions: toSessionDTOs(sessions),
	})
}

func (h *DirectoryHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	events, err := h.sessions.ListEvents(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{
		Success: true,
		Events:  toEventDTOs(events),
	})
}

func (h *DirectoryHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendees == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	attendees, err := h.attendees.ListAttendees(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAttendeesResponse{
		Success:   true,
		Attendees: toAttendeeDTOs(attendees),
	})
}

func (h *DirectoryHandler) CreateAttendee(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendees == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req attendeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	attendee, err := h.attendees.CreateAttendee(r.Context(), application.CreateAttendeeParams{
		Principal: principal,
		Input:     req.toInput(),
		Password:  req.Password,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, attendeeResponse{
		Success:  true,
		Attendee: toAttendeeDTO(attendee),
	})
}

func (h *DirectoryHandler) UpdateAttendee(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendees == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	attendeeID, ok := AttendeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(attendeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAttendeeID)
		return
	}

	var req attendeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	attendee, err := h.attendees.UpdateAttendee(r.Context(), application.UpdateAttendeeParams{
		Principal:  principal,
		AttendeeID: attendeeID,
		Input:      req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, attendeeResponse{
		Success:  true,
		Attendee: toAttendeeDTO(attendee),
	})
}

func (h *DirectoryHandler) DeleteAttendee(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.attendees == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	attendeeID, ok := AttendeeIDFromContext(r.Context())
	if !ok || strings.TrimSpace(attendeeID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAttendeeID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.attendees.DeleteAttendee(r.Context(), principal, attendeeID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type sessionDTO struct {
	ID         string   `json:"id"`
	EventID    string   `json:"event_id"`
	Title      string   `json:"title"`
	FreeTime   bool     `json:"free_time"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	LocationID *string  `json:"location_id,omitempty"`
	Capacity   int      `json:"capacity"`
	HostIDs    []string `json:"host_ids,omitempty"`
}

type listSessionsResponse struct {
	Success  bool         `json:"success"`
	Sessions []sessionDTO `json:"sessions"`
}

type eventDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
}

type listEventsResponse struct {
	Success bool       `json:"success"`
	Events  []eventDTO `json:"events"`
}

type attendeeRequest struct {
	Email         string  `json:"email"`
	DisplayName   string  `json:"display_name"`
	LegacyGuestID *string `json:"legacy_guest_id"`
	IsAdmin       bool    `json:"is_admin"`
	Password      string  `json:"password"`
}

func (r attendeeRequest) toInput() application.AttendeeInput {
	return application.AttendeeInput{
		Email:         strings.TrimSpace(r.Email),
		DisplayName:   strings.TrimSpace(r.DisplayName),
		LegacyGuestID: r.LegacyGuestID,
		IsAdmin:       r.IsAdmin,
	}
}

type attendeeDTO struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	DisplayName   string  `json:"display_name"`
	LegacyGuestID *string `json:"legacy_guest_id,omitempty"`
	IsAdmin       bool    `json:"is_admin"`
}

type attendeeResponse struct {
	Success  bool        `json:"success"`
	Attendee attendeeDTO `json:"attendee"`
}

type listAttendeesResponse struct {
	Success   bool          `json:"success"`
	Attendees []attendeeDTO `json:"attendees"`
}

func toSessionDTO(session application.Session) sessionDTO {
	return sessionDTO{
		ID:         session.ID,
		EventID:    session.EventID,
		Title:      session.Title,
		FreeTime:   session.IsFreeTime(),
		Start:      formatTime(session.Start),
		End:        formatTime(session.End),
		LocationID: session.LocationID,
		Capacity:   session.Capacity,
		HostIDs:    session.HostIDs,
	}
}

func toSessionDTOs(sessions []application.Session) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionDTO(session))
	}
	return out
}

func toEventDTO(event application.Event) eventDTO {
	return eventDTO{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Website:     event.Website,
		Start:       formatTime(event.Start),
		End:         formatTime(event.End),
	}
}

func toEventDTOs(events []application.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, toEventDTO(event))
	}
	return out
}

func toAttendeeDTO(attendee application.Attendee) attendeeDTO {
	return attendeeDTO{
		ID:            attendee.ID,
		Email:         attendee.Email,
		DisplayName:   attendee.DisplayName,
		LegacyGuestID: attendee.LegacyGuestID,
		IsAdmin:       attendee.IsAdmin,
	}
}

func toAttendeeDTOs(attendees []application.Attendee) []attendeeDTO {
	out := make([]attendeeDTO, 0, len(attendees))
	for _, attendee := range attendees {
		out = append(out, toAttendeeDTO(attendee))
	}
	return out
}
