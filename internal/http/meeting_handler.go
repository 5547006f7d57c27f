package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/application"
)

type meetingService interface {
	CreateRequest(ctx context.Context, params application.CreateMeetingParams) (application.Meeting, error)
	Confirm(ctx context.Context, meetingID string) (application.Meeting, error)
	Decline(ctx context.Context, meetingID string) (application.Meeting, error)
	Delete(ctx context.Context, meetingID string) error
	OverviewForUser(ctx context.Context, attendeeID string) (application.MeetingOverview, error)
}

type MeetingHandler struct {
	service   meetingService
	responder responder
}

func NewMeetingHandler(service meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, responder: newResponder(logger)}
}

func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req meetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input := req.toInput()
	if input.RequesterID == "" {
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			input.RequesterID = principal.AttendeeID
		}
	}

	meeting, err := h.service.CreateRequest(r.Context(), application.CreateMeetingParams{Input: input})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, meetingResponse{
		Success: true,
		Meeting: toMeetingDTO(meeting),
	})
}

func (h *MeetingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceConfirm)
}

func (h *MeetingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceDecline)
}

func (h *MeetingHandler) serviceConfirm(ctx context.Context, id string) (application.Meeting, error) {
	return h.service.Confirm(ctx, id)
}

func (h *MeetingHandler) serviceDecline(ctx context.Context, id string) (application.Meeting, error) {
	return h.service.Decline(ctx, id)
}

func (h *MeetingHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string) (application.Meeting, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	meeting, err := apply(r.Context(), meetingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingResponse{
		Success: true,
		Meeting: toMeetingDTO(meeting),
	})
}

func (h *MeetingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	meetingID, ok := MeetingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(meetingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMeetingID)
		return
	}

	if err := h.service.Delete(r.Context(), meetingID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List renders the caller's meetings grouped into pending-incoming,
// pending-outgoing, confirmed and declined views. An attendee_id query
// parameter lets the caller inspect another identity, matching legacy guest
// links.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	attendeeID := strings.TrimSpace(r.URL.Query().Get("attendee_id"))
	if attendeeID == "" {
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			attendeeID = principal.AttendeeID
		}
	}

	overview, err := h.service.OverviewForUser(r.Context(), attendeeID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, meetingOverviewResponse{
		Success:         true,
		PendingIncoming: toMeetingDTOs(overview.PendingIncoming),
		PendingOutgoing: toMeetingDTOs(overview.PendingOutgoing),
		Confirmed:       toMeetingDTOs(overview.Confirmed),
		Declined:        toMeetingDTOs(overview.Declined),
	})
}

type meetingRequest struct {
	RequesterID string  `json:"requester_id"`
	RequesteeID string  `json:"requestee_id"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Title       *string `json:"title"`
	Notes       *string `json:"notes"`
}

func (r meetingRequest) toInput() application.MeetingInput {
	return application.MeetingInput{
		RequesterID: strings.TrimSpace(r.RequesterID),
		RequesteeID: strings.TrimSpace(r.RequesteeID),
		Start:       parseTime(r.Start),
		End:         parseTime(r.End),
		Title:       r.Title,
		Notes:       r.Notes,
	}
}

type meetingDTO struct {
	ID          string  `json:"id"`
	RequesterID string  `json:"requester_id"`
	RequesteeID string  `json:"requestee_id"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	Status      string  `json:"status"`
	Title       *string `json:"title,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	ConfirmedAt *string `json:"confirmed_at,omitempty"`
}

type meetingResponse struct {
	Success bool       `json:"success"`
	Meeting meetingDTO `json:"meeting"`
}

type meetingOverviewResponse struct {
	Success         bool         `json:"success"`
	PendingIncoming []meetingDTO `json:"pending_incoming"`
	PendingOutgoing []meetingDTO `json:"pending_outgoing"`
	Confirmed       []meetingDTO `json:"confirmed"`
	Declined        []meetingDTO `json:"declined"`
}

func toMeetingDTO(meeting application.Meeting) meetingDTO {
	dto := meetingDTO{
		ID:          meeting.ID,
		RequesterID: meeting.RequesterID,
		RequesteeID: meeting.RequesteeID,
		Start:       formatTime(meeting.Start),
		End:         formatTime(meeting.End),
		Status:      string(meeting.Status),
		Title:       meeting.Title,
		Notes:       meeting.Notes,
		CreatedAt:   formatTime(meeting.CreatedAt),
		UpdatedAt:   formatTime(meeting.UpdatedAt),
	}
	if meeting.ConfirmedAt != nil {
		confirmed := formatTime(*meeting.ConfirmedAt)
		dto.ConfirmedAt = &confirmed
	}
	return dto
}

func toMeetingDTOs(meetings []application.Meeting) []meetingDTO {
	out := make([]meetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		out = append(out, toMeetingDTO(meeting))
	}
	return out
}

func parseTime(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, trimmed)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, trimmed)
		if err != nil {
			return time.Time{}
		}
	}
	return parsed
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
