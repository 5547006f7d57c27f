package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/conference-hub/internal/application"
)

type rsvpService interface {
	Toggle(ctx context.Context, params application.ToggleRSVPParams) (application.ToggleRSVPResult, error)
	RSVPsForUser(ctx context.Context, attendeeID string) ([]application.RSVP, error)
}

type RSVPHandler struct {
	service   rsvpService
	responder responder
}

func NewRSVPHandler(service rsvpService, logger *slog.Logger) *RSVPHandler {
	return &RSVPHandler{service: service, responder: newResponder(logger)}
}

// Toggle adds or removes the caller's RSVP for a session.
func (h *RSVPHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req toggleRSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	attendeeID := strings.TrimSpace(req.AttendeeID)
	if attendeeID == "" {
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			attendeeID = principal.AttendeeID
		}
	}

	result, err := h.service.Toggle(r.Context(), application.ToggleRSVPParams{
		SessionID:  strings.TrimSpace(req.SessionID),
		AttendeeID: attendeeID,
		Remove:     req.Remove,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := toggleRSVPResponse{Success: true, Removed: result.Removed}
	if result.RSVP != nil {
		dto := toRSVPDTO(*result.RSVP)
		response.RSVP = &dto
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

// List renders the caller's RSVPs.
func (h *RSVPHandler) List(w http.ResponseWriter, r *http.Request) {
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

	rsvps, err := h.service.RSVPsForUser(r.Context(), attendeeID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRSVPsResponse{
		Success: true,
		RSVPs:   toRSVPDTOs(rsvps),
	})
}

type toggleRSVPRequest struct {
	SessionID  string `json:"session_id"`
	AttendeeID string `json:"attendee_id"`
	Remove     bool   `json:"remove"`
}

type rsvpDTO struct {
	ID         string `json:"id"`
	SessionID  string `json:"session_id"`
	AttendeeID string `json:"attendee_id"`
	CreatedAt  string `json:"created_at"`
}

type toggleRSVPResponse struct {
	Success bool     `json:"success"`
	RSVP    *rsvpDTO `json:"rsvp,omitempty"`
	Removed bool     `json:"removed"`
}

type listRSVPsResponse struct {
	Success bool      `json:"success"`
	RSVPs   []rsvpDTO `json:"rsvps"`
}

func toRSVPDTO(rsvp application.RSVP) rsvpDTO {
	return rsvpDTO{
		ID:         rsvp.ID,
		SessionID:  rsvp.SessionID,
		AttendeeID: rsvp.AttendeeID,
		CreatedAt:  formatTime(rsvp.CreatedAt),
	}
}

func toRSVPDTOs(rsvps []application.RSVP) []rsvpDTO {
	out := make([]rsvpDTO, 0, len(rsvps))
	for _, rsvp := range rsvps {
		out = append(out, toRSVPDTO(rsvp))
	}
	return out
}
