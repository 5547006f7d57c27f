package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/conference-hub/internal/application"
)

type availabilityService interface {
	MutualFreeSlots(ctx context.Context, userID, otherID string) (application.Availability, error)
}

type AvailabilityHandler struct {
	service   availabilityService
	responder responder
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, responder: newResponder(logger)}
}

// Get computes mutual free slots for the caller and another attendee. A
// missing other_id yields an empty result rather than an error.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	userID := strings.TrimSpace(query.Get("user_id"))
	otherID := strings.TrimSpace(query.Get("other_id"))
	if userID == "" {
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			userID = principal.AttendeeID
		}
	}

	availability, err := h.service.MutualFreeSlots(r.Context(), userID, otherID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{
		Success:        true,
		Slots:          toFreeSlotDTOs(availability.Slots),
		UserRSVPCount:  availability.UserRSVPCount,
		OtherRSVPCount: availability.OtherRSVPCount,
	})
}

type freeSlotDTO struct {
	SessionID string `json:"session_id"`
	Label     string `json:"label"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

type availabilityResponse struct {
	Success        bool          `json:"success"`
	Slots          []freeSlotDTO `json:"slots"`
	UserRSVPCount  int           `json:"user_rsvp_count"`
	OtherRSVPCount int           `json:"other_rsvp_count"`
}

func toFreeSlotDTOs(slots []application.FreeSlot) []freeSlotDTO {
	out := make([]freeSlotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, freeSlotDTO{
			SessionID: slot.SessionID,
			Label:     slot.Label,
			Start:     formatTime(slot.Start),
			End:       formatTime(slot.End),
		})
	}
	return out
}
