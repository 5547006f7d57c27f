package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// RSVPRepository captures the persistence interactions needed by the service.
type RSVPRepository interface {
	CreateRSVP(ctx context.Context, rsvp RSVP) (RSVP, error)
	GetRSVP(ctx context.Context, sessionID, attendeeID string) (RSVP, error)
	ListRSVPs(ctx context.Context, filter RSVPRepositoryFilter) ([]RSVP, error)
	DeleteRSVP(ctx context.Context, id string) error
}

// RSVPRepositoryFilter narrows queries issued to the RSVP repository.
type RSVPRepositoryFilter struct {
	SessionID  string
	AttendeeID string
}

// RSVPService manages session registrations. At most one RSVP exists per
// (session, attendee) pair; session capacity is informational and never
// enforced here.
type RSVPService struct {
	rsvps       RSVPRepository
	identity    AttendeeResolver
	cache       *readCache[RSVP]
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRSVPService wires dependencies for RSVP operations.
func NewRSVPService(rsvps RSVPRepository, identity AttendeeResolver, idGenerator func() string, now func() time.Time, cacheTTL time.Duration, logger *slog.Logger) *RSVPService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RSVPService{
		rsvps:       rsvps,
		identity:    identity,
		cache:       newReadCache[RSVP](cacheTTL, 0, now),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// Toggle adds or removes an RSVP. Adding a duplicate fails with
// ErrAlreadyExists; removing an absent record fails with ErrNotFound. Either
// failure leaves the store unchanged.
func (s *RSVPService) Toggle(ctx context.Context, params ToggleRSVPParams) (ToggleRSVPResult, error) {
	if s == nil {
		return ToggleRSVPResult{}, fmt.Errorf("RSVPService is nil")
	}
	if s.rsvps == nil {
		return ToggleRSVPResult{}, fmt.Errorf("rsvp repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "rsvp_service", "toggle", "session_id", params.SessionID)

	vErr := &ValidationError{}
	if strings.TrimSpace(params.SessionID) == "" {
		vErr.add("session_id", "session is required")
	}
	if strings.TrimSpace(params.AttendeeID) == "" {
		vErr.add("attendee_id", "attendee is required")
	}
	if vErr.HasErrors() {
		return ToggleRSVPResult{}, vErr
	}

	attendeeID := params.AttendeeID
	if s.identity != nil {
		resolved, err := s.identity.Resolve(ctx, attendeeID)
		if err != nil {
			return ToggleRSVPResult{}, fmt.Errorf("resolving attendee %q: %w", attendeeID, err)
		}
		attendeeID = resolved
	}

	if params.Remove {
		return s.remove(ctx, logger, params.SessionID, attendeeID)
	}
	return s.add(ctx, logger, params.SessionID, attendeeID)
}

func (s *RSVPService) add(ctx context.Context, logger *slog.Logger, sessionID, attendeeID string) (ToggleRSVPResult, error) {
	if _, err := s.rsvps.GetRSVP(ctx, sessionID, attendeeID); err == nil {
		return ToggleRSVPResult{}, ErrAlreadyExists
	} else if !isRSVPNotFound(err) {
		return ToggleRSVPResult{}, mapRSVPRepoError(err)
	}

	createdAt := s.now()
	rsvp := RSVP{
		ID:         s.idGenerator(),
		SessionID:  sessionID,
		AttendeeID: attendeeID,
		CreatedAt:  createdAt,
	}

	persisted, err := s.rsvps.CreateRSVP(ctx, rsvp)
	if err != nil {
		return ToggleRSVPResult{}, mapRSVPRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("rsvp added", "rsvp_id", persisted.ID)
	return ToggleRSVPResult{RSVP: &persisted}, nil
}

func (s *RSVPService) remove(ctx context.Context, logger *slog.Logger, sessionID, attendeeID string) (ToggleRSVPResult, error) {
	existing, err := s.rsvps.GetRSVP(ctx, sessionID, attendeeID)
	if err != nil {
		return ToggleRSVPResult{}, mapRSVPRepoError(err)
	}

	if err := s.rsvps.DeleteRSVP(ctx, existing.ID); err != nil {
		return ToggleRSVPResult{}, mapRSVPRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("rsvp removed", "rsvp_id", existing.ID)
	return ToggleRSVPResult{Removed: true}, nil
}

// RSVPsForUser lists the attendee's registrations. Listings may be served
// from the read cache; toggles invalidate it.
func (s *RSVPService) RSVPsForUser(ctx context.Context, attendeeID string) ([]RSVP, error) {
	if s == nil {
		return nil, fmt.Errorf("RSVPService is nil")
	}
	if s.rsvps == nil {
		return nil, fmt.Errorf("rsvp repository not configured")
	}
	if strings.TrimSpace(attendeeID) == "" {
		return nil, nil
	}

	resolved := attendeeID
	if s.identity != nil {
		r, err := s.identity.Resolve(ctx, attendeeID)
		if err != nil {
			return nil, fmt.Errorf("resolving attendee %q: %w", attendeeID, err)
		}
		resolved = r
	}

	if cached, ok := s.cache.Get(resolved); ok {
		return cached, nil
	}

	rsvps, err := s.rsvps.ListRSVPs(ctx, RSVPRepositoryFilter{AttendeeID: resolved})
	if err != nil {
		return nil, mapRSVPRepoError(err)
	}

	s.cache.Store(resolved, rsvps)
	return rsvps, nil
}

func mapRSVPRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("session_id", "session does not exist")
		return vErr
	}
	return err
}

func isRSVPNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
