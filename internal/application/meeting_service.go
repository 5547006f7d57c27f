package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
	"github.com/example/conference-hub/internal/slot"
)

// MeetingRepository captures the persistence interactions needed by the service.
type MeetingRepository interface {
	CreateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	GetMeeting(ctx context.Context, id string) (Meeting, error)
	UpdateMeeting(ctx context.Context, meeting Meeting) (Meeting, error)
	DeleteMeeting(ctx context.Context, id string) error
	ListMeetings(ctx context.Context, filter MeetingRepositoryFilter) ([]Meeting, error)
}

// MeetingRepositoryFilter narrows queries issued to the meeting repository.
type MeetingRepositoryFilter struct {
	AttendeeID string
	Status     MeetingStatus
}

// AttendeeResolver canonicalizes attendee identifiers before they reach
// booking comparisons.
type AttendeeResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// MeetingService orchestrates validation, conflict detection and persistence
// for meeting requests.
type MeetingService struct {
	meetings    MeetingRepository
	identity    AttendeeResolver
	slots       *slotLocks
	cache       *readCache[Meeting]
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMeetingService wires dependencies for meeting operations. cacheTTL bounds
// how stale the per-attendee listing cache may get; zero selects the default.
func NewMeetingService(meetings MeetingRepository, identity AttendeeResolver, idGenerator func() string, now func() time.Time, cacheTTL time.Duration, logger *slog.Logger) *MeetingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		meetings:    meetings,
		identity:    identity,
		slots:       newSlotLocks(),
		cache:       newReadCache[Meeting](cacheTTL, 0, now),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateRequest records a pending meeting request after checking that no
// confirmed booking already occupies the exact slot for either party.
func (s *MeetingService) CreateRequest(ctx context.Context, params CreateMeetingParams) (Meeting, error) {
	if s == nil {
		return Meeting{}, fmt.Errorf("MeetingService is nil")
	}
	if s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "meeting_service", "create_request")

	input := params.Input

	vErr := &ValidationError{}
	if strings.TrimSpace(input.RequesterID) == "" {
		vErr.add("requester_id", "requester is required")
	}
	if strings.TrimSpace(input.RequesteeID) == "" {
		vErr.add("requestee_id", "requestee is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}
	if vErr.HasErrors() {
		logger.Warn("meeting request rejected", "error_kind", "validation")
		return Meeting{}, vErr
	}

	requesterID, requesteeID, err := s.resolveParties(ctx, input.RequesterID, input.RequesteeID)
	if err != nil {
		return Meeting{}, err
	}

	interval := slot.Interval{Start: input.Start, End: input.End}
	release := s.slots.Acquire(interval.Key())
	defer release()

	candidate := slot.Booking{
		Requester: requesterID,
		Requestee: requesteeID,
		Interval:  interval,
	}
	if err := s.ensureSlotFree(ctx, candidate); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			logger.Info("meeting request rejected", "error_kind", "slot_taken", "requester_id", requesterID, "requestee_id", requesteeID)
		}
		return Meeting{}, err
	}

	createdAt := s.now()
	meeting := Meeting{
		ID:          s.idGenerator(),
		RequesterID: requesterID,
		RequesteeID: requesteeID,
		Start:       input.Start,
		End:         input.End,
		Status:      MeetingStatusPending,
		Title:       input.Title,
		Notes:       input.Notes,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	persisted, err := s.meetings.CreateMeeting(ctx, meeting)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("meeting request created", "meeting_id", persisted.ID, "requester_id", requesterID, "requestee_id", requesteeID)
	return persisted, nil
}

// Confirm promotes a meeting to confirmed. The interval lock is held across
// the conflict re-check and the status write so two confirmations racing for
// the same slot cannot both succeed.
func (s *MeetingService) Confirm(ctx context.Context, meetingID string) (Meeting, error) {
	if s == nil {
		return Meeting{}, fmt.Errorf("MeetingService is nil")
	}
	if s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "meeting_service", "confirm", "meeting_id", meetingID)

	existing, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}
	if existing.Status == MeetingStatusConfirmed {
		return existing, nil
	}

	interval := slot.Interval{Start: existing.Start, End: existing.End}
	release := s.slots.Acquire(interval.Key())
	defer release()

	candidate := slot.Booking{
		MeetingID: existing.ID,
		Requester: existing.RequesterID,
		Requestee: existing.RequesteeID,
		Interval:  interval,
	}
	if err := s.ensureSlotFree(ctx, candidate); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			logger.Info("confirmation rejected", "error_kind", "slot_taken")
		}
		return Meeting{}, err
	}

	confirmedAt := s.now()
	updated := existing
	updated.Status = MeetingStatusConfirmed
	updated.ConfirmedAt = &confirmedAt
	updated.UpdatedAt = confirmedAt

	persisted, err := s.meetings.UpdateMeeting(ctx, updated)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("meeting confirmed")
	return persisted, nil
}

// Decline marks a meeting as declined. Declining never requires the slot to
// be free.
func (s *MeetingService) Decline(ctx context.Context, meetingID string) (Meeting, error) {
	if s == nil {
		return Meeting{}, fmt.Errorf("MeetingService is nil")
	}
	if s.meetings == nil {
		return Meeting{}, fmt.Errorf("meeting repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "meeting_service", "decline", "meeting_id", meetingID)

	existing, err := s.meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}

	updated := existing
	updated.Status = MeetingStatusDeclined
	updated.ConfirmedAt = nil
	updated.UpdatedAt = s.now()

	persisted, err := s.meetings.UpdateMeeting(ctx, updated)
	if err != nil {
		return Meeting{}, mapMeetingRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("meeting declined")
	return persisted, nil
}

// Delete removes a meeting regardless of its status.
func (s *MeetingService) Delete(ctx context.Context, meetingID string) error {
	if s == nil {
		return fmt.Errorf("MeetingService is nil")
	}
	if s.meetings == nil {
		return fmt.Errorf("meeting repository not configured")
	}
	logger := serviceLogger(ctx, s.logger, "meeting_service", "delete", "meeting_id", meetingID)

	if err := s.meetings.DeleteMeeting(ctx, meetingID); err != nil {
		return mapMeetingRepoError(err)
	}

	s.cache.Invalidate()
	logger.Info("meeting deleted")
	return nil
}

// MeetingsForUser lists every meeting involving the attendee, ordered by
// start time. Listings may be served from the read cache; mutations
// invalidate it.
func (s *MeetingService) MeetingsForUser(ctx context.Context, attendeeID string) ([]Meeting, error) {
	if s == nil {
		return nil, fmt.Errorf("MeetingService is nil")
	}
	if s.meetings == nil {
		return nil, fmt.Errorf("meeting repository not configured")
	}
	if strings.TrimSpace(attendeeID) == "" {
		return nil, nil
	}

	resolved, err := s.resolveID(ctx, attendeeID)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(resolved); ok {
		return cached, nil
	}

	meetings, err := s.meetings.ListMeetings(ctx, MeetingRepositoryFilter{AttendeeID: resolved})
	if err != nil {
		return nil, mapMeetingRepoError(err)
	}

	ordered := make([]Meeting, len(meetings))
	copy(ordered, meetings)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Start.Before(ordered[j].Start)
	})

	s.cache.Store(resolved, ordered)
	return ordered, nil
}

// OverviewForUser groups the attendee's meetings into the directory views.
func (s *MeetingService) OverviewForUser(ctx context.Context, attendeeID string) (MeetingOverview, error) {
	meetings, err := s.MeetingsForUser(ctx, attendeeID)
	if err != nil {
		return MeetingOverview{}, err
	}

	resolved, err := s.resolveID(ctx, attendeeID)
	if err != nil {
		return MeetingOverview{}, err
	}

	overview := MeetingOverview{}
	for _, meeting := range meetings {
		switch meeting.Status {
		case MeetingStatusPending:
			if meeting.RequesteeID == resolved {
				overview.PendingIncoming = append(overview.PendingIncoming, meeting)
			}
			if meeting.RequesterID == resolved {
				overview.PendingOutgoing = append(overview.PendingOutgoing, meeting)
			}
		case MeetingStatusConfirmed:
			overview.Confirmed = append(overview.Confirmed, meeting)
		case MeetingStatusDeclined:
			overview.Declined = append(overview.Declined, meeting)
		}
	}
	return overview, nil
}

// ensureSlotFree returns ErrSlotTaken when a confirmed meeting with the exact
// candidate interval shares a party with the candidate. A store failure
// propagates; an unreachable store never counts as a free slot.
func (s *MeetingService) ensureSlotFree(ctx context.Context, candidate slot.Booking) error {
	confirmed, err := s.meetings.ListMeetings(ctx, MeetingRepositoryFilter{Status: MeetingStatusConfirmed})
	if err != nil {
		if isMeetingNotFound(err) {
			return nil
		}
		return fmt.Errorf("listing confirmed meetings: %w", err)
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

	if conflicts := slot.DetectConflicts(bookings, candidate); len(conflicts) > 0 {
		return ErrSlotTaken
	}
	return nil
}

func (s *MeetingService) resolveParties(ctx context.Context, requesterID, requesteeID string) (string, string, error) {
	requester, err := s.resolveID(ctx, requesterID)
	if err != nil {
		return "", "", err
	}
	requestee, err := s.resolveID(ctx, requesteeID)
	if err != nil {
		return "", "", err
	}
	return requester, requestee, nil
}

func (s *MeetingService) resolveID(ctx context.Context, id string) (string, error) {
	if s.identity == nil {
		return id, nil
	}
	resolved, err := s.identity.Resolve(ctx, id)
	if err != nil {
		return "", fmt.Errorf("resolving attendee %q: %w", id, err)
	}
	return resolved, nil
}

func mapMeetingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("attendees", "related records are missing")
		return vErr
	}
	return err
}

func isMeetingNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
