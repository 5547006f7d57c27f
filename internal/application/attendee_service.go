package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// AttendeeRepository captures the persistence operations needed by the attendee service.
type AttendeeRepository interface {
	CreateAttendee(ctx context.Context, attendee Attendee, passwordHash string) (Attendee, error)
	GetAttendee(ctx context.Context, id string) (Attendee, error)
	UpdateAttendee(ctx context.Context, attendee Attendee) (Attendee, error)
	DeleteAttendee(ctx context.Context, id string) error
	ListAttendees(ctx context.Context) ([]Attendee, error)
}

// AttendeeService orchestrates validation, authorization, and persistence for
// attendee accounts. Listing is open to any authenticated attendee (it feeds
// the meeting-request picker); create, update and delete are admin only.
type AttendeeService struct {
	attendees      AttendeeRepository
	idGenerator    func() string
	now            func() time.Time
	passwordParams Argon2idParams
}

// NewAttendeeService wires dependencies for the attendee service.
func NewAttendeeService(attendees AttendeeRepository, idGenerator func() string, now func() time.Time) *AttendeeService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AttendeeService{
		attendees:      attendees,
		idGenerator:    idGenerator,
		now:            now,
		passwordParams: DefaultArgon2idParams,
	}
}

// CreateAttendee validates input, hashes the password, and persists a new
// attendee for administrators.
func (s *AttendeeService) CreateAttendee(ctx context.Context, params CreateAttendeeParams) (Attendee, error) {
	if s == nil {
		return Attendee{}, fmt.Errorf("AttendeeService is nil")
	}
	if !params.Principal.IsAdmin {
		return Attendee{}, ErrUnauthorized
	}
	if s.attendees == nil {
		return Attendee{}, fmt.Errorf("attendee repository not configured")
	}

	normalized := normalizeAttendeeInput(params.Input)
	vErr := validateAttendeeInput(normalized)
	if strings.TrimSpace(params.Password) == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		return Attendee{}, vErr
	}

	hash, err := CreatePasswordHash(params.Password, s.passwordParams)
	if err != nil {
		return Attendee{}, fmt.Errorf("hashing password: %w", err)
	}

	attendee := Attendee{
		ID:            s.idGenerator(),
		Email:         normalized.Email,
		DisplayName:   normalized.DisplayName,
		LegacyGuestID: normalized.LegacyGuestID,
		IsAdmin:       normalized.IsAdmin,
		CreatedAt:     s.now(),
	}
	attendee.UpdatedAt = attendee.CreatedAt

	persisted, err := s.attendees.CreateAttendee(ctx, attendee, hash)
	if err != nil {
		return Attendee{}, mapAttendeeRepoError(err)
	}

	return persisted, nil
}

// UpdateAttendee validates input and updates an existing attendee for administrators.
func (s *AttendeeService) UpdateAttendee(ctx context.Context, params UpdateAttendeeParams) (Attendee, error) {
	if s == nil {
		return Attendee{}, fmt.Errorf("AttendeeService is nil")
	}
	if !params.Principal.IsAdmin {
		return Attendee{}, ErrUnauthorized
	}
	if s.attendees == nil {
		return Attendee{}, fmt.Errorf("attendee repository not configured")
	}

	existing, err := s.attendees.GetAttendee(ctx, params.AttendeeID)
	if err != nil {
		return Attendee{}, mapAttendeeRepoError(err)
	}

	normalized := normalizeAttendeeInput(params.Input)
	vErr := validateAttendeeInput(normalized)
	if vErr.HasErrors() {
		return Attendee{}, vErr
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.LegacyGuestID = normalized.LegacyGuestID
	updated.IsAdmin = normalized.IsAdmin
	updated.UpdatedAt = s.now()

	persisted, err := s.attendees.UpdateAttendee(ctx, updated)
	if err != nil {
		return Attendee{}, mapAttendeeRepoError(err)
	}

	return persisted, nil
}

// DeleteAttendee removes an attendee when requested by an administrator.
func (s *AttendeeService) DeleteAttendee(ctx context.Context, principal Principal, attendeeID string) error {
	if s == nil {
		return fmt.Errorf("AttendeeService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.attendees == nil {
		return fmt.Errorf("attendee repository not configured")
	}

	if err := s.attendees.DeleteAttendee(ctx, attendeeID); err != nil {
		return mapAttendeeRepoError(err)
	}

	return nil
}

// ListAttendees returns the attendee directory ordered by email.
func (s *AttendeeService) ListAttendees(ctx context.Context) ([]Attendee, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendeeService is nil")
	}
	if s.attendees == nil {
		return nil, nil
	}

	attendees, err := s.attendees.ListAttendees(ctx)
	if err != nil {
		return nil, mapAttendeeRepoError(err)
	}

	out := make([]Attendee, len(attendees))
	copy(out, attendees)

	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Email, out[j].Email) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Email) < strings.ToLower(out[j].Email)
	})

	return out, nil
}

func normalizeAttendeeInput(input AttendeeInput) AttendeeInput {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	displayName := strings.TrimSpace(input.DisplayName)

	var legacyGuestID *string
	if input.LegacyGuestID != nil {
		if trimmed := strings.TrimSpace(*input.LegacyGuestID); trimmed != "" {
			legacyGuestID = &trimmed
		}
	}

	return AttendeeInput{
		Email:         email,
		DisplayName:   displayName,
		LegacyGuestID: legacyGuestID,
		IsAdmin:       input.IsAdmin,
	}
}

func validateAttendeeInput(input AttendeeInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}

	return vErr
}

func mapAttendeeRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	return err
}
