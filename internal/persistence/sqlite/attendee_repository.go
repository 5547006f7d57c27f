package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// AttendeeRepository implements persistence.AttendeeRepository using SQLite.
type AttendeeRepository struct {
	store *Store
}

// NewAttendeeRepository creates a new SQLite attendee repository.
func NewAttendeeRepository(store *Store) *AttendeeRepository {
	return &AttendeeRepository{store: store}
}

const attendeeColumns = "id, email, display_name, legacy_guest_id, is_admin, password_hash, created_at, updated_at"

// CreateAttendee inserts a new attendee record.
func (r *AttendeeRepository) CreateAttendee(ctx context.Context, attendee persistence.Attendee) error {
	if attendee.ID == "" || strings.TrimSpace(attendee.Email) == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if attendee.CreatedAt.IsZero() {
		attendee.CreatedAt = now
	}
	attendee.UpdatedAt = now

	query := `
		INSERT INTO attendees (` + attendeeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		attendee.ID,
		strings.ToLower(strings.TrimSpace(attendee.Email)),
		attendee.DisplayName,
		nullableString(attendee.LegacyGuestID),
		boolToInt(attendee.IsAdmin),
		attendee.PasswordHash,
		formatTime(attendee.CreatedAt),
		formatTime(attendee.UpdatedAt),
	)
	return mapError(err)
}

// UpdateAttendee updates an existing attendee record.
func (r *AttendeeRepository) UpdateAttendee(ctx context.Context, attendee persistence.Attendee) error {
	if attendee.ID == "" {
		return persistence.ErrNotFound
	}

	attendee.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE attendees
		SET email = ?, display_name = ?, legacy_guest_id = ?, is_admin = ?, password_hash = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.store.db.ExecContext(ctx, query,
		strings.ToLower(strings.TrimSpace(attendee.Email)),
		attendee.DisplayName,
		nullableString(attendee.LegacyGuestID),
		boolToInt(attendee.IsAdmin),
		attendee.PasswordHash,
		formatTime(attendee.UpdatedAt),
		attendee.ID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetAttendee retrieves an attendee by canonical id.
func (r *AttendeeRepository) GetAttendee(ctx context.Context, id string) (persistence.Attendee, error) {
	if id == "" {
		return persistence.Attendee{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees WHERE id = ?", id)
	return scanAttendee(row)
}

// GetAttendeeByEmail retrieves an attendee by email address.
func (r *AttendeeRepository) GetAttendeeByEmail(ctx context.Context, email string) (persistence.Attendee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return persistence.Attendee{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees WHERE email = ?", email)
	return scanAttendee(row)
}

// GetAttendeeByLegacyGuestID retrieves an attendee by the guest-record
// reference used before external identity tokens existed.
func (r *AttendeeRepository) GetAttendeeByLegacyGuestID(ctx context.Context, guestID string) (persistence.Attendee, error) {
	if guestID == "" {
		return persistence.Attendee{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees WHERE legacy_guest_id = ?", guestID)
	return scanAttendee(row)
}

// ListAttendees returns all attendees ordered by display name.
func (r *AttendeeRepository) ListAttendees(ctx context.Context) ([]persistence.Attendee, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT "+attendeeColumns+" FROM attendees ORDER BY display_name ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var attendees []persistence.Attendee
	for rows.Next() {
		attendee, err := scanAttendee(rows)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, attendee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return attendees, nil
}

// DeleteAttendee removes an attendee by id.
func (r *AttendeeRepository) DeleteAttendee(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.store.db.ExecContext(ctx, "DELETE FROM attendees WHERE id = ?", id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanAttendee(row rowScanner) (persistence.Attendee, error) {
	var attendee persistence.Attendee
	var legacyGuestID sql.NullString
	var isAdmin int
	var createdStr, updatedStr string

	err := row.Scan(
		&attendee.ID,
		&attendee.Email,
		&attendee.DisplayName,
		&legacyGuestID,
		&isAdmin,
		&attendee.PasswordHash,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Attendee{}, mapError(err)
	}

	attendee.LegacyGuestID = stringPtr(legacyGuestID)
	attendee.IsAdmin = isAdmin != 0
	if attendee.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Attendee{}, err
	}
	if attendee.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Attendee{}, err
	}
	return attendee, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
