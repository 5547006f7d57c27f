package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// MeetingRepository implements persistence.MeetingRepository using SQLite.
type MeetingRepository struct {
	store *Store
}

// NewMeetingRepository creates a new SQLite meeting repository.
func NewMeetingRepository(store *Store) *MeetingRepository {
	return &MeetingRepository{store: store}
}

const meetingColumns = "id, requester_id, requestee_id, start_time, end_time, status, title, notes, created_at, updated_at, confirmed_at"

// CreateMeeting inserts a meeting request record.
func (r *MeetingRepository) CreateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == "" || meeting.RequesterID == "" || meeting.RequesteeID == "" {
		return persistence.ErrConstraintViolation
	}
	if !meeting.End.After(meeting.Start) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if meeting.CreatedAt.IsZero() {
		meeting.CreatedAt = now
	}
	meeting.UpdatedAt = now

	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		meeting.ID,
		meeting.RequesterID,
		meeting.RequesteeID,
		formatTime(meeting.Start),
		formatTime(meeting.End),
		meeting.Status,
		nullableString(meeting.Title),
		nullableString(meeting.Notes),
		formatTime(meeting.CreatedAt),
		formatTime(meeting.UpdatedAt),
		nullableTime(meeting.ConfirmedAt),
	)
	return mapError(err)
}

// GetMeeting retrieves a meeting by id.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (persistence.Meeting, error) {
	if id == "" {
		return persistence.Meeting{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+meetingColumns+" FROM meetings WHERE id = ?", id)
	return scanMeeting(row)
}

// UpdateMeeting updates the status, confirmation stamp and free-text fields of
// a meeting. The parties and the interval never change after creation.
func (r *MeetingRepository) UpdateMeeting(ctx context.Context, meeting persistence.Meeting) error {
	if meeting.ID == "" {
		return persistence.ErrNotFound
	}

	meeting.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE meetings
		SET status = ?, title = ?, notes = ?, updated_at = ?, confirmed_at = ?
		WHERE id = ?
	`
	result, err := r.store.db.ExecContext(ctx, query,
		meeting.Status,
		nullableString(meeting.Title),
		nullableString(meeting.Notes),
		formatTime(meeting.UpdatedAt),
		nullableTime(meeting.ConfirmedAt),
		meeting.ID,
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

// ListMeetings lists meetings matching the filter, ordered by start time. The
// attendee filter matches either side of the meeting.
func (r *MeetingRepository) ListMeetings(ctx context.Context, filter persistence.MeetingFilter) ([]persistence.Meeting, error) {
	query := "SELECT " + meetingColumns + " FROM meetings"
	var conditions []string
	var args []any

	if filter.AttendeeID != "" {
		conditions = append(conditions, "(requester_id = ? OR requestee_id = ?)")
		args = append(args, filter.AttendeeID, filter.AttendeeID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var meetings []persistence.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting record regardless of status.
func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.store.db.ExecContext(ctx, "DELETE FROM meetings WHERE id = ?", id)
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

func scanMeeting(row rowScanner) (persistence.Meeting, error) {
	var meeting persistence.Meeting
	var title, notes, confirmedAt sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&meeting.ID,
		&meeting.RequesterID,
		&meeting.RequesteeID,
		&startStr,
		&endStr,
		&meeting.Status,
		&title,
		&notes,
		&createdStr,
		&updatedStr,
		&confirmedAt,
	)
	if err != nil {
		return persistence.Meeting{}, mapError(err)
	}

	meeting.Title = stringPtr(title)
	meeting.Notes = stringPtr(notes)
	if meeting.Start, err = parseTime(startStr); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.End, err = parseTime(endStr); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Meeting{}, err
	}
	if meeting.ConfirmedAt, err = timePtr(confirmedAt); err != nil {
		return persistence.Meeting{}, err
	}
	return meeting, nil
}
