package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// RSVPRepository implements persistence.RSVPRepository using SQLite.
type RSVPRepository struct {
	store *Store
}

// NewRSVPRepository creates a new SQLite RSVP repository.
func NewRSVPRepository(store *Store) *RSVPRepository {
	return &RSVPRepository{store: store}
}

// CreateRSVP inserts an attendance record. A unique index on
// (session_id, attendee_id) backs up the caller's existence check.
func (r *RSVPRepository) CreateRSVP(ctx context.Context, rsvp persistence.RSVP) error {
	if rsvp.ID == "" || rsvp.SessionID == "" || rsvp.AttendeeID == "" {
		return persistence.ErrConstraintViolation
	}
	if rsvp.CreatedAt.IsZero() {
		rsvp.CreatedAt = time.Now().UTC()
	}

	_, err := r.store.db.ExecContext(ctx,
		"INSERT INTO rsvps (id, session_id, attendee_id, created_at) VALUES (?, ?, ?, ?)",
		rsvp.ID,
		rsvp.SessionID,
		rsvp.AttendeeID,
		formatTime(rsvp.CreatedAt),
	)
	return mapError(err)
}

// GetRSVP retrieves the record for a (session, attendee) pair.
func (r *RSVPRepository) GetRSVP(ctx context.Context, sessionID, attendeeID string) (persistence.RSVP, error) {
	if sessionID == "" || attendeeID == "" {
		return persistence.RSVP{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT id, session_id, attendee_id, created_at FROM rsvps WHERE session_id = ? AND attendee_id = ?",
		sessionID, attendeeID,
	)
	return scanRSVP(row)
}

// ListRSVPs lists attendance records matching the filter.
func (r *RSVPRepository) ListRSVPs(ctx context.Context, filter persistence.RSVPFilter) ([]persistence.RSVP, error) {
	query := "SELECT id, session_id, attendee_id, created_at FROM rsvps"
	var conditions []string
	var args []any

	if filter.SessionID != "" {
		conditions = append(conditions, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.AttendeeID != "" {
		conditions = append(conditions, "attendee_id = ?")
		args = append(args, filter.AttendeeID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rsvps []persistence.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rsvps, nil
}

// DeleteRSVP removes an attendance record by id.
func (r *RSVPRepository) DeleteRSVP(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}
	result, err := r.store.db.ExecContext(ctx, "DELETE FROM rsvps WHERE id = ?", id)
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

func scanRSVP(row rowScanner) (persistence.RSVP, error) {
	var rsvp persistence.RSVP
	var createdStr string

	err := row.Scan(&rsvp.ID, &rsvp.SessionID, &rsvp.AttendeeID, &createdStr)
	if err != nil {
		return persistence.RSVP{}, mapError(err)
	}
	if rsvp.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.RSVP{}, err
	}
	return rsvp, nil
}
