package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// CreateSession inserts a session and its host list.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	if session.ID == "" || session.EventID == "" {
		return persistence.ErrConstraintViolation
	}
	if !session.End.After(session.Start) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	return r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO sessions (id, event_id, title, start_time, end_time, location_id, capacity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query,
			session.ID,
			session.EventID,
			session.Title,
			formatTime(session.Start),
			formatTime(session.End),
			nullableString(session.LocationID),
			session.Capacity,
			formatTime(session.CreatedAt),
			formatTime(session.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
		return insertHosts(tx, session.ID, session.HostIDs)
	})
}

// GetSession retrieves a session by id.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.Session, error) {
	if id == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, event_id, title, start_time, end_time, location_id, capacity, created_at, updated_at
		FROM sessions
		WHERE id = ?
	`
	session, err := scanSession(r.store.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.Session{}, err
	}

	hosts, err := r.loadHosts(ctx, id)
	if err != nil {
		return persistence.Session{}, err
	}
	session.HostIDs = hosts
	return session, nil
}

// ListSessions lists sessions matching the filter, ordered by start time.
func (r *SessionRepository) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.Session, error) {
	query := `
		SELECT id, event_id, title, start_time, end_time, location_id, capacity, created_at, updated_at
		FROM sessions
	`
	var conditions []string
	var args []any

	if filter.EventID != "" {
		conditions = append(conditions, "event_id = ?")
		args = append(args, filter.EventID)
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "end_time > ?")
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, formatTime(*filter.EndsBefore))
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

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range sessions {
		hosts, err := r.loadHosts(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].HostIDs = hosts
	}
	return sessions, nil
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var locationID sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&session.ID,
		&session.EventID,
		&session.Title,
		&startStr,
		&endStr,
		&locationID,
		&session.Capacity,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	session.LocationID = stringPtr(locationID)
	if session.Start, err = parseTime(startStr); err != nil {
		return persistence.Session{}, err
	}
	if session.End, err = parseTime(endStr); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}

func insertHosts(tx *sql.Tx, sessionID string, hostIDs []string) error {
	seen := make(map[string]struct{}, len(hostIDs))
	for _, host := range hostIDs {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		if _, err := tx.Exec(
			"INSERT INTO session_hosts (session_id, attendee_id) VALUES (?, ?)",
			sessionID, host,
		); err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *SessionRepository) loadHosts(ctx context.Context, sessionID string) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx,
		"SELECT attendee_id FROM session_hosts WHERE session_id = ? ORDER BY attendee_id ASC",
		sessionID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, mapError(err)
		}
		hosts = append(hosts, host)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return hosts, nil
}
