package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
type EventRepository struct {
	store *Store
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

// CreateEvent inserts a new event record.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now

	query := `
		INSERT INTO events (id, name, description, website, start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		event.ID,
		event.Name,
		nullableString(event.Description),
		nullableString(event.Website),
		formatTime(event.Start),
		formatTime(event.End),
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	return mapError(err)
}

// GetEventByName retrieves an event by its unique name.
func (r *EventRepository) GetEventByName(ctx context.Context, name string) (persistence.Event, error) {
	if name == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, name, description, website, start_time, end_time, created_at, updated_at
		FROM events
		WHERE name = ?
	`
	return r.scanEvent(r.store.db.QueryRowContext(ctx, query, name))
}

// ListEvents returns all events ordered by start time.
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	query := `
		SELECT id, name, description, website, start_time, end_time, created_at, updated_at
		FROM events
		ORDER BY start_time ASC, id ASC
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *EventRepository) scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var description, website sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&event.ID,
		&event.Name,
		&description,
		&website,
		&startStr,
		&endStr,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Event{}, mapError(err)
	}

	event.Description = stringPtr(description)
	event.Website = stringPtr(website)
	if event.Start, err = parseTime(startStr); err != nil {
		return persistence.Event{}, err
	}
	if event.End, err = parseTime(endStr); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}
