package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// AuthSessionRepository implements persistence.AuthSessionRepository using SQLite.
type AuthSessionRepository struct {
	store *Store
}

// NewAuthSessionRepository creates a new SQLite auth session repository.
func NewAuthSessionRepository(store *Store) *AuthSessionRepository {
	return &AuthSessionRepository{store: store}
}

const authSessionColumns = "id, attendee_id, token, expires_at, created_at, updated_at, revoked_at"

// CreateAuthSession inserts a new authentication session.
func (r *AuthSessionRepository) CreateAuthSession(ctx context.Context, session persistence.AuthSession) (persistence.AuthSession, error) {
	if session.ID == "" || session.AttendeeID == "" || session.Token == "" {
		return persistence.AuthSession{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	query := `
		INSERT INTO auth_sessions (` + authSessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		session.ID,
		session.AttendeeID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
		nullableTime(session.RevokedAt),
	)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}
	return session, nil
}

// GetAuthSession retrieves a session by its opaque token.
func (r *AuthSessionRepository) GetAuthSession(ctx context.Context, token string) (persistence.AuthSession, error) {
	if token == "" {
		return persistence.AuthSession{}, persistence.ErrNotFound
	}
	row := r.store.db.QueryRowContext(ctx,
		"SELECT "+authSessionColumns+" FROM auth_sessions WHERE token = ?", token)
	return scanAuthSession(row)
}

// RevokeAuthSession stamps the session revoked and returns the updated record.
func (r *AuthSessionRepository) RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) (persistence.AuthSession, error) {
	if token == "" {
		return persistence.AuthSession{}, persistence.ErrNotFound
	}

	result, err := r.store.db.ExecContext(ctx,
		"UPDATE auth_sessions SET revoked_at = ?, updated_at = ? WHERE token = ?",
		formatTime(revokedAt),
		formatTime(time.Now().UTC()),
		token,
	)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.AuthSession{}, err
	}
	if affected == 0 {
		return persistence.AuthSession{}, persistence.ErrNotFound
	}
	return r.GetAuthSession(ctx, token)
}

// DeleteExpiredAuthSessions removes sessions that expired before the reference
// time.
func (r *AuthSessionRepository) DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error {
	_, err := r.store.db.ExecContext(ctx,
		"DELETE FROM auth_sessions WHERE expires_at < ?", formatTime(reference))
	return mapError(err)
}

func scanAuthSession(row rowScanner) (persistence.AuthSession, error) {
	var session persistence.AuthSession
	var revokedAt sql.NullString
	var expiresStr, createdStr, updatedStr string

	err := row.Scan(
		&session.ID,
		&session.AttendeeID,
		&session.Token,
		&expiresStr,
		&createdStr,
		&updatedStr,
		&revokedAt,
	)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}

	if session.ExpiresAt, err = parseTime(expiresStr); err != nil {
		return persistence.AuthSession{}, err
	}
	if session.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.AuthSession{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.AuthSession{}, err
	}
	if session.RevokedAt, err = timePtr(revokedAt); err != nil {
		return persistence.AuthSession{}, err
	}
	return session, nil
}
