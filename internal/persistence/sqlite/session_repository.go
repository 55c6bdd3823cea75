package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateSession persists a new session and returns the stored record.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, NULL)
	`

	_, err := r.helper.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.ExpiresAt.UTC().Format(time.RFC3339),
		session.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return persistence.Session{}, r.mapper.MapError(err)
	}

	session.RevokedAt = nil
	return session, nil
}

// GetSession retrieves a session by token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, user_id, token, expires_at, created_at, revoked_at
		FROM sessions
		WHERE token = ?
	`

	var session persistence.Session
	var expiresAtStr, createdAtStr string
	var revokedAtStr sql.NullString

	err := r.helper.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&expiresAtStr,
		&createdAtStr,
		&revokedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Session{}, persistence.ErrNotFound
		}
		return persistence.Session{}, r.mapper.MapError(err)
	}

	if session.ExpiresAt, err = time.Parse(time.RFC3339, expiresAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if session.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if revokedAtStr.Valid {
		revokedAt, err := time.Parse(time.RFC3339, revokedAtStr.String)
		if err != nil {
			return persistence.Session{}, fmt.Errorf("failed to parse revoked_at: %w", err)
		}
		session.RevokedAt = &revokedAt
	}

	return session, nil
}

// RevokeSession marks a session as revoked.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	if token == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL",
		revokedAt.UTC().Format(time.RFC3339), token,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// DeleteExpiredSessions removes sessions that expired before the reference time.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx,
		"DELETE FROM sessions WHERE expires_at < ?",
		reference.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}
