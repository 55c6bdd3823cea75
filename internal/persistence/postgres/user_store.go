package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.Email == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		strings.ToLower(user.Email),
		user.DisplayName,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	return mapError(err)
}

// UpdateUser updates an existing user. An empty PasswordHash keeps the stored
// hash untouched.
func (s *Store) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	var result sql.Result
	var err error
	if user.PasswordHash == "" {
		result, err = s.db.ExecContext(ctx, `
			UPDATE users SET email = $1, display_name = $2, is_admin = $3, updated_at = $4 WHERE id = $5`,
			strings.ToLower(user.Email), user.DisplayName, user.IsAdmin, user.UpdatedAt.UTC(), user.ID)
	} else {
		result, err = s.db.ExecContext(ctx, `
			UPDATE users SET email = $1, display_name = $2, password_hash = $3, is_admin = $4, updated_at = $5 WHERE id = $6`,
			strings.ToLower(user.Email), user.DisplayName, user.PasswordHash, user.IsAdmin, user.UpdatedAt.UTC(), user.ID)
	}
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return s.getUserBy(ctx, "id = $1", id)
}

// GetUserByEmail retrieves a user by email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return s.getUserBy(ctx, "email = $1", strings.ToLower(email))
}

func (s *Store) getUserBy(ctx context.Context, where string, arg any) (persistence.User, error) {
	var user persistence.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at FROM users WHERE "+where,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return persistence.User{}, mapError(err)
	}
	return user, nil
}

// ListUsers returns all users ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at FROM users ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		var user persistence.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.DisplayName,
			&user.PasswordHash,
			&user.IsAdmin,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

// DeleteUser removes a user by ID. Sessions cascade via the schema.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// CreateSession persists a new session and returns the stored record.
func (s *Store) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" || session.Token == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, revoked_at)
		VALUES ($1, $2, $3, $4, $5, NULL)`,
		session.ID,
		session.UserID,
		session.Token,
		session.ExpiresAt.UTC(),
		session.CreatedAt.UTC(),
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	session.RevokedAt = nil
	return session, nil
}

// GetSession retrieves a session by token.
func (s *Store) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if token == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	var session persistence.Session
	var revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at, created_at, revoked_at FROM sessions WHERE token = $1",
		token,
	).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.ExpiresAt,
		&session.CreatedAt,
		&revokedAt,
	)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	if revokedAt.Valid {
		value := revokedAt.Time
		session.RevokedAt = &value
	}
	return session, nil
}

// RevokeSession marks a session as revoked.
func (s *Store) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	if token == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = $1 WHERE token = $2 AND revoked_at IS NULL",
		revokedAt.UTC(), token)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteExpiredSessions removes sessions that expired before the reference time.
func (s *Store) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", reference.UTC())
	return mapError(err)
}
