package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.Email == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO users (id, email, display_name, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		user.DisplayName,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateUser updates an existing user. An empty PasswordHash keeps the stored
// hash untouched.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" {
		return persistence.ErrConstraintViolation
	}

	var result sql.Result
	var err error
	if user.PasswordHash == "" {
		result, err = r.helper.Exec(ctx,
			"UPDATE users SET email = ?, display_name = ?, is_admin = ?, updated_at = ? WHERE id = ?",
			strings.ToLower(user.Email),
			user.DisplayName,
			boolToInt(user.IsAdmin),
			user.UpdatedAt.UTC().Format(time.RFC3339),
			user.ID,
		)
	} else {
		result, err = r.helper.Exec(ctx,
			"UPDATE users SET email = ?, display_name = ?, password_hash = ?, is_admin = ?, updated_at = ? WHERE id = ?",
			strings.ToLower(user.Email),
			user.DisplayName,
			user.PasswordHash,
			boolToInt(user.IsAdmin),
			user.UpdatedAt.UTC().Format(time.RFC3339),
			user.ID,
		)
	}
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

// GetUser retrieves a user by ID from the database.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserBy(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	if email == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	return r.getUserBy(ctx, "email = ?", strings.ToLower(email))
}

func (r *UserRepository) getUserBy(ctx context.Context, where string, arg any) (persistence.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at
		FROM users
		WHERE %s
	`, where)

	user, err := scanUser(r.helper.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, r.mapper.MapError(err)
	}

	return user, nil
}

// ListUsers returns all users ordered by creation time.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	query := `
		SELECT id, email, display_name, password_hash, is_admin, created_at, updated_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return users, nil
}

// DeleteUser removes a user by ID. Sessions cascade via the schema.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM users WHERE id = ?", id)
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

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var isAdmin int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&isAdmin,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.User{}, err
	}

	user.IsAdmin = isAdmin != 0

	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.User{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return user, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
