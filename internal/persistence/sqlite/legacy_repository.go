package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// ReservaRepository implements persistence.ReservaRepository using SQLite.
// Reservas are the legacy admin records without lifecycle state.
type ReservaRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewReservaRepository creates a new SQLite reserva repository.
func NewReservaRepository(pool *ConnectionPool) *ReservaRepository {
	return &ReservaRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateReserva inserts a new reserva record.
func (r *ReservaRepository) CreateReserva(ctx context.Context, reserva persistence.Reserva) error {
	if reserva.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO reservas (id, type, purpose, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		reserva.ID,
		reserva.Type,
		reserva.Purpose,
		reserva.CreatedAt.UTC().Format(time.RFC3339),
		reserva.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateReserva updates an existing reserva record.
func (r *ReservaRepository) UpdateReserva(ctx context.Context, reserva persistence.Reserva) error {
	if reserva.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE reservas SET type = ?, purpose = ?, updated_at = ? WHERE id = ?",
		reserva.Type,
		reserva.Purpose,
		reserva.UpdatedAt.UTC().Format(time.RFC3339),
		reserva.ID,
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

// GetReserva retrieves a reserva record by ID.
func (r *ReservaRepository) GetReserva(ctx context.Context, id string) (persistence.Reserva, error) {
	if id == "" {
		return persistence.Reserva{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, type, purpose, created_at, updated_at
		FROM reservas
		WHERE id = ?
	`

	reserva, err := scanReserva(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Reserva{}, persistence.ErrNotFound
		}
		return persistence.Reserva{}, r.mapper.MapError(err)
	}

	return reserva, nil
}

// ListReservas returns all reserva records ordered by creation time.
func (r *ReservaRepository) ListReservas(ctx context.Context) ([]persistence.Reserva, error) {
	query := `
		SELECT id, type, purpose, created_at, updated_at
		FROM reservas
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var reservas []persistence.Reserva
	for rows.Next() {
		reserva, err := scanReserva(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		reservas = append(reservas, reserva)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return reservas, nil
}

// DeleteReserva removes a reserva record by ID.
func (r *ReservaRepository) DeleteReserva(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM reservas WHERE id = ?", id)
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

func scanReserva(row rowScanner) (persistence.Reserva, error) {
	var reserva persistence.Reserva
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&reserva.ID,
		&reserva.Type,
		&reserva.Purpose,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Reserva{}, err
	}

	if reserva.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Reserva{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if reserva.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Reserva{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return reserva, nil
}
