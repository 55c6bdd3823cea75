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

// MaterialRepository implements persistence.MaterialRepository using SQLite.
type MaterialRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewMaterialRepository creates a new SQLite material repository.
func NewMaterialRepository(pool *ConnectionPool) *MaterialRepository {
	return &MaterialRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateMaterial inserts a new material into the database.
func (r *MaterialRepository) CreateMaterial(ctx context.Context, material persistence.Material) error {
	if material.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if material.Quantity < 0 {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO materials (id, title, description, type, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		material.ID,
		material.Title,
		material.Description,
		material.Type,
		material.Quantity,
		material.CreatedAt.UTC().Format(time.RFC3339),
		material.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// UpdateMaterial updates an existing material in the database.
func (r *MaterialRepository) UpdateMaterial(ctx context.Context, material persistence.Material) error {
	if material.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if material.Quantity < 0 {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE materials
		SET title = ?, description = ?, type = ?, quantity = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		material.Title,
		material.Description,
		material.Type,
		material.Quantity,
		material.UpdatedAt.UTC().Format(time.RFC3339),
		material.ID,
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

// GetMaterial retrieves a material by ID from the database.
func (r *MaterialRepository) GetMaterial(ctx context.Context, id string) (persistence.Material, error) {
	if id == "" {
		return persistence.Material{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, title, description, type, quantity, created_at, updated_at
		FROM materials
		WHERE id = ?
	`

	material, err := scanMaterial(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Material{}, persistence.ErrNotFound
		}
		return persistence.Material{}, r.mapper.MapError(err)
	}

	return material, nil
}

// ListMaterials returns all materials ordered by title then ID.
func (r *MaterialRepository) ListMaterials(ctx context.Context) ([]persistence.Material, error) {
	query := `
		SELECT id, title, description, type, quantity, created_at, updated_at
		FROM materials
		ORDER BY title ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var materials []persistence.Material
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		materials = append(materials, material)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return materials, nil
}

// DeleteMaterial removes a material by ID and clears its reservation links.
func (r *MaterialRepository) DeleteMaterial(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, "DELETE FROM reservation_materials WHERE material_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM materials WHERE id = ?", id)
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
	})
}

// ReserveUnit decrements the stock count by one. The decrement is conditional
// on remaining stock so concurrent reservations cannot drive the quantity
// negative.
func (r *MaterialRepository) ReserveUnit(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE materials SET quantity = quantity - 1, updated_at = ? WHERE id = ? AND quantity > 0",
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Distinguish a missing material from one that is out of stock.
	var exists int
	err = r.helper.QueryRow(ctx, "SELECT 1 FROM materials WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}
	if err != nil {
		return r.mapper.MapError(err)
	}
	return persistence.ErrDepleted
}

// ReleaseUnit returns one unit of stock to the material.
func (r *MaterialRepository) ReleaseUnit(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE materials SET quantity = quantity + 1, updated_at = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), id,
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (persistence.Material, error) {
	var material persistence.Material
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&material.ID,
		&material.Title,
		&material.Description,
		&material.Type,
		&material.Quantity,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Material{}, err
	}

	if material.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Material{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if material.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Material{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return material, nil
}

func nullableString(value *string) any {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return *value
}
