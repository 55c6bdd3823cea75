package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/material-reserve/internal/persistence"
)

// CreateMaterial inserts a new material.
func (s *Store) CreateMaterial(ctx context.Context, material persistence.Material) error {
	if material.ID == "" || material.Quantity < 0 {
		return persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO materials (id, title, description, type, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		material.ID,
		material.Title,
		material.Description,
		material.Type,
		material.Quantity,
		material.CreatedAt.UTC(),
		material.UpdatedAt.UTC(),
	)
	return mapError(err)
}

// UpdateMaterial updates an existing material.
func (s *Store) UpdateMaterial(ctx context.Context, material persistence.Material) error {
	if material.ID == "" || material.Quantity < 0 {
		return persistence.ErrConstraintViolation
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE materials
		SET title = $1, description = $2, type = $3, quantity = $4, updated_at = $5
		WHERE id = $6`,
		material.Title,
		material.Description,
		material.Type,
		material.Quantity,
		material.UpdatedAt.UTC(),
		material.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetMaterial retrieves a material by ID.
func (s *Store) GetMaterial(ctx context.Context, id string) (persistence.Material, error) {
	if id == "" {
		return persistence.Material{}, persistence.ErrNotFound
	}

	var material persistence.Material
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, type, quantity, created_at, updated_at
		FROM materials WHERE id = $1`, id,
	).Scan(
		&material.ID,
		&material.Title,
		&material.Description,
		&material.Type,
		&material.Quantity,
		&material.CreatedAt,
		&material.UpdatedAt,
	)
	if err != nil {
		return persistence.Material{}, mapError(err)
	}
	return material, nil
}

// ListMaterials returns all materials ordered by title then ID.
func (s *Store) ListMaterials(ctx context.Context) ([]persistence.Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, type, quantity, created_at, updated_at
		FROM materials ORDER BY title ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var materials []persistence.Material
	for rows.Next() {
		var material persistence.Material
		if err := rows.Scan(
			&material.ID,
			&material.Title,
			&material.Description,
			&material.Type,
			&material.Quantity,
			&material.CreatedAt,
			&material.UpdatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return materials, nil
}

// DeleteMaterial removes a material and its reservation links.
func (s *Store) DeleteMaterial(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reservation_materials WHERE material_id = $1", id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, "DELETE FROM materials WHERE id = $1", id)
		if err != nil {
			return mapError(err)
		}
		return requireRowsAffected(result)
	})
}

// ReserveUnit decrements stock by one when any remains; the condition keeps
// concurrent reservations from driving the quantity negative.
func (s *Store) ReserveUnit(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE materials SET quantity = quantity - 1, updated_at = NOW() WHERE id = $1 AND quantity > 0", id)
	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM materials WHERE id = $1", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}
	if err != nil {
		return mapError(err)
	}
	return persistence.ErrDepleted
}

// ReleaseUnit returns one unit of stock to the material.
func (s *Store) ReleaseUnit(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE materials SET quantity = quantity + 1, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}
