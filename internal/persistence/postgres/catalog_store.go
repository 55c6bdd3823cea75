package postgres

import (
	"context"

	"github.com/example/material-reserve/internal/persistence"
)

// CreateReserva inserts a new legacy reserva record.
func (s *Store) CreateReserva(ctx context.Context, reserva persistence.Reserva) error {
	if reserva.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reservas (id, type, purpose, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		reserva.ID, reserva.Type, reserva.Purpose, reserva.CreatedAt.UTC(), reserva.UpdatedAt.UTC())
	return mapError(err)
}

// UpdateReserva updates an existing legacy reserva record.
func (s *Store) UpdateReserva(ctx context.Context, reserva persistence.Reserva) error {
	if reserva.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE reservas SET type = $1, purpose = $2, updated_at = $3 WHERE id = $4",
		reserva.Type, reserva.Purpose, reserva.UpdatedAt.UTC(), reserva.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetReserva retrieves a legacy reserva record by ID.
func (s *Store) GetReserva(ctx context.Context, id string) (persistence.Reserva, error) {
	if id == "" {
		return persistence.Reserva{}, persistence.ErrNotFound
	}

	var reserva persistence.Reserva
	err := s.db.QueryRowContext(ctx,
		"SELECT id, type, purpose, created_at, updated_at FROM reservas WHERE id = $1", id,
	).Scan(&reserva.ID, &reserva.Type, &reserva.Purpose, &reserva.CreatedAt, &reserva.UpdatedAt)
	if err != nil {
		return persistence.Reserva{}, mapError(err)
	}
	return reserva, nil
}

// ListReservas returns all legacy reserva records ordered by creation time.
func (s *Store) ListReservas(ctx context.Context) ([]persistence.Reserva, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, type, purpose, created_at, updated_at FROM reservas ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservas []persistence.Reserva
	for rows.Next() {
		var reserva persistence.Reserva
		if err := rows.Scan(&reserva.ID, &reserva.Type, &reserva.Purpose, &reserva.CreatedAt, &reserva.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		reservas = append(reservas, reserva)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservas, nil
}

// DeleteReserva removes a legacy reserva record by ID.
func (s *Store) DeleteReserva(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM reservas WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// CreateLink inserts a new link.
func (s *Store) CreateLink(ctx context.Context, link persistence.Link) error {
	if link.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO links (id, name, url, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		link.ID, link.Name, link.URL, link.Description, link.CreatedAt.UTC(), link.UpdatedAt.UTC())
	return mapError(err)
}

// UpdateLink updates an existing link.
func (s *Store) UpdateLink(ctx context.Context, link persistence.Link) error {
	if link.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE links SET name = $1, url = $2, description = $3, updated_at = $4 WHERE id = $5",
		link.Name, link.URL, link.Description, link.UpdatedAt.UTC(), link.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetLink retrieves a link by ID.
func (s *Store) GetLink(ctx context.Context, id string) (persistence.Link, error) {
	if id == "" {
		return persistence.Link{}, persistence.ErrNotFound
	}

	var link persistence.Link
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, url, description, created_at, updated_at FROM links WHERE id = $1", id,
	).Scan(&link.ID, &link.Name, &link.URL, &link.Description, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return persistence.Link{}, mapError(err)
	}
	return link, nil
}

// ListLinks returns all links ordered by name then ID.
func (s *Store) ListLinks(ctx context.Context) ([]persistence.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, url, description, created_at, updated_at FROM links ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var links []persistence.Link
	for rows.Next() {
		var link persistence.Link
		if err := rows.Scan(&link.ID, &link.Name, &link.URL, &link.Description, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return links, nil
}

// DeleteLink removes a link by ID.
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		project.ID, project.Name, project.Description, project.CreatedAt.UTC(), project.UpdatedAt.UTC())
	return mapError(err)
}

// UpdateProject updates an existing project.
func (s *Store) UpdateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE projects SET name = $1, description = $2, updated_at = $3 WHERE id = $4",
		project.Name, project.Description, project.UpdatedAt.UTC(), project.ID)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (persistence.Project, error) {
	if id == "" {
		return persistence.Project{}, persistence.ErrNotFound
	}

	var project persistence.Project
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM projects WHERE id = $1", id,
	).Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return persistence.Project{}, mapError(err)
	}
	return project, nil
}

// ListProjects returns all projects ordered by name then ID.
func (s *Store) ListProjects(ctx context.Context) ([]persistence.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM projects ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []persistence.Project
	for rows.Next() {
		var project persistence.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return projects, nil
}

// DeleteProject removes a project by ID.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}
