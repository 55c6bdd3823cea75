package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// LinkRepository implements persistence.LinkRepository using SQLite.
type LinkRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewLinkRepository creates a new SQLite link repository.
func NewLinkRepository(pool *ConnectionPool) *LinkRepository {
	return &LinkRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateLink inserts a new link into the database.
func (r *LinkRepository) CreateLink(ctx context.Context, link persistence.Link) error {
	if link.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		"INSERT INTO links (id, name, url, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		link.ID,
		link.Name,
		link.URL,
		link.Description,
		link.CreatedAt.UTC().Format(time.RFC3339),
		link.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateLink updates an existing link in the database.
func (r *LinkRepository) UpdateLink(ctx context.Context, link persistence.Link) error {
	if link.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE links SET name = ?, url = ?, description = ?, updated_at = ? WHERE id = ?",
		link.Name,
		link.URL,
		link.Description,
		link.UpdatedAt.UTC().Format(time.RFC3339),
		link.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return requireRowsAffected(result)
}

// GetLink retrieves a link by ID from the database.
func (r *LinkRepository) GetLink(ctx context.Context, id string) (persistence.Link, error) {
	if id == "" {
		return persistence.Link{}, persistence.ErrNotFound
	}

	query := "SELECT id, name, url, description, created_at, updated_at FROM links WHERE id = ?"

	var link persistence.Link
	var createdAtStr, updatedAtStr string
	err := r.helper.QueryRow(ctx, query, id).Scan(
		&link.ID, &link.Name, &link.URL, &link.Description, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Link{}, persistence.ErrNotFound
		}
		return persistence.Link{}, r.mapper.MapError(err)
	}

	if link.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Link{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if link.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Link{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return link, nil
}

// ListLinks returns all links ordered by name then ID.
func (r *LinkRepository) ListLinks(ctx context.Context) ([]persistence.Link, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, url, description, created_at, updated_at FROM links ORDER BY name ASC, id ASC",
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var links []persistence.Link
	for rows.Next() {
		var link persistence.Link
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&link.ID, &link.Name, &link.URL, &link.Description, &createdAtStr, &updatedAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if link.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if link.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return links, nil
}

// DeleteLink removes a link by ID from the database.
func (r *LinkRepository) DeleteLink(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM links WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// ProjectRepository implements persistence.ProjectRepository using SQLite.
type ProjectRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewProjectRepository creates a new SQLite project repository.
func NewProjectRepository(pool *ConnectionPool) *ProjectRepository {
	return &ProjectRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateProject inserts a new project into the database.
func (r *ProjectRepository) CreateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.helper.Exec(ctx,
		"INSERT INTO projects (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		project.ID,
		project.Name,
		project.Description,
		project.CreatedAt.UTC().Format(time.RFC3339),
		project.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateProject updates an existing project in the database.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project persistence.Project) error {
	if project.ID == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.helper.Exec(ctx,
		"UPDATE projects SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		project.Name,
		project.Description,
		project.UpdatedAt.UTC().Format(time.RFC3339),
		project.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

// GetProject retrieves a project by ID from the database.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (persistence.Project, error) {
	if id == "" {
		return persistence.Project{}, persistence.ErrNotFound
	}

	query := "SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?"

	var project persistence.Project
	var createdAtStr, updatedAtStr string
	err := r.helper.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.Name, &project.Description, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Project{}, persistence.ErrNotFound
		}
		return persistence.Project{}, r.mapper.MapError(err)
	}

	if project.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Project{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if project.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Project{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects ordered by name then ID.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]persistence.Project, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT id, name, description, created_at, updated_at FROM projects ORDER BY name ASC, id ASC",
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var projects []persistence.Project
	for rows.Next() {
		var project persistence.Project
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &createdAtStr, &updatedAtStr); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if project.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if project.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return projects, nil
}

// DeleteProject removes a project by ID from the database.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireRowsAffected(result)
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
