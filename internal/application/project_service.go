package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ProjectRepository captures the persistence operations needed by the project service.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) (Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	UpdateProject(ctx context.Context, project Project) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ProjectService manages the admin project catalog.
type ProjectService struct {
	projects    ProjectRepository
	idGenerator func() string
	now         func() time.Time
}

// NewProjectService wires dependencies for the project service.
func NewProjectService(projects ProjectRepository, idGenerator func() string, now func() time.Time) *ProjectService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ProjectService{projects: projects, idGenerator: idGenerator, now: now}
}

// CreateProject validates input and persists a new project for administrators.
func (s *ProjectService) CreateProject(ctx context.Context, principal Principal, input ProjectInput) (Project, error) {
	if s == nil {
		return Project{}, fmt.Errorf("ProjectService is nil")
	}
	if !principal.IsAdmin {
		return Project{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Project{}, vErr
	}

	project := Project{
		ID:          s.idGenerator(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.now(),
	}
	project.UpdatedAt = project.CreatedAt

	if s.projects == nil {
		return project, nil
	}

	persisted, err := s.projects.CreateProject(ctx, project)
	if err != nil {
		return Project{}, mapCatalogRepoError(err)
	}
	return persisted, nil
}

// UpdateProject validates input and updates an existing project for administrators.
func (s *ProjectService) UpdateProject(ctx context.Context, principal Principal, id string, input ProjectInput) (Project, error) {
	if s == nil {
		return Project{}, fmt.Errorf("ProjectService is nil")
	}
	if !principal.IsAdmin {
		return Project{}, ErrUnauthorized
	}
	if s.projects == nil {
		return Project{}, fmt.Errorf("project repository not configured")
	}

	existing, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return Project{}, mapCatalogRepoError(err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return Project{}, vErr
	}

	updated := existing
	updated.Name = name
	updated.Description = strings.TrimSpace(input.Description)
	updated.UpdatedAt = s.now()

	persisted, err := s.projects.UpdateProject(ctx, updated)
	if err != nil {
		return Project{}, mapCatalogRepoError(err)
	}
	return persisted, nil
}

// GetProject returns a single project.
func (s *ProjectService) GetProject(ctx context.Context, id string) (Project, error) {
	if s == nil {
		return Project{}, fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return Project{}, fmt.Errorf("project repository not configured")
	}

	project, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return Project{}, mapCatalogRepoError(err)
	}
	return project, nil
}

// ListProjects returns all projects ordered by name.
func (s *ProjectService) ListProjects(ctx context.Context) ([]Project, error) {
	if s == nil {
		return nil, fmt.Errorf("ProjectService is nil")
	}
	if s.projects == nil {
		return nil, nil
	}

	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, mapCatalogRepoError(err)
	}

	out := make([]Project, len(projects))
	copy(out, projects)
	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Name, out[j].Name) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// DeleteProject removes a project when requested by an administrator.
func (s *ProjectService) DeleteProject(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("ProjectService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.projects == nil {
		return fmt.Errorf("project repository not configured")
	}

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return mapCatalogRepoError(err)
	}
	return nil
}
