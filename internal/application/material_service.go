package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// MaterialRepository captures the persistence operations needed by the
// material service. Quantity mutation through the lifecycle engine goes via
// MaterialInventory instead.
type MaterialRepository interface {
	CreateMaterial(ctx context.Context, material Material) (Material, error)
	GetMaterial(ctx context.Context, id string) (Material, error)
	UpdateMaterial(ctx context.Context, material Material) (Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	ListMaterials(ctx context.Context) ([]Material, error)
}

// MaterialService orchestrates validation, authorization, and persistence for
// the admin material catalog.
type MaterialService struct {
	materials   MaterialRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMaterialService wires dependencies for the material service.
func NewMaterialService(materials MaterialRepository, idGenerator func() string, now func() time.Time) *MaterialService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MaterialService{materials: materials, idGenerator: idGenerator, now: now}
}

// NewMaterialServiceWithLogger wires dependencies plus a base logger.
func NewMaterialServiceWithLogger(materials MaterialRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MaterialService {
	s := NewMaterialService(materials, idGenerator, now)
	s.logger = defaultLogger(logger)
	return s
}

// CreateMaterial validates input and persists a new material for administrators.
func (s *MaterialService) CreateMaterial(ctx context.Context, params CreateMaterialParams) (Material, error) {
	if s == nil {
		return Material{}, fmt.Errorf("MaterialService is nil")
	}
	if !params.Principal.IsAdmin {
		return Material{}, ErrUnauthorized
	}

	input := normalizeMaterialInput(params.Input)
	if vErr := validateMaterialInput(input); vErr.HasErrors() {
		return Material{}, vErr
	}

	material := Material{
		ID:          s.idGenerator(),
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Quantity:    input.Quantity,
		CreatedAt:   s.now(),
	}
	material.UpdatedAt = material.CreatedAt

	if s.materials == nil {
		return material, nil
	}

	persisted, err := s.materials.CreateMaterial(ctx, material)
	if err != nil {
		return Material{}, mapMaterialRepoError(err)
	}

	serviceLogger(ctx, s.logger, "material", "create", "material_id", persisted.ID).InfoContext(ctx, "material created")
	return persisted, nil
}

// UpdateMaterial validates input and updates an existing material for
// administrators. The quantity set here replaces the stored count outright.
func (s *MaterialService) UpdateMaterial(ctx context.Context, params UpdateMaterialParams) (Material, error) {
	if s == nil {
		return Material{}, fmt.Errorf("MaterialService is nil")
	}
	if !params.Principal.IsAdmin {
		return Material{}, ErrUnauthorized
	}
	if s.materials == nil {
		return Material{}, fmt.Errorf("material repository not configured")
	}

	existing, err := s.materials.GetMaterial(ctx, params.MaterialID)
	if err != nil {
		return Material{}, mapMaterialRepoError(err)
	}

	input := normalizeMaterialInput(params.Input)
	if vErr := validateMaterialInput(input); vErr.HasErrors() {
		return Material{}, vErr
	}

	updated := existing
	updated.Title = input.Title
	updated.Description = input.Description
	updated.Type = input.Type
	updated.Quantity = input.Quantity
	updated.UpdatedAt = s.now()

	persisted, err := s.materials.UpdateMaterial(ctx, updated)
	if err != nil {
		return Material{}, mapMaterialRepoError(err)
	}

	return persisted, nil
}

// GetMaterial returns a single material.
func (s *MaterialService) GetMaterial(ctx context.Context, id string) (Material, error) {
	if s == nil {
		return Material{}, fmt.Errorf("MaterialService is nil")
	}
	if s.materials == nil {
		return Material{}, fmt.Errorf("material repository not configured")
	}

	material, err := s.materials.GetMaterial(ctx, id)
	if err != nil {
		return Material{}, mapMaterialRepoError(err)
	}
	return material, nil
}

// DeleteMaterial removes a material when requested by an administrator.
func (s *MaterialService) DeleteMaterial(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("MaterialService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.materials == nil {
		return fmt.Errorf("material repository not configured")
	}

	if err := s.materials.DeleteMaterial(ctx, id); err != nil {
		return mapMaterialRepoError(err)
	}
	return nil
}

// ListMaterials returns all materials ordered by title.
func (s *MaterialService) ListMaterials(ctx context.Context) ([]Material, error) {
	if s == nil {
		return nil, fmt.Errorf("MaterialService is nil")
	}
	if s.materials == nil {
		return nil, nil
	}

	materials, err := s.materials.ListMaterials(ctx)
	if err != nil {
		return nil, mapMaterialRepoError(err)
	}

	out := make([]Material, len(materials))
	copy(out, materials)
	sort.Slice(out, func(i, j int) bool {
		if strings.EqualFold(out[i].Title, out[j].Title) {
			return out[i].ID < out[j].ID
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})

	return out, nil
}

func normalizeMaterialInput(input MaterialInput) MaterialInput {
	return MaterialInput{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Type:        strings.TrimSpace(input.Type),
		Quantity:    input.Quantity,
	}
}

func validateMaterialInput(input MaterialInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Quantity < 0 {
		vErr.add("quantity", "quantity must not be negative")
	}

	return vErr
}

func mapMaterialRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("quantity", "quantity must not be negative")
		return vErr
	}
	return err
}
