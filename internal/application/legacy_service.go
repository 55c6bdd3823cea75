package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// ReservaRepository captures the persistence operations needed by the legacy
// admin reservation service.
type ReservaRepository interface {
	CreateReserva(ctx context.Context, reserva Reserva) (Reserva, error)
	GetReserva(ctx context.Context, id string) (Reserva, error)
	UpdateReserva(ctx context.Context, reserva Reserva) (Reserva, error)
	ListReservas(ctx context.Context) ([]Reserva, error)
	DeleteReserva(ctx context.Context, id string) error
}

// ReservaService is the lifecycle-unaware admin CRUD surface over the legacy
// Reservas records. It never touches inventory or status transitions.
type ReservaService struct {
	reservas    ReservaRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewReservaService wires dependencies for the legacy reservation service.
func NewReservaService(reservas ReservaRepository, idGenerator func() string, now func() time.Time) *ReservaService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ReservaService{reservas: reservas, idGenerator: idGenerator, now: now}
}

// NewReservaServiceWithLogger wires dependencies plus a base logger.
func NewReservaServiceWithLogger(reservas ReservaRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ReservaService {
	s := NewReservaService(reservas, idGenerator, now)
	s.logger = defaultLogger(logger)
	return s
}

// CreateReserva persists a new legacy reservation record.
func (s *ReservaService) CreateReserva(ctx context.Context, principal Principal, input ReservaInput) (Reserva, error) {
	if s == nil {
		return Reserva{}, fmt.Errorf("ReservaService is nil")
	}
	if !principal.IsAdmin {
		return Reserva{}, ErrUnauthorized
	}
	if s.reservas == nil {
		return Reserva{}, fmt.Errorf("reserva repository not configured")
	}

	reserva := Reserva{
		ID:        s.idGenerator(),
		Type:      input.Type,
		Purpose:   input.Purpose,
		CreatedAt: s.now(),
	}
	reserva.UpdatedAt = reserva.CreatedAt

	persisted, err := s.reservas.CreateReserva(ctx, reserva)
	if err != nil {
		return Reserva{}, mapReservaRepoError(err)
	}

	serviceLogger(ctx, s.logger, "reserva", "create", "reserva_id", persisted.ID).InfoContext(ctx, "legacy reserva created")
	return persisted, nil
}

// UpdateReserva applies partial field updates, keeping existing values where
// the input leaves a field unset. This mirrors the original controller.
func (s *ReservaService) UpdateReserva(ctx context.Context, principal Principal, id string, input ReservaInput) (Reserva, error) {
	if s == nil {
		return Reserva{}, fmt.Errorf("ReservaService is nil")
	}
	if !principal.IsAdmin {
		return Reserva{}, ErrUnauthorized
	}
	if s.reservas == nil {
		return Reserva{}, fmt.Errorf("reserva repository not configured")
	}

	existing, err := s.reservas.GetReserva(ctx, id)
	if err != nil {
		return Reserva{}, mapReservaRepoError(err)
	}

	updated := existing
	if input.Type != 0 {
		updated.Type = input.Type
	}
	if input.Purpose != "" {
		updated.Purpose = input.Purpose
	}
	updated.UpdatedAt = s.now()

	persisted, err := s.reservas.UpdateReserva(ctx, updated)
	if err != nil {
		return Reserva{}, mapReservaRepoError(err)
	}

	return persisted, nil
}

// GetReserva returns a single legacy reservation record.
func (s *ReservaService) GetReserva(ctx context.Context, id string) (Reserva, error) {
	if s == nil {
		return Reserva{}, fmt.Errorf("ReservaService is nil")
	}
	if s.reservas == nil {
		return Reserva{}, fmt.Errorf("reserva repository not configured")
	}

	reserva, err := s.reservas.GetReserva(ctx, id)
	if err != nil {
		return Reserva{}, mapReservaRepoError(err)
	}
	return reserva, nil
}

// ListReservas enumerates all legacy reservation records.
func (s *ReservaService) ListReservas(ctx context.Context) ([]Reserva, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservaService is nil")
	}
	if s.reservas == nil {
		return nil, nil
	}

	reservas, err := s.reservas.ListReservas(ctx)
	if err != nil {
		return nil, mapReservaRepoError(err)
	}
	if reservas == nil {
		reservas = []Reserva{}
	}
	return reservas, nil
}

// DeleteReserva removes a legacy reservation record. No inventory is touched.
func (s *ReservaService) DeleteReserva(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("ReservaService is nil")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if s.reservas == nil {
		return fmt.Errorf("reserva repository not configured")
	}

	if err := s.reservas.DeleteReserva(ctx, id); err != nil {
		return mapReservaRepoError(err)
	}
	return nil
}

func mapReservaRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
