package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/persistence"
)

// ReservationRepository captures the persistence interactions needed by the
// lifecycle engine.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status Status) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context) ([]Reservation, error)
	ActiveReservationExists(ctx context.Context, userID string) (bool, error)
	LatestReservationForUser(ctx context.Context, userID string) (Reservation, error)
}

// MaterialInventory exposes the inventory accounting needed by the lifecycle
// engine. ReserveUnit and ReleaseUnit move exactly one unit per call.
type MaterialInventory interface {
	GetMaterial(ctx context.Context, id string) (Material, error)
	ReserveUnit(ctx context.Context, id string) error
	ReleaseUnit(ctx context.Context, id string) error
}

// ReservationService enforces the reservation state machine and keeps material
// quantities consistent with the units held by non-terminal reservations.
type ReservationService struct {
	reservations ReservationRepository
	inventory    MaterialInventory
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger

	// acceptRequiresPending gates AcceptReservation on the prior status being
	// PENDENTE. The default mirrors the original system, which accepts from
	// any status.
	acceptRequiresPending bool
}

// ReservationServiceOption adjusts optional engine behavior.
type ReservationServiceOption func(*ReservationService)

// WithAcceptRequiresPending makes AcceptReservation reject reservations whose
// status is not PENDENTE.
func WithAcceptRequiresPending() ReservationServiceOption {
	return func(s *ReservationService) { s.acceptRequiresPending = true }
}

// NewReservationService wires dependencies for the lifecycle engine.
func NewReservationService(reservations ReservationRepository, inventory MaterialInventory, idGenerator func() string, now func() time.Time, opts ...ReservationServiceOption) *ReservationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	s := &ReservationService{
		reservations: reservations,
		inventory:    inventory,
		idGenerator:  idGenerator,
		now:          now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewReservationServiceWithLogger wires dependencies plus a base logger.
func NewReservationServiceWithLogger(reservations ReservationRepository, inventory MaterialInventory, idGenerator func() string, now func() time.Time, logger *slog.Logger, opts ...ReservationServiceOption) *ReservationService {
	s := NewReservationService(reservations, inventory, idGenerator, now, opts...)
	s.logger = defaultLogger(logger)
	return s
}

// CreateReservation validates the request, rejects duplicate active holds and
// depleted materials, persists the reservation in PENDENTE, and debits one
// unit per linked material.
func (s *ReservationService) CreateReservation(ctx context.Context, params CreateReservationParams) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.inventory == nil {
		return Reservation{}, fmt.Errorf("reservation repositories not configured")
	}

	input := params.Input
	input.MaterialIDs = uniqueStrings(input.MaterialIDs)

	if vErr := validateReservationInput(input); vErr.HasErrors() {
		return Reservation{}, vErr
	}

	logger := serviceLogger(ctx, s.logger, "reservation", "create", "user_id", input.UserID)

	active, err := s.reservations.ActiveReservationExists(ctx, input.UserID)
	if err != nil {
		return Reservation{}, err
	}
	if active {
		logger.InfoContext(ctx, "rejected duplicate active reservation")
		return Reservation{}, ErrConflict
	}

	for _, materialID := range input.MaterialIDs {
		material, err := s.inventory.GetMaterial(ctx, materialID)
		if err != nil {
			return Reservation{}, mapReservationRepoError(err)
		}
		if material.Quantity <= 0 {
			logger.InfoContext(ctx, "rejected depleted material", "material_id", materialID)
			return Reservation{}, ErrDepleted
		}
	}

	createdAt := s.now()
	reservation := Reservation{
		ID:          s.idGenerator(),
		UserID:      input.UserID,
		Status:      StatusPendente,
		Type:        input.Type,
		Purpose:     strings.TrimSpace(input.Purpose),
		DateStart:   input.DateStart,
		DateEnd:     input.DateEnd,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		MaterialIDs: input.MaterialIDs,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	persisted, err := s.reservations.CreateReservation(ctx, reservation)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	for _, materialID := range persisted.MaterialIDs {
		if err := s.inventory.ReserveUnit(ctx, materialID); err != nil {
			return Reservation{}, mapReservationRepoError(err)
		}
	}

	logger.InfoContext(ctx, "reservation created", "reservation_id", persisted.ID)
	return persisted, nil
}

// AcceptReservation transitions the reservation to EM_RESERVA. No inventory
// change takes place; the unit was debited at creation.
func (s *ReservationService) AcceptReservation(ctx context.Context, id string) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	if s.acceptRequiresPending && existing.Status != StatusPendente {
		return Reservation{}, ErrConflict
	}

	updated, err := s.reservations.UpdateReservationStatus(ctx, id, StatusEmReserva)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	serviceLogger(ctx, s.logger, "reservation", "accept", "reservation_id", id).InfoContext(ctx, "reservation accepted")
	return updated, nil
}

// RefuseReservation credits one unit back per linked material and transitions
// the reservation to RECUSADO.
func (s *ReservationService) RefuseReservation(ctx context.Context, id string) (Reservation, error) {
	return s.terminate(ctx, id, StatusRecusado, "refuse")
}

// ReturnReservation credits one unit back per linked material and transitions
// the reservation to FINALIZADO.
func (s *ReservationService) ReturnReservation(ctx context.Context, id string) (Reservation, error) {
	return s.terminate(ctx, id, StatusFinalizado, "return")
}

// CancelReservation credits one unit back per linked material and transitions
// the reservation to CANCELADO.
func (s *ReservationService) CancelReservation(ctx context.Context, id string) (Reservation, error) {
	return s.terminate(ctx, id, StatusCancelado, "cancel")
}

// terminate restores inventory for the reservation's materials and then
// applies the terminal status. The two steps are not atomic; a failure
// between them leaves the credit applied without the status change.
func (s *ReservationService) terminate(ctx context.Context, id string, target Status, operation string) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.inventory == nil {
		return Reservation{}, fmt.Errorf("reservation repositories not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	if err := s.restoreInventory(ctx, existing); err != nil {
		return Reservation{}, err
	}

	updated, err := s.reservations.UpdateReservationStatus(ctx, id, target)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}

	serviceLogger(ctx, s.logger, "reservation", operation, "reservation_id", id).InfoContext(ctx, "reservation transitioned", "status", target.Label())
	return updated, nil
}

// DeleteReservation restores inventory for all linked materials and removes
// the record permanently.
func (s *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil || s.inventory == nil {
		return fmt.Errorf("reservation repositories not configured")
	}

	existing, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return mapReservationRepoError(err)
	}

	if err := s.restoreInventory(ctx, existing); err != nil {
		return err
	}

	if err := s.reservations.DeleteReservation(ctx, id); err != nil {
		return mapReservationRepoError(err)
	}

	serviceLogger(ctx, s.logger, "reservation", "delete", "reservation_id", id).InfoContext(ctx, "reservation deleted")
	return nil
}

// GetReservationStatus returns the status of the user's most recent
// reservation.
func (s *ReservationService) GetReservationStatus(ctx context.Context, userID string) (ReservationStatus, error) {
	if s == nil {
		return ReservationStatus{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return ReservationStatus{}, fmt.Errorf("reservation repository not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return ReservationStatus{}, ErrNotFound
	}

	latest, err := s.reservations.LatestReservationForUser(ctx, userID)
	if err != nil {
		return ReservationStatus{}, mapReservationRepoError(err)
	}

	return ReservationStatus{ReservationID: latest.ID, Status: latest.Status}, nil
}

// GetReservation returns a single reservation with its associated user and
// material data.
func (s *ReservationService) GetReservation(ctx context.Context, id string) (Reservation, error) {
	if s == nil {
		return Reservation{}, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return Reservation{}, fmt.Errorf("reservation repository not configured")
	}

	reservation, err := s.reservations.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, mapReservationRepoError(err)
	}
	return reservation, nil
}

// ListReservations enumerates all reservations. An empty result is a success
// with an empty collection.
func (s *ReservationService) ListReservations(ctx context.Context) ([]Reservation, error) {
	if s == nil {
		return nil, fmt.Errorf("ReservationService is nil")
	}
	if s.reservations == nil {
		return nil, fmt.Errorf("reservation repository not configured")
	}

	reservations, err := s.reservations.ListReservations(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
			return []Reservation{}, nil
		}
		return nil, err
	}
	if reservations == nil {
		reservations = []Reservation{}
	}
	return reservations, nil
}

// restoreInventory credits one unit back for every material linked to the
// reservation. The credit is unconditional, matching the original system,
// which does not guard against restoring an already-terminal reservation.
func (s *ReservationService) restoreInventory(ctx context.Context, reservation Reservation) error {
	for _, materialID := range reservation.MaterialIDs {
		if err := s.inventory.ReleaseUnit(ctx, materialID); err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
				// The material was deleted out from under the reservation;
				// there is nothing to credit.
				continue
			}
			return err
		}
	}
	return nil
}

func validateReservationInput(input ReservationInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.UserID) == "" {
		vErr.add("user_id", "user is required")
	}
	if len(input.MaterialIDs) == 0 {
		vErr.add("materials", "at least one material is required")
	}
	if strings.TrimSpace(input.Purpose) == "" {
		vErr.add("purpose", "purpose is required")
	}
	if input.DateStart.IsZero() {
		vErr.add("date_start", "start date is required")
	}
	if input.DateEnd.IsZero() {
		vErr.add("date_end", "end date is required")
	}
	if !input.DateStart.IsZero() && !input.DateEnd.IsZero() && input.DateEnd.Before(input.DateStart) {
		vErr.add("dates", "end date must not precede start date")
	}

	return vErr
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}
	return result
}

func mapReservationRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrDepleted), errors.Is(err, persistence.ErrDepleted):
		return ErrDepleted
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}
