package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/material-reserve/internal/application"
)

type reservationService interface {
	CreateReservation(ctx context.Context, params application.CreateReservationParams) (application.Reservation, error)
	GetReservation(ctx context.Context, id string) (application.Reservation, error)
	ListReservations(ctx context.Context) ([]application.Reservation, error)
	GetReservationStatus(ctx context.Context, userID string) (application.ReservationStatus, error)
	AcceptReservation(ctx context.Context, id string) (application.Reservation, error)
	RefuseReservation(ctx context.Context, id string) (application.Reservation, error)
	ReturnReservation(ctx context.Context, id string) (application.Reservation, error)
	CancelReservation(ctx context.Context, id string) (application.Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

// Create registers a new reservation, debiting one unit per linked material.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	reservation, err := h.service.CreateReservation(r.Context(), application.CreateReservationParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Create", "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "failed to create reservation", "error", err)
		h.responder.handleServiceError(r.Context(), w, err, "Material não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Reserva criada com sucesso.", toReservationDTO(reservation))
}

// Get returns a single reservation by ID.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	reservation, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Reserva não encontrada.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Reserva encontrada.", toReservationDTO(reservation))
}

// List returns every reservation. An empty result is still a success.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservations, err := h.service.ListReservations(r.Context())
	if err != nil {
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de reservas bem-sucedida.", toReservationDTOs(reservations))
}

// Status returns the status projection of the user's latest reservation.
func (h *ReservationHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	userID, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	status, err := h.service.GetReservationStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Nenhuma reserva encontrada.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Status de reserva encontrado.", reservationStatusDTO{
		ReservationID: status.ReservationID,
		Status:        int(status.Status),
		Label:         status.Status.Label(),
	})
}

// Accept moves a reservation into the accepted state.
func (h *ReservationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Accept", "Reserva aceita com sucesso.", func(ctx context.Context, id string) (application.Reservation, error) {
		return h.service.AcceptReservation(ctx, id)
	})
}

// Refuse rejects a reservation and restores its inventory.
func (h *ReservationHandler) Refuse(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Refuse", "Reserva recusada com sucesso.", func(ctx context.Context, id string) (application.Reservation, error) {
		return h.service.RefuseReservation(ctx, id)
	})
}

// Return finalizes a reservation and restores its inventory.
func (h *ReservationHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Return", "Reserva devolvida com sucesso.", func(ctx context.Context, id string) (application.Reservation, error) {
		return h.service.ReturnReservation(ctx, id)
	})
}

// Cancel cancels a reservation and restores its inventory.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Cancel", "Reserva cancelada com sucesso.", func(ctx context.Context, id string) (application.Reservation, error) {
		return h.service.CancelReservation(ctx, id)
	})
}

// transition handles the shared shape of the lifecycle endpoints. Failures
// surface as domain errors rather than faults, matching the edit semantics of
// the rest of the reservation surface.
func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, operation, successMessage string, fn func(ctx context.Context, id string) (application.Reservation, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	reservation, err := fn(r.Context(), id)
	if err != nil {
		h.log(r.Context(), operation, "reservation_id", id, "error_kind", application.ErrorKind(err)).ErrorContext(r.Context(), "reservation transition failed", "error", err)
		switch {
		case errors.Is(err, application.ErrNotFound):
			h.responder.writeDomainError(r.Context(), w, "Reserva não encontrada para edição.")
		case errors.Is(err, application.ErrConflict):
			h.responder.writeDomainError(r.Context(), w, "Reserva não está pendente.")
		default:
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, apiResponse{
				Type:    "error",
				Message: "Erro ao editar a reserva.",
				Error:   err.Error(),
			})
		}
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, successMessage, toReservationDTO(reservation))
}

// Delete removes a reservation and restores its inventory.
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Reserva não encontrada para deletar.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Reserva deletada com sucesso.", nil)
}

type reservationRequest struct {
	UserID      string   `json:"userId"`
	MaterialIDs []string `json:"materialIds"`
	MaterialID  string   `json:"materialId"`
	Type        int      `json:"type"`
	Purpose     string   `json:"purpose"`
	DateStart   string   `json:"dateStart"`
	DateEnd     string   `json:"dateEnd"`
	StartTime   *string  `json:"startTime"`
	EndTime     *string  `json:"endTime"`
}

func (r reservationRequest) toInput() application.ReservationInput {
	materialIDs := append([]string(nil), r.MaterialIDs...)
	// Single-material clients send materialId; fold it into the list.
	if trimmed := strings.TrimSpace(r.MaterialID); trimmed != "" {
		materialIDs = append(materialIDs, trimmed)
	}

	return application.ReservationInput{
		UserID:      strings.TrimSpace(r.UserID),
		MaterialIDs: materialIDs,
		Type:        r.Type,
		Purpose:     strings.TrimSpace(r.Purpose),
		DateStart:   parseTime(r.DateStart),
		DateEnd:     parseTime(r.DateEnd),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts
	}
	return time.Time{}
}

type reservationDTO struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Status      int           `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	Type        int           `json:"type"`
	Purpose     string        `json:"purpose"`
	DateStart   string        `json:"dateStart"`
	DateEnd     string        `json:"dateEnd"`
	StartTime   *string       `json:"startTime,omitempty"`
	EndTime     *string       `json:"endTime,omitempty"`
	MaterialIDs []string      `json:"materialIds"`
	Materials   []materialDTO `json:"materials,omitempty"`
	User        *userDTO      `json:"user,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

type reservationStatusDTO struct {
	ReservationID string `json:"reservationId"`
	Status        int    `json:"status"`
	Label         string `json:"label"`
}

func toReservationDTO(reservation application.Reservation) reservationDTO {
	dto := reservationDTO{
		ID:          reservation.ID,
		UserID:      reservation.UserID,
		Status:      int(reservation.Status),
		StatusLabel: reservation.Status.Label(),
		Type:        reservation.Type,
		Purpose:     reservation.Purpose,
		DateStart:   reservation.DateStart.UTC().Format(time.RFC3339),
		DateEnd:     reservation.DateEnd.UTC().Format(time.RFC3339),
		StartTime:   reservation.StartTime,
		EndTime:     reservation.EndTime,
		MaterialIDs: append([]string(nil), reservation.MaterialIDs...),
		Materials:   toMaterialDTOs(reservation.Materials),
		CreatedAt:   reservation.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   reservation.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if reservation.User != nil {
		user := toUserDTO(*reservation.User)
		dto.User = &user
	}
	return dto
}

func toReservationDTOs(reservations []application.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		out = append(out, toReservationDTO(reservation))
	}
	return out
}
