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

type reservaService interface {
	CreateReserva(ctx context.Context, principal application.Principal, input application.ReservaInput) (application.Reserva, error)
	UpdateReserva(ctx context.Context, principal application.Principal, id string, input application.ReservaInput) (application.Reserva, error)
	GetReserva(ctx context.Context, id string) (application.Reserva, error)
	ListReservas(ctx context.Context) ([]application.Reserva, error)
	DeleteReserva(ctx context.Context, principal application.Principal, id string) error
}

// ReservaHandler serves the admin bookkeeping records that predate the
// material reservation flow.
type ReservaHandler struct {
	service   reservaService
	responder responder
}

func NewReservaHandler(service reservaService, logger *slog.Logger) *ReservaHandler {
	return &ReservaHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *ReservaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	reserva, err := h.service.CreateReserva(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Reserva não existente.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Reserva criado com sucesso.", toReservaDTO(reserva))
}

func (h *ReservaHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req reservaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	reserva, err := h.service.UpdateReserva(r.Context(), principal, id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			h.responder.writeDomainError(r.Context(), w, "Reserva não existente.")
		case errors.Is(err, application.ErrUnauthorized):
			h.responder.handleServiceError(r.Context(), w, err, "")
		default:
			var vErr *application.ValidationError
			if errors.As(err, &vErr) {
				h.responder.writeDomainError(r.Context(), w, localizeValidationError(vErr))
				return
			}
			h.responder.writeJSON(r.Context(), w, http.StatusBadRequest, apiResponse{
				Type:    "error",
				Message: "Erro ao editar o reserva.",
				Error:   err.Error(),
			})
		}
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Reserva editada com sucesso.", toReservaDTO(reserva))
}

func (h *ReservaHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	reserva, err := h.service.GetReserva(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Reserva não existente.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Reserva encontrada.", toReservaDTO(reserva))
}

func (h *ReservaHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	reservas, err := h.service.ListReservas(r.Context())
	if err != nil {
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de reservas bem-sucedida.", toReservaDTOs(reservas))
}

func (h *ReservaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.service.DeleteReserva(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Reserva não encontrado para deletar.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Reserva deletado com sucesso.", nil)
}

type reservaRequest struct {
	Type    int    `json:"type"`
	Purpose string `json:"purpose"`
}

func (r reservaRequest) toInput() application.ReservaInput {
	return application.ReservaInput{
		Type:    r.Type,
		Purpose: strings.TrimSpace(r.Purpose),
	}
}

type reservaDTO struct {
	ID        string `json:"id"`
	Type      int    `json:"type"`
	Purpose   string `json:"purpose"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toReservaDTO(reserva application.Reserva) reservaDTO {
	return reservaDTO{
		ID:        reserva.ID,
		Type:      reserva.Type,
		Purpose:   reserva.Purpose,
		CreatedAt: reserva.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: reserva.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toReservaDTOs(reservas []application.Reserva) []reservaDTO {
	out := make([]reservaDTO, 0, len(reservas))
	for _, reserva := range reservas {
		out = append(out, toReservaDTO(reserva))
	}
	return out
}
