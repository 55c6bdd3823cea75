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

type materialService interface {
	CreateMaterial(ctx context.Context, params application.CreateMaterialParams) (application.Material, error)
	UpdateMaterial(ctx context.Context, params application.UpdateMaterialParams) (application.Material, error)
	GetMaterial(ctx context.Context, id string) (application.Material, error)
	ListMaterials(ctx context.Context) ([]application.Material, error)
	DeleteMaterial(ctx context.Context, principal application.Principal, id string) error
}

type MaterialHandler struct {
	service   materialService
	responder responder
}

func NewMaterialHandler(service materialService, logger *slog.Logger) *MaterialHandler {
	return &MaterialHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	material, err := h.service.CreateMaterial(r.Context(), application.CreateMaterialParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Material não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Material criado com sucesso.", toMaterialDTO(material))
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	material, err := h.service.UpdateMaterial(r.Context(), application.UpdateMaterialParams{
		Principal:  principal,
		MaterialID: id,
		Input:      req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Material não encontrada para edição.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Material editada com sucesso.", toMaterialDTO(material))
}

func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	material, err := h.service.GetMaterial(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Material não existente.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de material bem-sucedida.", toMaterialDTO(material))
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	materials, err := h.service.ListMaterials(r.Context())
	if err != nil {
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de materiais bem-sucedida.", toMaterialDTOs(materials))
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteMaterial(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Material não encontrado para deletar.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Material deletado com sucesso.", nil)
}

type materialRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
}

func (r materialRequest) toInput() application.MaterialInput {
	return application.MaterialInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Type:        strings.TrimSpace(r.Type),
		Quantity:    r.Quantity,
	}
}

type materialDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toMaterialDTO(material application.Material) materialDTO {
	return materialDTO{
		ID:          material.ID,
		Title:       material.Title,
		Description: material.Description,
		Type:        material.Type,
		Quantity:    material.Quantity,
		CreatedAt:   material.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   material.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toMaterialDTOs(materials []application.Material) []materialDTO {
	if len(materials) == 0 {
		return []materialDTO{}
	}
	out := make([]materialDTO, 0, len(materials))
	for _, material := range materials {
		out = append(out, toMaterialDTO(material))
	}
	return out
}
