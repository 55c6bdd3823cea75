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

type linkService interface {
	CreateLink(ctx context.Context, principal application.Principal, input application.LinkInput) (application.Link, error)
	UpdateLink(ctx context.Context, principal application.Principal, id string, input application.LinkInput) (application.Link, error)
	GetLink(ctx context.Context, id string) (application.Link, error)
	ListLinks(ctx context.Context) ([]application.Link, error)
	DeleteLink(ctx context.Context, principal application.Principal, id string) error
}

type projectService interface {
	CreateProject(ctx context.Context, principal application.Principal, input application.ProjectInput) (application.Project, error)
	UpdateProject(ctx context.Context, principal application.Principal, id string, input application.ProjectInput) (application.Project, error)
	GetProject(ctx context.Context, id string) (application.Project, error)
	ListProjects(ctx context.Context) ([]application.Project, error)
	DeleteProject(ctx context.Context, principal application.Principal, id string) error
}

// CatalogHandler serves the shared link and project directories managed by
// administrators.
type CatalogHandler struct {
	links     linkService
	projects  projectService
	responder responder
}

func NewCatalogHandler(links linkService, projects projectService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{links: links, projects: projects, responder: newResponder(defaultLogger(logger))}
}

func (h *CatalogHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.links == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	link, err := h.links.CreateLink(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Link não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Link criado com sucesso.", toLinkDTO(link))
}

func (h *CatalogHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.links == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	link, err := h.links.UpdateLink(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Link não encontrado para edição.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Link editado com sucesso.", toLinkDTO(link))
}

func (h *CatalogHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.links == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	link, err := h.links.GetLink(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Link não encontrado.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Link encontrado.", toLinkDTO(link))
}

func (h *CatalogHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.links == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	links, err := h.links.ListLinks(r.Context())
	if err != nil {
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de links bem-sucedida.", toLinkDTOs(links))
}

func (h *CatalogHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.links == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.links.DeleteLink(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Link não encontrado para deletar.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Link deletado com sucesso.", nil)
}

func (h *CatalogHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	project, err := h.projects.CreateProject(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Projeto não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Projeto criado com sucesso.", toProjectDTO(project))
}

func (h *CatalogHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	project, err := h.projects.UpdateProject(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Projeto não encontrado para edição.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Projeto editado com sucesso.", toProjectDTO(project))
}

func (h *CatalogHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	project, err := h.projects.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			h.responder.writeDomainError(r.Context(), w, "Projeto não encontrado.")
			return
		}
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Projeto encontrado.", toProjectDTO(project))
}

func (h *CatalogHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projects, err := h.projects.ListProjects(r.Context())
	if err != nil {
		h.responder.writeFault(r.Context(), w, "Erro interno do servidor.", err)
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de projetos bem-sucedida.", toProjectDTOs(projects))
}

func (h *CatalogHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.projects == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	if err := h.projects.DeleteProject(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Projeto não encontrado para deletar.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Projeto deletado com sucesso.", nil)
}

type linkRequest struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (r linkRequest) toInput() application.LinkInput {
	return application.LinkInput{
		Name:        strings.TrimSpace(r.Name),
		URL:         strings.TrimSpace(r.URL),
		Description: r.Description,
	}
}

type linkDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toLinkDTO(link application.Link) linkDTO {
	return linkDTO{
		ID:          link.ID,
		Name:        link.Name,
		URL:         link.URL,
		Description: link.Description,
		CreatedAt:   link.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   link.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toLinkDTOs(links []application.Link) []linkDTO {
	if len(links) == 0 {
		return []linkDTO{}
	}
	out := make([]linkDTO, 0, len(links))
	for _, link := range links {
		out = append(out, toLinkDTO(link))
	}
	return out
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r projectRequest) toInput() application.ProjectInput {
	return application.ProjectInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
	}
}

type projectDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toProjectDTO(project application.Project) projectDTO {
	return projectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   project.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toProjectDTOs(projects []application.Project) []projectDTO {
	if len(projects) == 0 {
		return []projectDTO{}
	}
	out := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectDTO(project))
	}
	return out
}
