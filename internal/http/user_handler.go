package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/material-reserve/internal/application"
)

type userService interface {
	CreateUser(ctx context.Context, principal application.Principal, input application.UserInput) (application.User, error)
	UpdateUser(ctx context.Context, principal application.Principal, id string, input application.UserInput) (application.User, error)
	GetUser(ctx context.Context, id string) (application.User, error)
	ListUsers(ctx context.Context, principal application.Principal) ([]application.User, error)
	DeleteUser(ctx context.Context, principal application.Principal, id string) error
}

type UserHandler struct {
	service   userService
	responder responder
}

func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	user, err := h.service.CreateUser(r.Context(), principal, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Usuário não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusCreated, "Usuário criado com sucesso.", toUserDTO(user))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	user, err := h.service.UpdateUser(r.Context(), principal, id, req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Usuário não encontrado para edição.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Usuário editado com sucesso.", toUserDTO(user))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := PathIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Usuário não encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Usuário encontrado.", toUserDTO(user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	users, err := h.service.ListUsers(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Nenhum usuário encontrado.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Listagem de usuários bem-sucedida.", toUserDTOs(users))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteUser(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err, "Usuário não encontrado para deletar.")
		return
	}

	h.responder.writeSuccess(r.Context(), w, http.StatusOK, "Usuário deletado com sucesso.", nil)
}

type userRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (r userRequest) toInput() application.UserInput {
	return application.UserInput{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Password:    r.Password,
		IsAdmin:     r.IsAdmin,
	}
}

type userDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

func toUserDTO(user application.User) userDTO {
	return userDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
	}
}

func toUserDTOs(users []application.User) []userDTO {
	if len(users) == 0 {
		return []userDTO{}
	}
	out := make([]userDTO, 0, len(users))
	for _, user := range users {
		out = append(out, toUserDTO(user))
	}
	return out
}
