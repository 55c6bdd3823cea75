package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/material-reserve/internal/application"
)

var (
	errBadRequestBody      = errors.New("Formato de requisição inválido.")
	errInvalidResourceID   = errors.New("Identificador inválido.")
	errMissingSessionToken = errors.New("Token de autenticação não fornecido.")
)

// apiResponse is the envelope shared by every endpoint. Type is either
// "success" or "error"; Error carries the underlying fault detail on 500s.
type apiResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeSuccess emits the success envelope.
func (r responder) writeSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	r.writeJSON(ctx, w, status, apiResponse{Type: "success", Message: message, Data: data})
}

// writeDomainError emits a 400 error envelope for business rule failures.
func (r responder) writeDomainError(ctx context.Context, w http.ResponseWriter, message string) {
	r.writeJSON(ctx, w, http.StatusBadRequest, apiResponse{Type: "error", Message: message})
}

// writeFault emits a 500 error envelope carrying the underlying error detail.
func (r responder) writeFault(ctx context.Context, w http.ResponseWriter, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", application.ErrorKind(err))
	}
	r.writeJSON(ctx, w, http.StatusInternalServerError, apiResponse{Type: "error", Message: message, Error: detail})
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := "Erro interno do servidor."
	if err != nil {
		if msg := err.Error(); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}
	r.writeJSON(ctx, w, status, apiResponse{Type: "error", Message: message})
}

// handleServiceError maps service errors onto the envelope. Domain errors
// become 400 responses with a localized message; anything unrecognized is a
// fault and surfaces as 500.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, notFoundMessage string) {
	if err == nil {
		r.writeFault(ctx, w, "Erro interno do servidor.", errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, apiResponse{Type: "error", Message: "Usuário não possui permissão para esta operação."})
	case errors.Is(err, application.ErrNotFound):
		message := notFoundMessage
		if message == "" {
			message = "Recurso não encontrado."
		}
		r.writeDomainError(ctx, w, message)
	case errors.Is(err, application.ErrDepleted):
		r.writeDomainError(ctx, w, "Material esgotado.")
	case errors.Is(err, application.ErrConflict):
		r.writeDomainError(ctx, w, "Usuário já possui uma reserva ativa.")
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeDomainError(ctx, w, "Registro já existente.")
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeDomainError(ctx, w, localizeValidationError(vErr))
			return
		}
		r.writeFault(ctx, w, "Erro interno do servidor.", err)
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizeValidationError(vErr *application.ValidationError) string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return "Dados inválidos."
	}
	for field, msg := range vErr.FieldErrors {
		return translateValidationMessage(field, msg)
	}
	return "Dados inválidos."
}

func translateValidationMessage(field, message string) string {
	switch message {
	case "user is required":
		return "Usuário não informado."
	case "at least one material is required":
		return "Nenhum material informado."
	case "purpose is required":
		return "Finalidade é obrigatória."
	case "start date is required":
		return "Data de início é obrigatória."
	case "end date is required":
		return "Data de término é obrigatória."
	case "end date must not precede start date":
		return "Data de término deve ser posterior à data de início."
	case "title is required":
		return "Título é obrigatório."
	case "quantity must not be negative":
		return "Quantidade não pode ser negativa."
	case "name is required":
		return "Nome é obrigatório."
	case "url is required":
		return "URL é obrigatória."
	case "must be a valid URL":
		return "URL inválida."
	case "display name is required":
		return "Nome de exibição é obrigatório."
	case "email is required":
		return "E-mail é obrigatório."
	case "must be a valid email address":
		return "E-mail inválido."
	case "email is already registered":
		return "O e-mail já está em uso. Por favor, use outro e-mail."
	case "password is required":
		return "Senha é obrigatória."
	case "must be at least 8 characters":
		return "Senha deve ter pelo menos 8 caracteres."
	default:
		return field + ": " + message
	}
}
