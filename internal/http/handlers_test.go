package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/material-reserve/internal/application"
)

type authServiceStub struct {
	result    application.AuthenticateResult
	authErr   error
	revokeErr error

	revokedToken string
}

func (s *authServiceStub) Authenticate(_ context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	if s.authErr != nil {
		return application.AuthenticateResult{}, s.authErr
	}
	return s.result, nil
}

func (s *authServiceStub) RevokeSession(_ context.Context, token string) error {
	if s.revokeErr != nil {
		return s.revokeErr
	}
	s.revokedToken = token
	return nil
}

type reservationServiceStub struct {
	reservation application.Reservation
	status      application.ReservationStatus
	list        []application.Reservation
	err         error

	lastID     string
	lastParams application.CreateReservationParams
}

func (s *reservationServiceStub) CreateReservation(_ context.Context, params application.CreateReservationParams) (application.Reservation, error) {
	s.lastParams = params
	if s.err != nil {
		return application.Reservation{}, s.err
	}
	return s.reservation, nil
}

func (s *reservationServiceStub) GetReservation(_ context.Context, id string) (application.Reservation, error) {
	s.lastID = id
	if s.err != nil {
		return application.Reservation{}, s.err
	}
	return s.reservation, nil
}

func (s *reservationServiceStub) ListReservations(_ context.Context) ([]application.Reservation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *reservationServiceStub) GetReservationStatus(_ context.Context, userID string) (application.ReservationStatus, error) {
	s.lastID = userID
	if s.err != nil {
		return application.ReservationStatus{}, s.err
	}
	return s.status, nil
}

func (s *reservationServiceStub) transition(id string) (application.Reservation, error) {
	s.lastID = id
	if s.err != nil {
		return application.Reservation{}, s.err
	}
	return s.reservation, nil
}

func (s *reservationServiceStub) AcceptReservation(_ context.Context, id string) (application.Reservation, error) {
	return s.transition(id)
}

func (s *reservationServiceStub) RefuseReservation(_ context.Context, id string) (application.Reservation, error) {
	return s.transition(id)
}

func (s *reservationServiceStub) ReturnReservation(_ context.Context, id string) (application.Reservation, error) {
	return s.transition(id)
}

func (s *reservationServiceStub) CancelReservation(_ context.Context, id string) (application.Reservation, error) {
	return s.transition(id)
}

func (s *reservationServiceStub) DeleteReservation(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

type materialServiceStub struct {
	material application.Material
	list     []application.Material
	err      error
}

func (s *materialServiceStub) CreateMaterial(_ context.Context, params application.CreateMaterialParams) (application.Material, error) {
	if s.err != nil {
		return application.Material{}, s.err
	}
	return s.material, nil
}

func (s *materialServiceStub) UpdateMaterial(_ context.Context, params application.UpdateMaterialParams) (application.Material, error) {
	if s.err != nil {
		return application.Material{}, s.err
	}
	return s.material, nil
}

func (s *materialServiceStub) GetMaterial(_ context.Context, id string) (application.Material, error) {
	if s.err != nil {
		return application.Material{}, s.err
	}
	return s.material, nil
}

func (s *materialServiceStub) ListMaterials(_ context.Context) ([]application.Material, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *materialServiceStub) DeleteMaterial(_ context.Context, _ application.Principal, id string) error {
	return s.err
}

type userServiceStub struct {
	user application.User
	list []application.User
	err  error
}

func (s *userServiceStub) CreateUser(_ context.Context, _ application.Principal, _ application.UserInput) (application.User, error) {
	if s.err != nil {
		return application.User{}, s.err
	}
	return s.user, nil
}

func (s *userServiceStub) UpdateUser(_ context.Context, _ application.Principal, _ string, _ application.UserInput) (application.User, error) {
	if s.err != nil {
		return application.User{}, s.err
	}
	return s.user, nil
}

func (s *userServiceStub) GetUser(_ context.Context, _ string) (application.User, error) {
	if s.err != nil {
		return application.User{}, s.err
	}
	return s.user, nil
}

func (s *userServiceStub) ListUsers(_ context.Context, _ application.Principal) ([]application.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *userServiceStub) DeleteUser(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type reservaServiceStub struct {
	reserva application.Reserva
	list    []application.Reserva
	err     error
}

func (s *reservaServiceStub) CreateReserva(_ context.Context, _ application.Principal, _ application.ReservaInput) (application.Reserva, error) {
	if s.err != nil {
		return application.Reserva{}, s.err
	}
	return s.reserva, nil
}

func (s *reservaServiceStub) UpdateReserva(_ context.Context, _ application.Principal, _ string, _ application.ReservaInput) (application.Reserva, error) {
	if s.err != nil {
		return application.Reserva{}, s.err
	}
	return s.reserva, nil
}

func (s *reservaServiceStub) GetReserva(_ context.Context, _ string) (application.Reserva, error) {
	if s.err != nil {
		return application.Reserva{}, s.err
	}
	return s.reserva, nil
}

func (s *reservaServiceStub) ListReservas(_ context.Context) ([]application.Reserva, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *reservaServiceStub) DeleteReserva(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type linkServiceStub struct {
	link application.Link
	list []application.Link
	err  error
}

func (s *linkServiceStub) CreateLink(_ context.Context, _ application.Principal, _ application.LinkInput) (application.Link, error) {
	if s.err != nil {
		return application.Link{}, s.err
	}
	return s.link, nil
}

func (s *linkServiceStub) UpdateLink(_ context.Context, _ application.Principal, _ string, _ application.LinkInput) (application.Link, error) {
	if s.err != nil {
		return application.Link{}, s.err
	}
	return s.link, nil
}

func (s *linkServiceStub) GetLink(_ context.Context, _ string) (application.Link, error) {
	if s.err != nil {
		return application.Link{}, s.err
	}
	return s.link, nil
}

func (s *linkServiceStub) ListLinks(_ context.Context) ([]application.Link, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *linkServiceStub) DeleteLink(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type projectServiceStub struct {
	project application.Project
	list    []application.Project
	err     error
}

func (s *projectServiceStub) CreateProject(_ context.Context, _ application.Principal, _ application.ProjectInput) (application.Project, error) {
	if s.err != nil {
		return application.Project{}, s.err
	}
	return s.project, nil
}

func (s *projectServiceStub) UpdateProject(_ context.Context, _ application.Principal, _ string, _ application.ProjectInput) (application.Project, error) {
	if s.err != nil {
		return application.Project{}, s.err
	}
	return s.project, nil
}

func (s *projectServiceStub) GetProject(_ context.Context, _ string) (application.Project, error) {
	if s.err != nil {
		return application.Project{}, s.err
	}
	return s.project, nil
}

func (s *projectServiceStub) ListProjects(_ context.Context) ([]application.Project, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *projectServiceStub) DeleteProject(_ context.Context, _ application.Principal, _ string) error {
	return s.err
}

type sessionValidatorStub struct {
	principal application.Principal
	err       error
}

func (s sessionValidatorStub) ValidateSession(_ context.Context, _ string) (application.Principal, error) {
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

type envelope struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return env
}

func assertEnvelope(t *testing.T, recorder *httptest.ResponseRecorder, status int, envType, message string) envelope {
	t.Helper()

	if recorder.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, recorder.Code, recorder.Body.String())
	}
	env := decodeEnvelope(t, recorder)
	if env.Type != envType {
		t.Fatalf("expected type %q, got %q", envType, env.Type)
	}
	if env.Message != message {
		t.Fatalf("expected message %q, got %q", message, env.Message)
	}
	return env
}

var memberPrincipal = application.Principal{UserID: "user-1"}

func newSessionedRouter(cfg RouterConfig, principal application.Principal) http.Handler {
	cfg.SessionMiddleware = RequireSession(sessionValidatorStub{principal: principal}, nil)
	return NewRouter(cfg)
}

func authedRequest(method, path, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	t.Run("login issues session token via cookie and header", func(t *testing.T) {
		t.Parallel()

		service := &authServiceStub{
			result: application.AuthenticateResult{
				Session: application.Session{ID: "s1", UserID: "user-1", Token: "tok-1", ExpiresAt: expiresAt},
				User:    application.User{ID: "user-1", Email: "aluno@example.com", DisplayName: "Aluna"},
			},
		}
		router := newSessionedRouter(RouterConfig{Auth: NewAuthHandler(service, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"Aluno@Example.com","password":"segredo123"}`)))

		env := assertEnvelope(t, recorder, http.StatusOK, "success", "Login bem-sucedido.")
		if recorder.Header().Get("X-Session-Token") != "tok-1" {
			t.Fatalf("expected session token header, got %q", recorder.Header().Get("X-Session-Token"))
		}

		var found bool
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "tok-1" {
				found = true
			}
		}
		if !found {
			t.Fatal("expected session_token cookie")
		}

		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			t.Fatalf("failed to decode login payload: %v", err)
		}
		if payload.Token != "tok-1" {
			t.Fatalf("expected token in payload, got %q", payload.Token)
		}
	})

	t.Run("login rejects invalid credentials with 401", func(t *testing.T) {
		t.Parallel()

		service := &authServiceStub{authErr: application.ErrInvalidCredentials}
		router := newSessionedRouter(RouterConfig{Auth: NewAuthHandler(service, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"x@example.com","password":"wrong"}`)))

		assertEnvelope(t, recorder, http.StatusUnauthorized, "error", "Senha incorreta.")
	})

	t.Run("login rejects malformed request bodies", func(t *testing.T) {
		t.Parallel()

		router := newSessionedRouter(RouterConfig{Auth: NewAuthHandler(&authServiceStub{}, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json")))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Formato de requisição inválido.")
	})

	t.Run("logout revokes the presented token", func(t *testing.T) {
		t.Parallel()

		service := &authServiceStub{}
		router := newSessionedRouter(RouterConfig{Auth: NewAuthHandler(service, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPost, "/logout", ""))

		assertEnvelope(t, recorder, http.StatusOK, "success", "Logout bem-sucedido.")
		if service.revokedToken != "test-token" {
			t.Fatalf("expected token revoked, got %q", service.revokedToken)
		}
	})

	t.Run("logout without token returns 401", func(t *testing.T) {
		t.Parallel()

		router := newSessionedRouter(RouterConfig{Auth: NewAuthHandler(&authServiceStub{}, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assertEnvelope(t, recorder, http.StatusUnauthorized, "error", "Token de autenticação não fornecido.")
	})
}

func TestReservationHandlers(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	sample := application.Reservation{
		ID:          "res-1",
		UserID:      "user-1",
		Status:      application.StatusPendente,
		Type:        1,
		Purpose:     "aula de robótica",
		DateStart:   start,
		DateEnd:     start.AddDate(0, 0, 3),
		MaterialIDs: []string{"mat-1"},
		CreatedAt:   start,
		UpdatedAt:   start,
	}

	newRouter := func(service *reservationServiceStub) http.Handler {
		return newSessionedRouter(RouterConfig{Reservations: NewReservationHandler(service, nil)}, memberPrincipal)
	}

	t.Run("create returns 201 with the reservation payload", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{reservation: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/reservation/create",
			`{"userId":"user-1","materialIds":["mat-1"],"purpose":"aula de robótica","dateStart":"2026-04-01","dateEnd":"2026-04-04"}`))

		env := assertEnvelope(t, recorder, http.StatusCreated, "success", "Reserva criada com sucesso.")

		var dto reservationDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			t.Fatalf("failed to decode reservation payload: %v", err)
		}
		if dto.ID != "res-1" || dto.Status != int(application.StatusPendente) || dto.StatusLabel != "PENDENTE" {
			t.Fatalf("unexpected payload %#v", dto)
		}
		if service.lastParams.Input.UserID != "user-1" {
			t.Fatalf("expected user id forwarded, got %q", service.lastParams.Input.UserID)
		}
	})

	t.Run("create folds materialId into the material list", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{reservation: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/reservation/create",
			`{"userId":"user-1","materialId":"mat-9","purpose":"x","dateStart":"2026-04-01","dateEnd":"2026-04-02"}`))

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
		if len(service.lastParams.Input.MaterialIDs) != 1 || service.lastParams.Input.MaterialIDs[0] != "mat-9" {
			t.Fatalf("expected folded material id, got %v", service.lastParams.Input.MaterialIDs)
		}
	})

	t.Run("create maps domain errors to localized 400 responses", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			err     error
			message string
		}{
			{name: "depleted material", err: application.ErrDepleted, message: "Material esgotado."},
			{name: "active reservation conflict", err: application.ErrConflict, message: "Usuário já possui uma reserva ativa."},
			{name: "unknown material", err: application.ErrNotFound, message: "Material não encontrado."},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				service := &reservationServiceStub{err: tc.err}
				recorder := httptest.NewRecorder()
				newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/reservation/create", `{"userId":"user-1"}`))

				assertEnvelope(t, recorder, http.StatusBadRequest, "error", tc.message)
			})
		}
	})

	t.Run("create localizes validation errors", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"materials": "at least one material is required"}}
		service := &reservationServiceStub{err: vErr}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/reservation/create", `{"userId":"user-1"}`))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Nenhum material informado.")
	})

	t.Run("get returns the reservation or a localized miss", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{reservation: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/res-1", ""))

		assertEnvelope(t, recorder, http.StatusOK, "success", "Reserva encontrada.")
		if service.lastID != "res-1" {
			t.Fatalf("expected path id forwarded, got %q", service.lastID)
		}

		missing := &reservationServiceStub{err: application.ErrNotFound}
		recorder = httptest.NewRecorder()
		newRouter(missing).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/ghost", ""))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Reserva não encontrada.")
	})

	t.Run("list succeeds with an empty collection", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{list: []application.Reservation{}}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/all", ""))

		env := assertEnvelope(t, recorder, http.StatusOK, "success", "Listagem de reservas bem-sucedida.")
		if string(env.Data) != "[]" {
			t.Fatalf("expected empty array payload, got %s", env.Data)
		}
	})

	t.Run("status returns the latest reservation projection", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{
			status: application.ReservationStatus{ReservationID: "res-1", Status: application.StatusEmReserva},
		}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/status/user-1", ""))

		env := assertEnvelope(t, recorder, http.StatusOK, "success", "Status de reserva encontrado.")

		var dto reservationStatusDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			t.Fatalf("failed to decode status payload: %v", err)
		}
		if dto.ReservationID != "res-1" || dto.Status != int(application.StatusEmReserva) || dto.Label != "EM RESERVA" {
			t.Fatalf("unexpected status payload %#v", dto)
		}
	})

	t.Run("status maps no reservations to a localized miss", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{err: application.ErrNotFound}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/status/user-1", ""))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Nenhuma reserva encontrada.")
	})

	t.Run("transitions respond with their success messages", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			path    string
			message string
		}{
			{path: "/reservation/accept/res-1", message: "Reserva aceita com sucesso."},
			{path: "/reservation/refuse/res-1", message: "Reserva recusada com sucesso."},
			{path: "/reservation/return/res-1", message: "Reserva devolvida com sucesso."},
			{path: "/reservation/cancel/res-1", message: "Reserva cancelada com sucesso."},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.path, func(t *testing.T) {
				t.Parallel()

				service := &reservationServiceStub{reservation: sample}
				recorder := httptest.NewRecorder()
				newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, tc.path, ""))

				assertEnvelope(t, recorder, http.StatusOK, "success", tc.message)
				if service.lastID != "res-1" {
					t.Fatalf("expected path id forwarded, got %q", service.lastID)
				}
			})
		}
	})

	t.Run("transition failures surface as domain errors", func(t *testing.T) {
		t.Parallel()

		t.Run("missing reservation", func(t *testing.T) {
			t.Parallel()

			service := &reservationServiceStub{err: application.ErrNotFound}
			recorder := httptest.NewRecorder()
			newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, "/reservation/accept/ghost", ""))

			assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Reserva não encontrada para edição.")
		})

		t.Run("not pending", func(t *testing.T) {
			t.Parallel()

			service := &reservationServiceStub{err: application.ErrConflict}
			recorder := httptest.NewRecorder()
			newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, "/reservation/accept/res-1", ""))

			assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Reserva não está pendente.")
		})

		t.Run("unexpected failure carries the error detail", func(t *testing.T) {
			t.Parallel()

			service := &reservationServiceStub{err: errors.New("storage offline")}
			recorder := httptest.NewRecorder()
			newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, "/reservation/return/res-1", ""))

			env := assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Erro ao editar a reserva.")
			if env.Error != "storage offline" {
				t.Fatalf("expected error detail, got %q", env.Error)
			}
		})
	})

	t.Run("transitions only accept PUT", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{reservation: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/accept/res-1", ""))

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
		if recorder.Header().Get("Allow") != http.MethodPut {
			t.Fatalf("expected Allow header, got %q", recorder.Header().Get("Allow"))
		}
	})

	t.Run("delete removes the reservation", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodDelete, "/reservation/res-1", ""))

		assertEnvelope(t, recorder, http.StatusOK, "success", "Reserva deletada com sucesso.")

		missing := &reservationServiceStub{err: application.ErrNotFound}
		recorder = httptest.NewRecorder()
		newRouter(missing).ServeHTTP(recorder, authedRequest(http.MethodDelete, "/reservation/ghost", ""))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Reserva não encontrada para deletar.")
	})
}

func TestMaterialHandlers(t *testing.T) {
	t.Parallel()

	sample := application.Material{ID: "mat-1", Title: "Arduino Uno", Type: "kit", Quantity: 4}

	newRouter := func(service *materialServiceStub) http.Handler {
		return newSessionedRouter(RouterConfig{Materials: NewMaterialHandler(service, nil)}, adminPrincipalForTests())
	}

	t.Run("create returns 201 with the material payload", func(t *testing.T) {
		t.Parallel()

		service := &materialServiceStub{material: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/materials",
			`{"title":"Arduino Uno","type":"kit","quantity":4}`))

		env := assertEnvelope(t, recorder, http.StatusCreated, "success", "Material criado com sucesso.")

		var dto materialDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			t.Fatalf("failed to decode material payload: %v", err)
		}
		if dto.ID != "mat-1" || dto.Quantity != 4 {
			t.Fatalf("unexpected payload %#v", dto)
		}
	})

	t.Run("create rejects non-admin principals with 403", func(t *testing.T) {
		t.Parallel()

		service := &materialServiceStub{err: application.ErrUnauthorized}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/materials", `{"title":"X"}`))

		assertEnvelope(t, recorder, http.StatusForbidden, "error", "Usuário não possui permissão para esta operação.")
	})

	t.Run("create localizes validation errors", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}}
		service := &materialServiceStub{err: vErr}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/materials", `{}`))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Título é obrigatório.")
	})

	t.Run("get maps a missing material to a localized miss", func(t *testing.T) {
		t.Parallel()

		service := &materialServiceStub{err: application.ErrNotFound}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/admin/materials/ghost", ""))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Material não existente.")
	})

	t.Run("list responds with every material", func(t *testing.T) {
		t.Parallel()

		service := &materialServiceStub{list: []application.Material{sample}}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/admin/materials", ""))

		env := assertEnvelope(t, recorder, http.StatusOK, "success", "Listagem de materiais bem-sucedida.")

		var dtos []materialDTO
		if err := json.Unmarshal(env.Data, &dtos); err != nil {
			t.Fatalf("failed to decode list payload: %v", err)
		}
		if len(dtos) != 1 || dtos[0].Title != "Arduino Uno" {
			t.Fatalf("unexpected list payload %#v", dtos)
		}
	})

	t.Run("delete confirms removal", func(t *testing.T) {
		t.Parallel()

		service := &materialServiceStub{}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodDelete, "/admin/materials/mat-1", ""))

		assertEnvelope(t, recorder, http.StatusOK, "success", "Material deletado com sucesso.")
	})
}

func TestUserHandlers(t *testing.T) {
	t.Parallel()

	sample := application.User{ID: "user-1", Email: "aluno@example.com", DisplayName: "Aluna"}

	newRouter := func(service *userServiceStub) http.Handler {
		return newSessionedRouter(RouterConfig{Users: NewUserHandler(service, nil)}, adminPrincipalForTests())
	}

	t.Run("create returns 201 with the user payload", func(t *testing.T) {
		t.Parallel()

		service := &userServiceStub{user: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/users",
			`{"email":"aluno@example.com","displayName":"Aluna","password":"segredo123"}`))

		env := assertEnvelope(t, recorder, http.StatusCreated, "success", "Usuário criado com sucesso.")

		var dto userDTO
		if err := json.Unmarshal(env.Data, &dto); err != nil {
			t.Fatalf("failed to decode user payload: %v", err)
		}
		if dto.Email != "aluno@example.com" {
			t.Fatalf("unexpected payload %#v", dto)
		}
	})

	t.Run("create localizes duplicate email errors", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"email": "email is already registered"}}
		service := &userServiceStub{err: vErr}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/users", `{}`))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "O e-mail já está em uso. Por favor, use outro e-mail.")
	})

	t.Run("list rejects non-admin principals with 403", func(t *testing.T) {
		t.Parallel()

		service := &userServiceStub{err: application.ErrUnauthorized}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/admin/users", ""))

		assertEnvelope(t, recorder, http.StatusForbidden, "error", "Usuário não possui permissão para esta operação.")
	})
}

func TestReservaHandlers(t *testing.T) {
	t.Parallel()

	sample := application.Reserva{ID: "rsv-1", Type: 2, Purpose: "evento"}

	newRouter := func(service *reservaServiceStub) http.Handler {
		return newSessionedRouter(RouterConfig{Reservas: NewReservaHandler(service, nil)}, adminPrincipalForTests())
	}

	t.Run("create returns 201", func(t *testing.T) {
		t.Parallel()

		service := &reservaServiceStub{reserva: sample}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/reservas", `{"type":2,"purpose":"evento"}`))

		assertEnvelope(t, recorder, http.StatusCreated, "success", "Reserva criado com sucesso.")
	})

	t.Run("update failures carry the error detail", func(t *testing.T) {
		t.Parallel()

		service := &reservaServiceStub{err: errors.New("storage offline")}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, "/admin/reservas/rsv-1", `{"purpose":"novo"}`))

		env := assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Erro ao editar o reserva.")
		if env.Error != "storage offline" {
			t.Fatalf("expected error detail, got %q", env.Error)
		}
	})

	t.Run("update maps a missing record to a localized miss", func(t *testing.T) {
		t.Parallel()

		service := &reservaServiceStub{err: application.ErrNotFound}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodPut, "/admin/reservas/ghost", `{}`))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "Reserva não existente.")
	})

	t.Run("list succeeds with an empty collection", func(t *testing.T) {
		t.Parallel()

		service := &reservaServiceStub{list: []application.Reserva{}}
		recorder := httptest.NewRecorder()
		newRouter(service).ServeHTTP(recorder, authedRequest(http.MethodGet, "/admin/reservas", ""))

		env := assertEnvelope(t, recorder, http.StatusOK, "success", "Listagem de reservas bem-sucedida.")
		if string(env.Data) != "[]" {
			t.Fatalf("expected empty array payload, got %s", env.Data)
		}
	})
}

func TestCatalogHandlers(t *testing.T) {
	t.Parallel()

	newRouter := func(links *linkServiceStub, projects *projectServiceStub) http.Handler {
		return newSessionedRouter(RouterConfig{Catalog: NewCatalogHandler(links, projects, nil)}, adminPrincipalForTests())
	}

	t.Run("link create returns 201", func(t *testing.T) {
		t.Parallel()

		links := &linkServiceStub{link: application.Link{ID: "link-1", Name: "Docs", URL: "https://example.com/docs"}}
		recorder := httptest.NewRecorder()
		newRouter(links, &projectServiceStub{}).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/links",
			`{"name":"Docs","url":"https://example.com/docs"}`))

		assertEnvelope(t, recorder, http.StatusCreated, "success", "Link criado com sucesso.")
	})

	t.Run("link create localizes malformed URLs", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"url": "must be a valid URL"}}
		links := &linkServiceStub{err: vErr}
		recorder := httptest.NewRecorder()
		newRouter(links, &projectServiceStub{}).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/links", `{}`))

		assertEnvelope(t, recorder, http.StatusBadRequest, "error", "URL inválida.")
	})

	t.Run("project create returns 201", func(t *testing.T) {
		t.Parallel()

		projects := &projectServiceStub{project: application.Project{ID: "proj-1", Name: "Robótica"}}
		recorder := httptest.NewRecorder()
		newRouter(&linkServiceStub{}, projects).ServeHTTP(recorder, authedRequest(http.MethodPost, "/admin/projects",
			`{"name":"Robótica"}`))

		assertEnvelope(t, recorder, http.StatusCreated, "success", "Projeto criado com sucesso.")
	})
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("nested path ids are not routed", func(t *testing.T) {
		t.Parallel()

		service := &reservationServiceStub{}
		router := newSessionedRouter(RouterConfig{Reservations: NewReservationHandler(service, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodGet, "/reservation/res-1/extra", ""))

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("collection endpoints reject unknown methods", func(t *testing.T) {
		t.Parallel()

		router := newSessionedRouter(RouterConfig{Materials: NewMaterialHandler(&materialServiceStub{}, nil)}, adminPrincipalForTests())

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, authedRequest(http.MethodPatch, "/admin/materials", ""))

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
		if allow := recorder.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPost) {
			t.Fatalf("expected Allow header with GET and POST, got %q", allow)
		}
	})

	t.Run("metrics endpoint bypasses the session guard", func(t *testing.T) {
		t.Parallel()

		metrics := NewMetrics()
		router := NewRouter(RouterConfig{
			Metrics:           metrics,
			SessionMiddleware: RequireSession(sessionValidatorStub{err: application.ErrUnauthorized}, nil),
		})

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200 from /metrics, got %d", recorder.Code)
		}
	})

	t.Run("protected routes require a session", func(t *testing.T) {
		t.Parallel()

		router := newSessionedRouter(RouterConfig{Reservations: NewReservationHandler(&reservationServiceStub{}, nil)}, memberPrincipal)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/reservation/all", nil))

		assertEnvelope(t, recorder, http.StatusUnauthorized, "error", "Token de autenticação não fornecido.")
	})
}

func adminPrincipalForTests() application.Principal {
	return application.Principal{UserID: "admin-1", IsAdmin: true}
}
