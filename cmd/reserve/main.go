package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/material-reserve/internal/application"
	"github.com/example/material-reserve/internal/config"
	httptransport "github.com/example/material-reserve/internal/http"
	"github.com/example/material-reserve/internal/persistence"
	"github.com/example/material-reserve/internal/persistence/postgres"
	"github.com/example/material-reserve/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	materialRepo := newMaterialRepositoryAdapter(storage.materials)
	reservationRepo := newReservationRepositoryAdapter(storage.reservations, storage.materials, storage.users)
	reservaRepo := newReservaRepositoryAdapter(storage.reservas)
	userRepo := newUserRepositoryAdapter(storage.users)
	linkRepo := newLinkRepositoryAdapter(storage.links)
	projectRepo := newProjectRepositoryAdapter(storage.projects)
	sessionRepo := newSessionRepositoryAdapter(storage.sessions)
	credentialStore := newCredentialStoreAdapter(storage.users)

	var reservationOpts []application.ReservationServiceOption
	if cfg.AcceptRequiresPending {
		reservationOpts = append(reservationOpts, application.WithAcceptRequiresPending())
	}

	reservationService := application.NewReservationServiceWithLogger(reservationRepo, materialRepo, idGenerator, now, logger, reservationOpts...)
	materialService := application.NewMaterialServiceWithLogger(materialRepo, idGenerator, now, logger)
	reservaService := application.NewReservaServiceWithLogger(reservaRepo, idGenerator, now, logger)
	linkService := application.NewLinkService(linkRepo, idGenerator, now)
	projectService := application.NewProjectService(projectRepo, idGenerator, now)
	userService := application.NewUserServiceWithLogger(userRepo, nil, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(credentialStore, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)

	metrics := httptransport.NewMetrics()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:              httptransport.NewAuthHandler(authService, logger),
		Reservations:      httptransport.NewReservationHandler(reservationService, logger),
		Materials:         httptransport.NewMaterialHandler(materialService, logger),
		Users:             httptransport.NewUserHandler(userService, logger),
		Reservas:          httptransport.NewReservaHandler(reservaService, logger),
		Catalog:           httptransport.NewCatalogHandler(linkService, projectService, logger),
		Metrics:           metrics,
		SessionMiddleware: httptransport.RequireSession(authService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation API listening", "addr", server.Addr, "driver", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// storageBackend groups the persistence interfaces behind whichever driver the
// configuration selected.
type storageBackend struct {
	materials    persistence.MaterialRepository
	reservations persistence.ReservationRepository
	reservas     persistence.ReservaRepository
	users        persistence.UserRepository
	links        persistence.LinkRepository
	projects     persistence.ProjectRepository
	sessions     persistence.SessionRepository
	close        func() error
}

func openStorage(ctx context.Context, cfg config.Config) (storageBackend, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return storageBackend{}, err
		}
		return storageBackend{
			materials:    store,
			reservations: store,
			reservas:     store,
			users:        store,
			links:        store,
			projects:     store,
			sessions:     store,
			close:        store.Close,
		}, nil
	default:
		pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
		if err != nil {
			return storageBackend{}, err
		}
		if err := pool.Migrate(ctx); err != nil {
			cerr := pool.Close()
			return storageBackend{}, errors.Join(err, cerr)
		}
		return storageBackend{
			materials:    sqlite.NewMaterialRepository(pool),
			reservations: sqlite.NewReservationRepository(pool),
			reservas:     sqlite.NewReservaRepository(pool),
			users:        sqlite.NewUserRepository(pool),
			links:        sqlite.NewLinkRepository(pool),
			projects:     sqlite.NewProjectRepository(pool),
			sessions:     sqlite.NewSessionRepository(pool),
			close:        pool.Close,
		}, nil
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type materialRepositoryAdapter struct {
	repo persistence.MaterialRepository
}

func newMaterialRepositoryAdapter(repo persistence.MaterialRepository) *materialRepositoryAdapter {
	return &materialRepositoryAdapter{repo: repo}
}

func (a *materialRepositoryAdapter) CreateMaterial(ctx context.Context, material application.Material) (application.Material, error) {
	if err := a.repo.CreateMaterial(ctx, toPersistenceMaterial(material)); err != nil {
		return application.Material{}, err
	}
	stored, err := a.repo.GetMaterial(ctx, material.ID)
	if err != nil {
		return application.Material{}, err
	}
	return toApplicationMaterial(stored), nil
}

func (a *materialRepositoryAdapter) GetMaterial(ctx context.Context, id string) (application.Material, error) {
	stored, err := a.repo.GetMaterial(ctx, id)
	if err != nil {
		return application.Material{}, err
	}
	return toApplicationMaterial(stored), nil
}

func (a *materialRepositoryAdapter) UpdateMaterial(ctx context.Context, material application.Material) (application.Material, error) {
	if err := a.repo.UpdateMaterial(ctx, toPersistenceMaterial(material)); err != nil {
		return application.Material{}, err
	}
	stored, err := a.repo.GetMaterial(ctx, material.ID)
	if err != nil {
		return application.Material{}, err
	}
	return toApplicationMaterial(stored), nil
}

func (a *materialRepositoryAdapter) DeleteMaterial(ctx context.Context, id string) error {
	return a.repo.DeleteMaterial(ctx, id)
}

func (a *materialRepositoryAdapter) ListMaterials(ctx context.Context) ([]application.Material, error) {
	models, err := a.repo.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	materials := make([]application.Material, 0, len(models))
	for _, model := range models {
		materials = append(materials, toApplicationMaterial(model))
	}
	return materials, nil
}

func (a *materialRepositoryAdapter) ReserveUnit(ctx context.Context, id string) error {
	return a.repo.ReserveUnit(ctx, id)
}

func (a *materialRepositoryAdapter) ReleaseUnit(ctx context.Context, id string) error {
	return a.repo.ReleaseUnit(ctx, id)
}

type reservationRepositoryAdapter struct {
	repo      persistence.ReservationRepository
	materials persistence.MaterialRepository
	users     persistence.UserRepository
}

func newReservationRepositoryAdapter(repo persistence.ReservationRepository, materials persistence.MaterialRepository, users persistence.UserRepository) *reservationRepositoryAdapter {
	return &reservationRepositoryAdapter{repo: repo, materials: materials, users: users}
}

func (a *reservationRepositoryAdapter) CreateReservation(ctx context.Context, reservation application.Reservation) (application.Reservation, error) {
	if err := a.repo.CreateReservation(ctx, toPersistenceReservation(reservation)); err != nil {
		return application.Reservation{}, err
	}
	stored, err := a.repo.GetReservation(ctx, reservation.ID)
	if err != nil {
		return application.Reservation{}, err
	}
	return a.hydrate(ctx, stored), nil
}

func (a *reservationRepositoryAdapter) GetReservation(ctx context.Context, id string) (application.Reservation, error) {
	stored, err := a.repo.GetReservation(ctx, id)
	if err != nil {
		return application.Reservation{}, err
	}
	return a.hydrate(ctx, stored), nil
}

func (a *reservationRepositoryAdapter) UpdateReservationStatus(ctx context.Context, id string, status application.Status) (application.Reservation, error) {
	stored, err := a.repo.UpdateReservationStatus(ctx, id, int(status))
	if err != nil {
		return application.Reservation{}, err
	}
	return a.hydrate(ctx, stored), nil
}

func (a *reservationRepositoryAdapter) DeleteReservation(ctx context.Context, id string) error {
	return a.repo.DeleteReservation(ctx, id)
}

func (a *reservationRepositoryAdapter) ListReservations(ctx context.Context) ([]application.Reservation, error) {
	models, err := a.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	reservations := make([]application.Reservation, 0, len(models))
	for _, model := range models {
		reservations = append(reservations, a.hydrate(ctx, model))
	}
	return reservations, nil
}

func (a *reservationRepositoryAdapter) ActiveReservationExists(ctx context.Context, userID string) (bool, error) {
	statuses := []int{int(application.StatusPendente), int(application.StatusEmReserva)}
	return a.repo.ActiveReservationExists(ctx, userID, statuses)
}

func (a *reservationRepositoryAdapter) LatestReservationForUser(ctx context.Context, userID string) (application.Reservation, error) {
	stored, err := a.repo.LatestReservationForUser(ctx, userID)
	if err != nil {
		return application.Reservation{}, err
	}
	return toApplicationReservation(stored), nil
}

// hydrate attaches material and user projections to the reservation. Lookups
// that fail are skipped rather than failing the whole read.
func (a *reservationRepositoryAdapter) hydrate(ctx context.Context, model persistence.Reservation) application.Reservation {
	reservation := toApplicationReservation(model)

	if a.materials != nil {
		materials := make([]application.Material, 0, len(model.MaterialIDs))
		for _, materialID := range model.MaterialIDs {
			stored, err := a.materials.GetMaterial(ctx, materialID)
			if err != nil {
				continue
			}
			materials = append(materials, toApplicationMaterial(stored))
		}
		reservation.Materials = materials
	}

	if a.users != nil {
		if stored, err := a.users.GetUser(ctx, model.UserID); err == nil {
			user := toApplicationUser(stored)
			reservation.User = &user
		}
	}

	return reservation
}

type reservaRepositoryAdapter struct {
	repo persistence.ReservaRepository
}

func newReservaRepositoryAdapter(repo persistence.ReservaRepository) *reservaRepositoryAdapter {
	return &reservaRepositoryAdapter{repo: repo}
}

func (a *reservaRepositoryAdapter) CreateReserva(ctx context.Context, reserva application.Reserva) (application.Reserva, error) {
	if err := a.repo.CreateReserva(ctx, toPersistenceReserva(reserva)); err != nil {
		return application.Reserva{}, err
	}
	stored, err := a.repo.GetReserva(ctx, reserva.ID)
	if err != nil {
		return application.Reserva{}, err
	}
	return toApplicationReserva(stored), nil
}

func (a *reservaRepositoryAdapter) GetReserva(ctx context.Context, id string) (application.Reserva, error) {
	stored, err := a.repo.GetReserva(ctx, id)
	if err != nil {
		return application.Reserva{}, err
	}
	return toApplicationReserva(stored), nil
}

func (a *reservaRepositoryAdapter) UpdateReserva(ctx context.Context, reserva application.Reserva) (application.Reserva, error) {
	if err := a.repo.UpdateReserva(ctx, toPersistenceReserva(reserva)); err != nil {
		return application.Reserva{}, err
	}
	stored, err := a.repo.GetReserva(ctx, reserva.ID)
	if err != nil {
		return application.Reserva{}, err
	}
	return toApplicationReserva(stored), nil
}

func (a *reservaRepositoryAdapter) ListReservas(ctx context.Context) ([]application.Reserva, error) {
	models, err := a.repo.ListReservas(ctx)
	if err != nil {
		return nil, err
	}
	reservas := make([]application.Reserva, 0, len(models))
	for _, model := range models {
		reservas = append(reservas, toApplicationReserva(model))
	}
	return reservas, nil
}

func (a *reservaRepositoryAdapter) DeleteReserva(ctx context.Context, id string) error {
	return a.repo.DeleteReserva(ctx, id)
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.CreateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	if err := a.repo.UpdateUser(ctx, toPersistenceUser(user, passwordHash)); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

type linkRepositoryAdapter struct {
	repo persistence.LinkRepository
}

func newLinkRepositoryAdapter(repo persistence.LinkRepository) *linkRepositoryAdapter {
	return &linkRepositoryAdapter{repo: repo}
}

func (a *linkRepositoryAdapter) CreateLink(ctx context.Context, link application.Link) (application.Link, error) {
	if err := a.repo.CreateLink(ctx, toPersistenceLink(link)); err != nil {
		return application.Link{}, err
	}
	stored, err := a.repo.GetLink(ctx, link.ID)
	if err != nil {
		return application.Link{}, err
	}
	return toApplicationLink(stored), nil
}

func (a *linkRepositoryAdapter) GetLink(ctx context.Context, id string) (application.Link, error) {
	stored, err := a.repo.GetLink(ctx, id)
	if err != nil {
		return application.Link{}, err
	}
	return toApplicationLink(stored), nil
}

func (a *linkRepositoryAdapter) UpdateLink(ctx context.Context, link application.Link) (application.Link, error) {
	if err := a.repo.UpdateLink(ctx, toPersistenceLink(link)); err != nil {
		return application.Link{}, err
	}
	stored, err := a.repo.GetLink(ctx, link.ID)
	if err != nil {
		return application.Link{}, err
	}
	return toApplicationLink(stored), nil
}

func (a *linkRepositoryAdapter) ListLinks(ctx context.Context) ([]application.Link, error) {
	models, err := a.repo.ListLinks(ctx)
	if err != nil {
		return nil, err
	}
	links := make([]application.Link, 0, len(models))
	for _, model := range models {
		links = append(links, toApplicationLink(model))
	}
	return links, nil
}

func (a *linkRepositoryAdapter) DeleteLink(ctx context.Context, id string) error {
	return a.repo.DeleteLink(ctx, id)
}

type projectRepositoryAdapter struct {
	repo persistence.ProjectRepository
}

func newProjectRepositoryAdapter(repo persistence.ProjectRepository) *projectRepositoryAdapter {
	return &projectRepositoryAdapter{repo: repo}
}

func (a *projectRepositoryAdapter) CreateProject(ctx context.Context, project application.Project) (application.Project, error) {
	if err := a.repo.CreateProject(ctx, toPersistenceProject(project)); err != nil {
		return application.Project{}, err
	}
	stored, err := a.repo.GetProject(ctx, project.ID)
	if err != nil {
		return application.Project{}, err
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) GetProject(ctx context.Context, id string) (application.Project, error) {
	stored, err := a.repo.GetProject(ctx, id)
	if err != nil {
		return application.Project{}, err
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) UpdateProject(ctx context.Context, project application.Project) (application.Project, error) {
	if err := a.repo.UpdateProject(ctx, toPersistenceProject(project)); err != nil {
		return application.Project{}, err
	}
	stored, err := a.repo.GetProject(ctx, project.ID)
	if err != nil {
		return application.Project{}, err
	}
	return toApplicationProject(stored), nil
}

func (a *projectRepositoryAdapter) ListProjects(ctx context.Context) ([]application.Project, error) {
	models, err := a.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]application.Project, 0, len(models))
	for _, model := range models {
		projects = append(projects, toApplicationProject(model))
	}
	return projects, nil
}

func (a *projectRepositoryAdapter) DeleteProject(ctx context.Context, id string) error {
	return a.repo.DeleteProject(ctx, id)
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	return a.repo.RevokeSession(ctx, token, revokedAt)
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func toApplicationMaterial(model persistence.Material) application.Material {
	return application.Material{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Type:        model.Type,
		Quantity:    model.Quantity,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceMaterial(material application.Material) persistence.Material {
	return persistence.Material{
		ID:          material.ID,
		Title:       material.Title,
		Description: material.Description,
		Type:        material.Type,
		Quantity:    material.Quantity,
		CreatedAt:   material.CreatedAt,
		UpdatedAt:   material.UpdatedAt,
	}
}

func toApplicationReservation(model persistence.Reservation) application.Reservation {
	return application.Reservation{
		ID:          model.ID,
		UserID:      model.UserID,
		Status:      application.Status(model.Status),
		Type:        model.Type,
		Purpose:     model.Purpose,
		DateStart:   model.DateStart,
		DateEnd:     model.DateEnd,
		StartTime:   cloneString(model.StartTime),
		EndTime:     cloneString(model.EndTime),
		MaterialIDs: append([]string(nil), model.MaterialIDs...),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceReservation(reservation application.Reservation) persistence.Reservation {
	return persistence.Reservation{
		ID:          reservation.ID,
		UserID:      reservation.UserID,
		Status:      int(reservation.Status),
		Type:        reservation.Type,
		Purpose:     reservation.Purpose,
		DateStart:   reservation.DateStart,
		DateEnd:     reservation.DateEnd,
		StartTime:   cloneString(reservation.StartTime),
		EndTime:     cloneString(reservation.EndTime),
		MaterialIDs: append([]string(nil), reservation.MaterialIDs...),
		CreatedAt:   reservation.CreatedAt,
		UpdatedAt:   reservation.UpdatedAt,
	}
}

func toApplicationReserva(model persistence.Reserva) application.Reserva {
	return application.Reserva{
		ID:        model.ID,
		Type:      model.Type,
		Purpose:   model.Purpose,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceReserva(reserva application.Reserva) persistence.Reserva {
	return persistence.Reserva{
		ID:        reserva.ID,
		Type:      reserva.Type,
		Purpose:   reserva.Purpose,
		CreatedAt: reserva.CreatedAt,
		UpdatedAt: reserva.UpdatedAt,
	}
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:          model.ID,
		Email:       model.Email,
		DisplayName: model.DisplayName,
		IsAdmin:     model.IsAdmin,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User, passwordHash string) persistence.User {
	return persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func toApplicationLink(model persistence.Link) application.Link {
	return application.Link{
		ID:          model.ID,
		Name:        model.Name,
		URL:         model.URL,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceLink(link application.Link) persistence.Link {
	return persistence.Link{
		ID:          link.ID,
		Name:        link.Name,
		URL:         link.URL,
		Description: link.Description,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

func toApplicationProject(model persistence.Project) application.Project {
	return application.Project{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceProject(project application.Project) persistence.Project {
	return persistence.Project{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
