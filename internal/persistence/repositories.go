package persistence

import (
	"context"
	"time"
)

// MaterialRepository exposes CRUD and inventory accounting for materials.
type MaterialRepository interface {
	CreateMaterial(ctx context.Context, material Material) error
	UpdateMaterial(ctx context.Context, material Material) error
	GetMaterial(ctx context.Context, id string) (Material, error)
	ListMaterials(ctx context.Context) ([]Material, error)
	DeleteMaterial(ctx context.Context, id string) error

	// ReserveUnit decrements the quantity by one as a single conditional
	// update. Returns ErrDepleted when no stock remains and ErrNotFound when
	// the material does not exist.
	ReserveUnit(ctx context.Context, id string) error
	// ReleaseUnit increments the quantity by one.
	ReleaseUnit(ctx context.Context, id string) error
}

// ReservationRepository stores lifecycle reservations and their material links.
type ReservationRepository interface {
	CreateReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, id string) (Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status int) (Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
	ListReservations(ctx context.Context) ([]Reservation, error)

	// ActiveReservationExists reports whether the user holds a reservation in
	// a pending or accepted status.
	ActiveReservationExists(ctx context.Context, userID string, statuses []int) (bool, error)
	// LatestReservationForUser returns the most recently created reservation
	// for the user, or ErrNotFound.
	LatestReservationForUser(ctx context.Context, userID string) (Reservation, error)
}

// ReservaRepository exposes plain CRUD for the legacy admin reservation records.
type ReservaRepository interface {
	CreateReserva(ctx context.Context, reserva Reserva) error
	GetReserva(ctx context.Context, id string) (Reserva, error)
	UpdateReserva(ctx context.Context, reserva Reserva) error
	ListReservas(ctx context.Context) ([]Reserva, error)
	DeleteReserva(ctx context.Context, id string) error
}

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// LinkRepository exposes CRUD operations for catalogued links.
type LinkRepository interface {
	CreateLink(ctx context.Context, link Link) error
	UpdateLink(ctx context.Context, link Link) error
	GetLink(ctx context.Context, id string) (Link, error)
	ListLinks(ctx context.Context) ([]Link, error)
	DeleteLink(ctx context.Context, id string) error
}

// ProjectRepository exposes CRUD operations for catalogued projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) error
	UpdateProject(ctx context.Context, project Project) error
	GetProject(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
