package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// Material represents a reservable inventory item.
type Material struct {
	ID          string
	Title       string
	Description string
	Type        string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MaterialInput captures caller provided material fields.
type MaterialInput struct {
	Title       string
	Description string
	Type        string
	Quantity    int
}

// CreateMaterialParams wraps the data required to create a material.
type CreateMaterialParams struct {
	Principal Principal
	Input     MaterialInput
}

// UpdateMaterialParams wraps the data required to update a material.
type UpdateMaterialParams struct {
	Principal  Principal
	MaterialID string
	Input      MaterialInput
}

// Reservation represents a user's claim on one or more materials, tracked
// through the status lifecycle.
type Reservation struct {
	ID          string
	UserID      string
	Status      Status
	Type        int
	Purpose     string
	DateStart   time.Time
	DateEnd     time.Time
	StartTime   *string
	EndTime     *string
	MaterialIDs []string
	Materials   []Material
	User        *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReservationInput captures caller provided reservation fields. MaterialIDs
// holds one entry per material to reserve; exactly one unit is held per entry.
type ReservationInput struct {
	UserID      string
	MaterialIDs []string
	Type        int
	Purpose     string
	DateStart   time.Time
	DateEnd     time.Time
	StartTime   *string
	EndTime     *string
}

// CreateReservationParams wraps the data required to create a reservation.
type CreateReservationParams struct {
	Principal Principal
	Input     ReservationInput
}

// ReservationStatus is the projection returned by the status query.
type ReservationStatus struct {
	ReservationID string
	Status        Status
}

// Reserva is the legacy admin reservation record, lifecycle-unaware.
type Reserva struct {
	ID        string
	Type      int
	Purpose   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReservaInput captures caller provided legacy reservation fields.
type ReservaInput struct {
	Type    int
	Purpose string
}

// User represents an account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// Link represents a catalogued external link.
type Link struct {
	ID          string
	Name        string
	URL         string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LinkInput captures caller provided link fields.
type LinkInput struct {
	Name        string
	URL         string
	Description string
}

// Project represents a catalogued project entry.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectInput captures caller provided project fields.
type ProjectInput struct {
	Name        string
	Description string
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}
