package persistence

import "time"

// Material represents a reservable inventory item with a finite count.
type Material struct {
	ID          string
	Title       string
	Description string
	Type        string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reservation represents a user's claim on one or more materials. Material
// linkage is stored as join rows (reservation_materials), one unit held per
// linked material.
type Reservation struct {
	ID          string
	UserID      string
	Status      int
	Type        int
	Purpose     string
	DateStart   time.Time
	DateEnd     time.Time
	StartTime   *string
	EndTime     *string
	MaterialIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reserva is the legacy admin-managed reservation record. It carries no
// status lifecycle and no material linkage.
type Reserva struct {
	ID        string
	Type      int
	Purpose   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User represents an account in the reservation domain.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
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

// Project represents a catalogued project entry.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
